package s3backup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDisabledByDefault(t *testing.T) {
	t.Setenv("S3_BACKUP_ENABLED", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.IsEnabled())

	_, err = NewClient(context.Background(), cfg)
	assert.True(t, errors.Is(err, ErrDisabled))
}

func TestLoadConfigRequiresCredentialsWhenEnabled(t *testing.T) {
	t.Setenv("S3_BACKUP_ENABLED", "true")
	t.Setenv("S3_ACCESS_KEY_ID", "key")
	t.Setenv("S3_SECRET_ACCESS_KEY", "")
	t.Setenv("S3_BUCKET_NAME", "bucket")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "S3_SECRET_ACCESS_KEY")

	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "bucket", cfg.GetBucketName())
}

func TestObjectKeys(t *testing.T) {
	cfg := &Config{Prefix: "/exports/"}
	at := time.Date(2024, 3, 15, 9, 5, 7, 0, time.FixedZone("AST", 3*3600))

	folder := cfg.ExportFolder(at)
	assert.Equal(t, "exports/20240315T060507Z", folder)
	assert.Equal(t, "exports/20240315T060507Z/users.json", cfg.GetObjectKey(folder, "/tmp/out/users.json"))
}
