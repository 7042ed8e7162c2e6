package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tahlil-one/tahlil/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.DailyAnalysis{}))
	return db
}

func dailyRecord(id, insight string, at time.Time) *models.DailyAnalysis {
	return &models.DailyAnalysis{
		RecordID:         id,
		Market:           "TASI",
		InstrumentCode:   "2222",
		AnalysisDatetime: "2024-03-15T10:00:00+00:00",
		InsightType:      insight,
		AnalysisPrice:    "27.50",
		TargetPrice:      "29.00",
		CriticalLevel:    "26.80",
		Source:           models.DailyAnalysisSourceGoogleSheets,
		CreatedAt:        at,
		UpdatedAt:        at,
	}
}

func TestDailyAnalysisUpsertByNaturalKey(t *testing.T) {
	ctx := context.Background()
	repo := NewDailyAnalysisRepository(setupTestDB(t))
	t0 := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	missing, err := repo.FindByNaturalKey(ctx, "TASI", "2222", "2024-03-15T10:00:00+00:00")
	require.NoError(t, err)
	assert.Nil(t, missing)

	first := dailyRecord("daily_a", "bullish", t0)
	require.NoError(t, repo.Upsert(ctx, first))
	assert.Equal(t, "daily_a", first.RecordID)

	// resync with the id found by natural key
	resync := dailyRecord("daily_a", "neutral", t0.Add(time.Hour))
	resync.CreatedAt = t0
	require.NoError(t, repo.Upsert(ctx, resync))
	assert.Equal(t, "neutral", resync.InsightType)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDailyAnalysisUpsertWithStaleID(t *testing.T) {
	ctx := context.Background()
	repo := NewDailyAnalysisRepository(setupTestDB(t))
	t0 := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Upsert(ctx, dailyRecord("daily_a", "bullish", t0)))

	// a concurrent sync minted a second id for the same key
	late := dailyRecord("daily_b", "bearish", t0.Add(2*time.Hour))
	require.NoError(t, repo.Upsert(ctx, late))

	assert.Equal(t, "daily_a", late.RecordID)
	assert.Equal(t, "bearish", late.InsightType)
	assert.True(t, t0.Equal(late.CreatedAt), "created_at changed to %s", late.CreatedAt)

	stored, err := repo.FindByNaturalKey(ctx, "TASI", "2222", "2024-03-15T10:00:00+00:00")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "daily_a", stored.RecordID)
	assert.Equal(t, "bearish", stored.InsightType)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	latest, err := repo.LatestUpdatedAt(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.True(t, t0.Add(2*time.Hour).Equal(*latest))
}
