package s3backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gofiber/fiber/v2/log"
)

// ErrDisabled is returned by NewClient when S3_BACKUP_ENABLED is not set.
var ErrDisabled = errors.New("S3 backup is disabled")

// objectAPI is the part of the S3 API an export run touches.
type objectAPI interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Client moves export folders between local disk and a bucket.
type Client struct {
	api    objectAPI
	bucket string
	config *Config
}

// NewClient connects to the configured bucket. The bucket must already exist.
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	if !cfg.IsEnabled() {
		return nil, ErrDisabled
	}

	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	api := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			// S3-compatible endpoints (B2, MinIO) want path-style addressing
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
		}
	})

	c := newClient(api, cfg)
	if _, err := api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)}); err != nil {
		return nil, fmt.Errorf("bucket %s not accessible: %w", c.bucket, err)
	}

	log.Infof("[S3Backup] Connected to bucket %s", c.bucket)
	return c, nil
}

func newClient(api objectAPI, cfg *Config) *Client {
	return &Client{api: api, bucket: cfg.GetBucketName(), config: cfg}
}

// UploadDir uploads every regular file of dir into folder and returns the object keys.
func (c *Client) UploadDir(ctx context.Context, dir, folder string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var keys []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		key := c.config.GetObjectKey(folder, entry.Name())
		if err := c.put(ctx, filepath.Join(dir, entry.Name()), key); err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	log.Infof("[S3Backup] Uploaded %d files to s3://%s/%s", len(keys), c.bucket, folder)
	return keys, nil
}

func (c *Client) put(ctx context.Context, localPath, key string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	_, err = c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(info.Size()),
		Metadata:      map[string]string{"upload-source": "tahlil-export"},
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// DownloadFolder downloads the given file names of folder into dir. Missing objects are skipped.
func (c *Client) DownloadFolder(ctx context.Context, folder, dir string, names []string) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}

	n := 0
	for _, name := range names {
		key := c.config.GetObjectKey(folder, name)
		err := c.get(ctx, key, filepath.Join(dir, name))
		var noKey *types.NoSuchKey
		switch {
		case errors.As(err, &noKey):
			log.Warnf("[S3Backup] %s not found, skipping", key)
		case err != nil:
			return n, err
		default:
			n++
		}
	}
	return n, nil
}

func (c *Client) get(ctx context.Context, key, localPath string) error {
	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", key, err)
	}
	defer out.Body.Close()

	f, err := os.Create(localPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, out.Body); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", localPath, err)
	}
	return f.Close()
}
