package output

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectTargetConfig locates an S3-compatible bucket and key prefix.
type ObjectTargetConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Prefix    string
}

// ObjectTarget stashes into an S3-compatible bucket. PutObject replaces a key
// atomically, so no temp object is needed.
type ObjectTarget struct {
	client *minio.Client
	bucket string
	prefix string
	region string

	initOnce sync.Once
	initErr  error
}

func NewObjectTarget(cfg ObjectTargetConfig) (*ObjectTarget, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &ObjectTarget{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		region: region,
	}, nil
}

func (o *ObjectTarget) key(name string) string {
	if o.prefix == "" {
		return name
	}
	return path.Join(o.prefix, name)
}

func (o *ObjectTarget) ensureBucket(ctx context.Context) error {
	o.initOnce.Do(func() {
		exists, err := o.client.BucketExists(ctx, o.bucket)
		if err != nil {
			o.initErr = err
			return
		}
		if !exists {
			o.initErr = o.client.MakeBucket(ctx, o.bucket, minio.MakeBucketOptions{Region: o.region})
		}
	})
	return o.initErr
}

func (o *ObjectTarget) Exists(ctx context.Context, name string) (bool, error) {
	if err := o.ensureBucket(ctx); err != nil {
		return false, fmt.Errorf("ensure bucket: %w", err)
	}
	_, err := o.client.StatObject(ctx, o.bucket, o.key(name), minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (o *ObjectTarget) Write(ctx context.Context, name string, data []byte) (string, error) {
	if err := o.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}
	key := o.key(name)
	_, err := o.client.PutObject(ctx, o.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("s3://%s/%s", o.bucket, key), nil
}
