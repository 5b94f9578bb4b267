// Package store publishes zipped app bundles to S3-compatible object storage.
package store

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DefaultLinkTTL is how long a download link stays valid.
const DefaultLinkTTL = time.Hour

type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
	LinkTTL   time.Duration
}

// Upload is a stored bundle and a presigned link to fetch it.
type Upload struct {
	Key     string
	Size    int64
	URL     string
	Expires time.Time
}

// Bundles keeps one object per published app under
// <prefix>/<app>/<timestamp>.zip.
type Bundles struct {
	client  *minio.Client
	bucket  string
	region  string
	prefix  string
	linkTTL time.Duration
	now     func() time.Time

	mu    sync.Mutex
	ready bool
}

func NewBundles(cfg Config) (*Bundles, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}
	ttl := cfg.LinkTTL
	if ttl <= 0 {
		ttl = DefaultLinkTTL
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &Bundles{
		client:  client,
		bucket:  bucket,
		region:  region,
		prefix:  strings.Trim(strings.TrimSpace(cfg.Prefix), "/"),
		linkTTL: ttl,
		now:     time.Now,
	}, nil
}

// Publish stores a zipped bundle for app and presigns a download link.
func (b *Bundles) Publish(ctx context.Context, app string, bundle []byte) (*Upload, error) {
	app = strings.Trim(strings.TrimSpace(app), "/")
	if app == "" {
		return nil, fmt.Errorf("app name is required")
	}
	if len(bundle) == 0 {
		return nil, fmt.Errorf("bundle is empty")
	}
	if err := b.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}

	now := b.now().UTC()
	key := b.key(app, now)
	info, err := b.client.PutObject(ctx, b.bucket, key, bytes.NewReader(bundle), int64(len(bundle)), minio.PutObjectOptions{
		ContentType:  "application/zip",
		UserMetadata: map[string]string{"app": app},
	})
	if err != nil {
		return nil, fmt.Errorf("put %s: %w", key, err)
	}

	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", app+".zip"))
	link, err := b.client.PresignedGetObject(ctx, b.bucket, key, b.linkTTL, params)
	if err != nil {
		return nil, fmt.Errorf("presign %s: %w", key, err)
	}

	return &Upload{
		Key:     key,
		Size:    info.Size,
		URL:     link.String(),
		Expires: now.Add(b.linkTTL),
	}, nil
}

func (b *Bundles) key(app string, at time.Time) string {
	key := app + "/" + at.Format("20060102T150405Z") + ".zip"
	if b.prefix != "" {
		key = b.prefix + "/" + key
	}
	return key
}

// ensureBucket creates the bucket on first use. A failed check is retried on
// the next call.
func (b *Bundles) ensureBucket(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ready {
		return nil
	}

	exists, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := b.client.MakeBucket(ctx, b.bucket, minio.MakeBucketOptions{Region: b.region}); err != nil {
			return err
		}
	}
	b.ready = true
	return nil
}
