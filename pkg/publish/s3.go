package publish

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used by Publisher.
type S3API interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher uploads a static site directory to an S3 bucket.
//
// Example:
//
//	cfg, _ := config.LoadDefaultConfig(context.Background())
//	p := publish.NewPublisher(s3.NewFromConfig(cfg), "my-site", "")
//	n, err := p.PublishDir(ctx, "dist")
type Publisher struct {
	client       S3API
	bucket       string
	prefix       string
	cacheControl string
	logger       *slog.Logger
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithCacheControl sets the Cache-Control header on uploaded objects.
func WithCacheControl(value string) PublisherOption {
	return func(p *Publisher) {
		p.cacheControl = value
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger.With("component", "publish")
	}
}

// NewPublisher creates a Publisher targeting bucket with an optional
// key prefix.
func NewPublisher(client S3API, bucket, prefix string, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		client:       client,
		bucket:       bucket,
		prefix:       prefix,
		cacheControl: "public, max-age=300",
		logger:       slog.Default().With("component", "publish"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PublishDir uploads every regular file under dir, preserving relative
// paths as object keys. Returns the number of objects uploaded.
func (p *Publisher) PublishDir(ctx context.Context, dir string) (int, error) {
	uploaded := 0
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		key := p.prefix + filepath.ToSlash(rel)

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		if err := p.put(ctx, key, data); err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}
		uploaded++
		return nil
	})
	if err != nil {
		return uploaded, err
	}

	p.logger.Info("site published",
		"bucket", p.bucket,
		"objects", uploaded)
	return uploaded, nil
}

// PublishFile uploads a single file under the given object key.
func (p *Publisher) PublishFile(ctx context.Context, key, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return p.put(ctx, p.prefix+key, data)
}

func (p *Publisher) put(ctx context.Context, key string, data []byte) error {
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentTypeFor(key)),
		CacheControl: aws.String(p.cacheControl),
	})
	return err
}

// contentTypeFor infers a MIME type from the object key extension.
func contentTypeFor(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "application/javascript; charset=utf-8"
	case ".json":
		return "application/json"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".ico":
		return "image/x-icon"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
