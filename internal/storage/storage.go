// Package storage uploads catalog and logo images to S3-compatible object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"royalwood-storefront/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// LogoPrefix is the upload prefix for business logos. Catalog images use the
// catalog kind as their prefix.
const LogoPrefix = "logos"

// ImageStore stores an image and returns the URL it is served from.
type ImageStore interface {
	Upload(ctx context.Context, prefix, filename, contentType string, body io.Reader) (string, error)
}

// Config configures S3ImageStore.
type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	// PublicURL is the base that object keys are appended to. Defaults to
	// <endpoint>/<bucket>.
	PublicURL string
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore implements ImageStore on any S3-compatible backend.
type S3ImageStore struct {
	client    objectPutter
	bucket    string
	publicURL string
	now       func() time.Time
	logger    *zap.Logger
}

type Option func(*S3ImageStore)

func WithLogger(l *zap.Logger) Option {
	return func(s *S3ImageStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used to build object keys.
func WithClock(now func() time.Time) Option {
	return func(s *S3ImageStore) { s.now = now }
}

func NewS3ImageStore(ctx context.Context, cfg Config, opts ...Option) (*S3ImageStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("storage credentials are required")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:9000"
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String(endpoint)
	})

	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = strings.TrimRight(endpoint, "/") + "/" + cfg.Bucket
	}
	return newS3ImageStore(client, cfg.Bucket, publicURL, opts...), nil
}

func newS3ImageStore(client objectPutter, bucket, publicURL string, opts ...Option) *S3ImageStore {
	s := &S3ImageStore{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload stores body under <prefix>/<unix millis>_<filename>.
func (s *S3ImageStore) Upload(ctx context.Context, prefix, filename, contentType string, body io.Reader) (string, error) {
	key := ObjectKey(prefix, filename, s.now())
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		s.logger.Error("storage: upload failed", zap.String("key", key), zap.Error(err))
		return "", &domain.RemoteWriteError{Op: "upload image", Err: err}
	}
	s.logger.Info("storage: uploaded", zap.String("key", key))
	return s.publicURL + "/" + key, nil
}

// ObjectKey builds the storage key for an uploaded file.
func ObjectKey(prefix, filename string, at time.Time) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	name = strings.ReplaceAll(name, " ", "_")
	return fmt.Sprintf("%s/%d_%s", strings.Trim(prefix, "/"), at.UnixMilli(), name)
}

// Disabled rejects every upload. It stands in when no bucket is configured.
type Disabled struct{}

func (Disabled) Upload(context.Context, string, string, string, io.Reader) (string, error) {
	return "", &domain.ValidationError{Field: "image", Message: "image uploads are not configured"}
}
