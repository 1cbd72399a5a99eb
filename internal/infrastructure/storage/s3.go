// Package storage issues presigned upload URLs for institution branding assets.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	identityapp "github.com/edusaas/backend/internal/application/identity"
	"github.com/edusaas/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	defaultEndpoint  = "http://localhost:9000"
	defaultUploadTTL = 15 * time.Minute

	// Logo keys embed a random component, so a stored object never changes
	logoCacheControl = "public, max-age=31536000, immutable"
)

var errEmptyKey = errors.New("storage key is required")

var _ identityapp.LogoStorage = (*S3LogoStore)(nil)

// S3LogoStore hands out presigned PUT URLs against an S3-compatible bucket
// (AWS S3, MinIO, RustFS) and knows where uploaded logos are served from.
type S3LogoStore struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	origin    *url.URL
	pathStyle bool
	cdn       string
	uploadTTL time.Duration
	log       *zap.Logger
}

// Option customizes an S3LogoStore
type Option func(*S3LogoStore)

func WithLogger(log *zap.Logger) Option {
	return func(s *S3LogoStore) { s.log = log }
}

// WithUploadTTL overrides storage.presign_expiration
func WithUploadTTL(d time.Duration) Option {
	return func(s *S3LogoStore) { s.uploadTTL = d }
}

// NewS3LogoStore builds a client with static credentials. It does not touch
// the network; call EnsureBucket for that.
func NewS3LogoStore(cfg *config.StorageConfig, opts ...Option) (*S3LogoStore, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	var problems []error
	if cfg.Bucket == "" {
		problems = append(problems, errors.New("storage bucket is required"))
	}
	if cfg.AccessKey == "" {
		problems = append(problems, errors.New("storage access key is required"))
	}
	if cfg.SecretKey == "" {
		problems = append(problems, errors.New("storage secret key is required"))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	origin, err := parseEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(origin.String())
		o.UsePathStyle = cfg.UsePathStyle
	})

	store := &S3LogoStore{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		origin:    origin,
		pathStyle: cfg.UsePathStyle,
		cdn:       strings.TrimRight(cfg.PublicBaseURL, "/"),
		uploadTTL: cfg.PresignExpiration,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(store)
	}
	if store.uploadTTL <= 0 {
		store.uploadTTL = defaultUploadTTL
	}
	return store, nil
}

// parseEndpoint accepts "host:port" as well as a full URL; a bare host gets
// https or http depending on useSSL.
func parseEndpoint(raw string, useSSL bool) (*url.URL, error) {
	if raw == "" {
		raw = defaultEndpoint
	}
	if !strings.Contains(raw, "://") {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		raw = scheme + "://" + raw
	}
	u, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("storage endpoint %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("storage endpoint %q has no host", raw)
	}
	return u, nil
}

// EnsureBucket creates the bucket when HeadBucket says it is missing.
// Safe to call on every start.
func (s *S3LogoStore) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	var (
		notFound *types.NotFound
		noBucket *types.NoSuchBucket
	)
	if !errors.As(err, &notFound) && !errors.As(err, &noBucket) {
		return fmt.Errorf("head bucket %s: %w", s.bucket, err)
	}

	s.log.Info("Creating logo bucket", zap.String("bucket", s.bucket), zap.String("endpoint", s.origin.Host))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	var owned *types.BucketAlreadyOwnedByYou
	if err != nil && !errors.As(err, &owned) {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// GenerateUploadURL presigns a PUT of storageKey. The browser must send the
// same Content-Type and Cache-Control headers or the signature fails.
func (s *S3LogoStore) GenerateUploadURL(ctx context.Context, storageKey, contentType string, ttl time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errEmptyKey
	}
	if ttl <= 0 {
		ttl = s.uploadTTL
	}

	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(storageKey),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(logoCacheControl),
	}, s3.WithPresignExpires(ttl), s3.WithPresignClientFromClientOptions(func(o *s3.Options) {
		o.APIOptions = append(o.APIOptions, signContentType(contentType))
	}))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign %s: %w", storageKey, err)
	}
	s.log.Debug("Presigned logo upload", zap.String("key", storageKey), zap.Duration("ttl", ttl))
	return req.URL, time.Now().Add(ttl), nil
}

// PublicURL is where the logo is served once uploaded: the CDN base when
// configured, otherwise the bucket address on the S3 endpoint.
func (s *S3LogoStore) PublicURL(storageKey string) string {
	key := strings.TrimLeft(storageKey, "/")
	if s.cdn != "" {
		return s.cdn + "/" + key
	}
	u := *s.origin
	if s.pathStyle {
		u.Path = "/" + s.bucket + "/" + key
	} else {
		u.Host = s.bucket + "." + u.Host
		u.Path = "/" + key
	}
	return u.String()
}

// signContentType puts Content-Type back on the request after the presigner
// drops it from bodiless requests, so the signature covers it and an upload
// with any other type is rejected by the bucket.
func signContentType(contentType string) func(*middleware.Stack) error {
	return func(stack *middleware.Stack) error {
		return stack.Build.Add(middleware.BuildMiddlewareFunc("SignLogoContentType",
			func(ctx context.Context, in middleware.BuildInput, next middleware.BuildHandler) (middleware.BuildOutput, middleware.Metadata, error) {
				if req, ok := in.Request.(*smithyhttp.Request); ok {
					req.Header.Set("Content-Type", contentType)
				}
				return next.HandleBuild(ctx, in)
			}), middleware.After)
	}
}
