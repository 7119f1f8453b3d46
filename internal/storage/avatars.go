// Package storage issues presigned object storage URLs for user avatars.
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

	"github.com/spec-kit/staff-service/internal/config"
)

// ErrNoBucket is returned when storage is requested without a bucket.
var ErrNoBucket = errors.New("storage: no bucket configured")

// AvatarStore presigns avatar uploads into one S3 compatible bucket.
type AvatarStore struct {
	presign    *s3.PresignClient
	bucket     string
	publicBase string
	ttl        time.Duration
}

// NewAvatarStore builds the presigner. Static credentials are used when
// configured, the default AWS chain otherwise.
func NewAvatarStore(ctx context.Context, cfg config.StorageConfig) (*AvatarStore, error) {
	if cfg.Bucket == "" {
		return nil, ErrNoBucket
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &AvatarStore{
		presign:    s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		publicBase: publicBase(cfg),
		ttl:        cfg.PresignTTL(),
	}, nil
}

func publicBase(cfg config.StorageConfig) string {
	switch {
	case cfg.PublicBaseURL != "":
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

// PresignPut returns a URL the client can PUT the object to.
func (s *AvatarStore) PresignPut(ctx context.Context, key, contentType string) (string, time.Time, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(o *s3.PresignOptions) {
		o.Expires = s.ttl
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign put %s: %w", key, err)
	}
	return req.URL, time.Now().Add(s.ttl).UTC(), nil
}

// PublicURL returns where the object is served from once uploaded.
func (s *AvatarStore) PublicURL(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return s.publicBase + "/" + strings.Join(parts, "/")
}
