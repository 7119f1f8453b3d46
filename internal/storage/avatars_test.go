package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/staff-service/internal/config"
)

func testConfig() config.StorageConfig {
	return config.StorageConfig{
		Bucket:          "avatars",
		Region:          "us-east-1",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		UsePathStyle:    true,
		PresignTTLSecs:  300,
	}
}

func TestNewAvatarStoreRequiresBucket(t *testing.T) {
	_, err := NewAvatarStore(context.Background(), config.StorageConfig{})
	assert.ErrorIs(t, err, ErrNoBucket)
}

func TestPresignPut(t *testing.T) {
	store, err := NewAvatarStore(context.Background(), testConfig())
	require.NoError(t, err)

	raw, expiresAt, err := store.PresignPut(context.Background(), "avatars/u1/a.png", "image/png")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/avatars/avatars/u1/a.png", u.Path)
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), expiresAt, 5*time.Second)
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(c *config.StorageConfig)
		want string
	}{
		{name: "endpoint", cfg: func(*config.StorageConfig) {}, want: "http://localhost:9000/avatars/avatars/u1/a.png"},
		{name: "public base", cfg: func(c *config.StorageConfig) { c.PublicBaseURL = "https://cdn.example.com/" }, want: "https://cdn.example.com/avatars/u1/a.png"},
		{name: "aws", cfg: func(c *config.StorageConfig) { c.Endpoint = "" }, want: "https://avatars.s3.us-east-1.amazonaws.com/avatars/u1/a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.cfg(&cfg)
			store, err := NewAvatarStore(context.Background(), cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, store.PublicURL("avatars/u1/a.png"))
		})
	}
}
