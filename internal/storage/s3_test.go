package storage

import (
	"alcyxob/gymdesk/internal/config"
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "", endpointURL(config.S3Config{}))
	assert.Equal(t, "http://minio:9000", endpointURL(config.S3Config{Endpoint: "minio:9000"}))
	assert.Equal(t, "https://s3.example.com", endpointURL(config.S3Config{Endpoint: "s3.example.com", UseSSL: true}))
	assert.Equal(t, "http://localhost:9000", endpointURL(config.S3Config{Endpoint: "http://localhost:9000", UseSSL: true}))
}

// Presigning is a local signature computation, so no bucket needs to exist.
func TestPresignedDownloadURL(t *testing.T) {
	fs, err := NewS3Storage(config.S3Config{
		Endpoint:        "localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		BucketName:      "exports",
	})
	require.NoError(t, err)

	raw, err := fs.GeneratePresignedDownloadURL(context.Background(), "exports/workout/abc-1.html", 10*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.True(t, strings.HasPrefix(u.Path, "/exports/exports/workout/abc-1.html"))
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
}
