package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"fitcal/workout-tracker/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "", endpointURL("", true))
	assert.Equal(t, "https://minio:9000", endpointURL("minio:9000", true))
	assert.Equal(t, "http://minio:9000", endpointURL("minio:9000", false))
	assert.Equal(t, "http://localhost:9000", endpointURL("http://localhost:9000", true))
}

func TestS3Storage_PresignDownload(t *testing.T) {
	// presigning is a local computation, no request leaves the process
	st, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        "localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "exports",
	})
	require.NoError(t, err)

	url, err := st.GeneratePresignedDownloadURL(context.Background(), "exports/u1/file.json", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/exports/exports/u1/file.json?"), url)
	assert.Contains(t, url, "X-Amz-Expires=60")
}
