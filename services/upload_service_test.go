package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terra-pic/api-go/config"
)

func newTestUploadService() *UploadService {
	return NewUploadService(&config.R2Config{
		AccountID:       "acct",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "photos",
		PublicURL:       "https://cdn.example.com",
		Region:          "auto",
	})
}

func TestCreateImageUploadURLRejectsNonImages(t *testing.T) {
	svc := newTestUploadService()
	ctx := context.Background()

	for _, contentType := range []string{"video/mp4", "application/pdf", "text/html", "image/webp"} {
		_, err := svc.CreateImageUploadURL(ctx, 1, "file.bin", contentType, 1024)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr, contentType)
		assert.Equal(t, "content_type", validationErr.Field)
	}
}

func TestCreateImageUploadURLRejectsOversize(t *testing.T) {
	svc := newTestUploadService()
	ctx := context.Background()

	_, err := svc.CreateImageUploadURL(ctx, 1, "big.jpg", "image/jpeg", maxImageBytes+1)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "file_size", validationErr.Field)

	_, err = svc.CreateImageUploadURL(ctx, 1, "empty.jpg", "image/jpeg", 0)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "file_size", validationErr.Field)
}

func TestCreateImageUploadURLPresigns(t *testing.T) {
	svc := newTestUploadService()

	upload, err := svc.CreateImageUploadURL(context.Background(), 7, "shot.png", "image/png", 1024)
	require.NoError(t, err)

	assert.Contains(t, upload.UploadURL, "acct.r2.cloudflarestorage.com")
	assert.Contains(t, upload.UploadURL, "photos")
	assert.True(t, strings.HasPrefix(upload.FileURL, "https://cdn.example.com/uploads/images/7/"))
	assert.True(t, strings.HasSuffix(upload.Key, ".png"))
	assert.Equal(t, 3600, upload.ExpiresIn)
}

func TestGenerateImageKeyEmbedsUser(t *testing.T) {
	svc := newTestUploadService()

	key := svc.generateImageKey(42, "photo.jpg")
	assert.True(t, strings.HasPrefix(key, "uploads/images/42/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	other := svc.generateImageKey(42, "photo.jpg")
	assert.NotEqual(t, key, other, "keys are unique per upload")
}

func TestOwnsKey(t *testing.T) {
	svc := newTestUploadService()

	assert.True(t, svc.ownsKey(42, "uploads/images/42/123_abc.jpg"))
	assert.False(t, svc.ownsKey(7, "uploads/images/42/123_abc.jpg"))
	assert.False(t, svc.ownsKey(42, "garbage"))
}
