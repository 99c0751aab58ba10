package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/terra-pic/api-go/config"
)

const (
	maxImageBytes   = 5 * 1024 * 1024
	uploadURLExpiry = time.Hour
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// UploadService hands out presigned PUT URLs for Cloudflare R2 so image
// bytes never pass through the API process.
type UploadService struct {
	Client *s3.Client
	Config *config.R2Config
}

func NewUploadService(cfg *config.R2Config) *UploadService {
	client := s3.New(s3.Options{
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)),
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
		Region: cfg.Region,
	})
	return &UploadService{Client: client, Config: cfg}
}

type PresignedUpload struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expires_in"`
}

// CreateImageUploadURL validates the declared file and returns a
// presigned PUT URL. Only still images are accepted.
func (s *UploadService) CreateImageUploadURL(ctx context.Context, userID uint, fileName, contentType string, fileSize int64) (*PresignedUpload, error) {
	if !allowedImageTypes[contentType] {
		return nil, NewValidationError("content_type", "only jpeg, png and gif images are allowed")
	}
	if fileSize <= 0 || fileSize > maxImageBytes {
		return nil, NewValidationError("file_size", "image must be 5MB or smaller")
	}

	key := s.generateImageKey(userID, fileName)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.Config.BucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}
	presigner := s3.NewPresignClient(s.Client)
	req, err := presigner.PresignPutObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = uploadURLExpiry
	})
	if err != nil {
		return nil, &ExternalServiceError{
			Service:   "r2",
			Message:   err.Error(),
			Retryable: true,
		}
	}

	return &PresignedUpload{
		UploadURL: req.URL,
		FileURL:   fmt.Sprintf("%s/%s", s.Config.PublicURL, key),
		Key:       key,
		ExpiresIn: int(uploadURLExpiry.Seconds()),
	}, nil
}

// ConfirmUpload checks the object actually landed in the bucket.
func (s *UploadService) ConfirmUpload(ctx context.Context, key string) (bool, error) {
	input := &s3.HeadObjectInput{
		Bucket: aws.String(s.Config.BucketName),
		Key:    aws.String(key),
	}
	if _, err := s.Client.HeadObject(ctx, input); err != nil {
		return false, nil
	}
	return true, nil
}

// DeleteImage removes an uploaded object. The key embeds the uploading
// user's ID, so ownership is checked before touching the bucket.
func (s *UploadService) DeleteImage(ctx context.Context, userID uint, key string) error {
	if !s.ownsKey(userID, key) {
		return NewValidationError("key", "file does not belong to this user")
	}

	input := &s3.DeleteObjectInput{
		Bucket: aws.String(s.Config.BucketName),
		Key:    aws.String(key),
	}
	if _, err := s.Client.DeleteObject(ctx, input); err != nil {
		return &ExternalServiceError{
			Service:   "r2",
			Message:   err.Error(),
			Retryable: true,
		}
	}
	return nil
}

// Key format: uploads/images/{userID}/{timestamp}_{uuid}{ext}
func (s *UploadService) generateImageKey(userID uint, fileName string) string {
	ext := filepath.Ext(fileName)
	return fmt.Sprintf("uploads/images/%d/%d_%s%s", userID, time.Now().Unix(), uuid.New().String(), ext)
}

func (s *UploadService) ownsKey(userID uint, key string) bool {
	parts := strings.Split(key, "/")
	if len(parts) < 3 {
		return false
	}
	return parts[2] == fmt.Sprintf("%d", userID)
}
