package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pageza/mealplanner-v2/backend/config"
)

// ImageService stores recipe images in S3 and hands out presigned URLs.
type ImageService struct {
	s3Config *config.S3Config
}

// NewImageService creates a new ImageService instance
func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

// UploadRecipeImage stores the image bytes under a recipe-scoped key and
// returns the object key to persist on the recipe.
func (s *ImageService) UploadRecipeImage(ctx context.Context, recipeID uuid.UUID, data []byte, contentType string) (string, error) {
	key := fmt.Sprintf("recipes/%s/%s", recipeID, uuid.New())

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload recipe image: %w", err)
	}
	return key, nil
}

// ImageURL returns a presigned GET URL for a stored image key.
func (s *ImageService) ImageURL(ctx context.Context, key string) (string, error) {
	return s.s3Config.GeneratePresignedURL(ctx, key, 1*time.Hour)
}

// DeleteImage removes a stored image; callers use it when a recipe goes away.
func (s *ImageService) DeleteImage(ctx context.Context, key string) error {
	_, err := s.s3Config.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete recipe image: %w", err)
	}
	return nil
}
