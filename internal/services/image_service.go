package services

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/shopfront/backend/internal/metrics"
	"github.com/shopfront/backend/internal/models"
	"github.com/shopfront/backend/internal/storage"
	"go.uber.org/zap"
)

// MaxImageSize is the largest accepted profile image in bytes
const MaxImageSize = 1 << 20

// ImageStorage is the interface that wraps the external file host
type ImageStorage interface {
	// Method Put stores "body" under "key" and returns the URL the file is served from.
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	// Method Delete removes the file stored under "key".
	Delete(ctx context.Context, key string) error
}

// UserImageRepository is the interface that wraps updating of the user image reference
type UserImageRepository interface {
	// Method UpdateImage replaces the image reference of user "userID".
	//
	// If user with such ID does not exist, models.ErrNotFound will be returned.
	UpdateImage(ctx context.Context, userID, image string) error
}

type imageService struct {
	storage  ImageStorage
	userRepo UserImageRepository
	logger   *zap.Logger
}

// NewImageService creates a new profile image service
func NewImageService(storage ImageStorage, userRepo UserImageRepository, logger *zap.Logger) *imageService {
	return &imageService{
		storage:  storage,
		userRepo: userRepo,
		logger:   logger,
	}
}

// UpdateProfileImage uploads a jpeg or png file and makes it the image of user userID.
// It returns the URL of the stored file.
func (s *imageService) UpdateProfileImage(ctx context.Context, userID string, file io.Reader, contentType string) (url string, err error) {
	defer func() {
		metrics.ImageUploadsTotal.WithLabelValues(metrics.Result(err)).Inc()
	}()

	ext, ok := storage.ExtensionFor(contentType)
	if !ok {
		return "", models.ErrUnsupportedFormat
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > MaxImageSize {
		return "", models.ErrFileTooLarge
	}

	key := "users/" + storage.GenerateFileName(ext)
	url, err = s.storage.Put(ctx, key, bytes.NewReader(data), contentType)
	if err != nil {
		s.logger.Error("failed to store image", zap.Error(err), zap.String("userId", userID))
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	if err := s.userRepo.UpdateImage(ctx, userID, url); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove orphaned image", zap.Error(delErr), zap.String("key", key))
		}
		return "", err
	}

	return url, nil
}
