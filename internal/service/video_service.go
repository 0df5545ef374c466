package service

import (
	"context"
	"net/url"
	"strings"

	"clipstream/internal/models"
	"clipstream/internal/repository"
)

const (
	maxTitleLength       = 150
	maxDescriptionLength = 2000
)

// CreateVideoInput carries the metadata a client submits once the binary
// upload finished. URL must point at the stored payload.
type CreateVideoInput struct {
	URL          string   `json:"url"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	ThumbnailURL string   `json:"thumbnail_url"`
	Duration     *float64 `json:"duration"`
}

// VideoService manages video metadata rows.
type VideoService struct {
	videoRepo repository.VideoRepository
	likeRepo  repository.LikeRepository
}

// NewVideoService creates a new video service.
func NewVideoService(videoRepo repository.VideoRepository, likeRepo repository.LikeRepository) *VideoService {
	return &VideoService{videoRepo: videoRepo, likeRepo: likeRepo}
}

// CreateVideo validates and persists the metadata row for an already-stored
// payload. The binary itself never passes through here.
func (s *VideoService) CreateVideo(ctx context.Context, userID uint, in CreateVideoInput) (*models.Video, error) {
	if userID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	in.URL = strings.TrimSpace(in.URL)
	if in.URL == "" {
		return nil, models.NewValidationError("URL is required")
	}
	if _, err := url.ParseRequestURI(in.URL); err != nil {
		return nil, models.NewValidationError("URL is not valid")
	}
	in.Title = strings.TrimSpace(in.Title)
	if len(in.Title) > maxTitleLength {
		return nil, models.NewValidationError("Title is too long")
	}
	if len(in.Description) > maxDescriptionLength {
		return nil, models.NewValidationError("Description is too long")
	}
	if in.Duration != nil && *in.Duration < 0 {
		return nil, models.NewValidationError("Duration cannot be negative")
	}

	video := &models.Video{
		UserID:       userID,
		URL:          in.URL,
		Title:        in.Title,
		Description:  in.Description,
		ThumbnailURL: in.ThumbnailURL,
		Duration:     in.Duration,
	}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

// GetVideo returns one video with like state resolved for the viewer.
// viewerID zero means anonymous; Liked is then always false.
func (s *VideoService) GetVideo(ctx context.Context, id uint, viewerID uint) (*models.Video, error) {
	return s.videoRepo.GetByID(ctx, id, viewerID)
}

// GetUserVideos lists a user's uploads, newest first.
func (s *VideoService) GetUserVideos(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Video, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.videoRepo.GetByUserID(ctx, userID, limit, offset, viewerID)
}
