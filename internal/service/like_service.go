// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"context"

	"clipstream/internal/middleware"
	"clipstream/internal/models"
	"clipstream/internal/repository"
)

// LikeService is the like ledger: the single writer of Video.LikeCount and
// the source of truth for "does user U like video V".
type LikeService struct {
	likeRepo repository.LikeRepository
}

// NewLikeService creates a new like service.
func NewLikeService(likeRepo repository.LikeRepository) *LikeService {
	return &LikeService{likeRepo: likeRepo}
}

// Like records a like. A duplicate like fails with a Conflict the client is
// expected to treat as benign; the counter moves by exactly one on success.
func (s *LikeService) Like(ctx context.Context, userID, videoID uint) error {
	if userID == 0 {
		return models.NewUnauthorizedError("Authentication required")
	}

	err := s.likeRepo.Like(ctx, userID, videoID)
	switch {
	case err == nil:
		middleware.LikeOperations.WithLabelValues("like", "ok").Inc()
	case models.IsCode(err, models.CodeConflict):
		middleware.LikeOperations.WithLabelValues("like", "conflict").Inc()
	case models.IsCode(err, models.CodeNotFound):
		middleware.LikeOperations.WithLabelValues("like", "not_found").Inc()
	default:
		middleware.LikeOperations.WithLabelValues("like", "error").Inc()
	}
	return err
}

// Unlike removes a like. Unliking a pair with no row fails with NotFound and
// never touches the counter.
func (s *LikeService) Unlike(ctx context.Context, userID, videoID uint) error {
	if userID == 0 {
		return models.NewUnauthorizedError("Authentication required")
	}

	err := s.likeRepo.Unlike(ctx, userID, videoID)
	switch {
	case err == nil:
		middleware.LikeOperations.WithLabelValues("unlike", "ok").Inc()
	case models.IsCode(err, models.CodeNotFound):
		middleware.LikeOperations.WithLabelValues("unlike", "not_found").Inc()
	default:
		middleware.LikeOperations.WithLabelValues("unlike", "error").Inc()
	}
	return err
}

// LikedVideoIDs returns the ids of every video the user has liked.
func (s *LikeService) LikedVideoIDs(ctx context.Context, userID uint) ([]uint, error) {
	if userID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	return s.likeRepo.GetLikedVideoIDs(ctx, userID)
}
