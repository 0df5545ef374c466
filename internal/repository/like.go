package repository

import (
	"context"
	"errors"

	"clipstream/internal/cache"
	"clipstream/internal/models"

	"gorm.io/gorm"
)

// LikeRepository is the like ledger's persistence layer. Like and Unlike run
// the row mutation and the counter mutation as one transaction; a crash or
// abort between them leaves neither applied.
type LikeRepository interface {
	Like(ctx context.Context, userID, videoID uint) error
	Unlike(ctx context.Context, userID, videoID uint) error
	IsLiked(ctx context.Context, userID, videoID uint) (bool, error)
	GetLikedVideoIDs(ctx context.Context, userID uint) ([]uint, error)
	GetLikedVideoIDsIn(ctx context.Context, userID uint, videoIDs []uint) ([]uint, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Like inserts the (user, video) row and increments the video's counter
// atomically. There is deliberately no existence pre-check: the composite
// unique index rejects the second of two racing inserts, and the counter
// update only runs after an insert actually succeeded.
func (r *likeRepository) Like(ctx context.Context, userID, videoID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := models.Like{UserID: userID, VideoID: videoID}
		if err := tx.Create(&like).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.NewConflictError("Video already liked")
			}
			// Stores enforcing the likes->videos constraint reject the
			// insert itself when the video is gone.
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return models.NewNotFoundError("Video", videoID)
			}
			return models.NewInternalError(err)
		}

		res := tx.Model(&models.Video{}).
			Where("id = ?", videoID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1"))
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		// Zero rows here means the video vanished; roll the insert back.
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Video", videoID)
		}
		return nil
	})
	if err == nil {
		cache.InvalidateVideo(ctx, videoID)
		cache.InvalidateUserLikes(ctx, userID)
	}
	return err
}

// Unlike deletes the (user, video) row and decrements the counter, but only
// when a row was actually deleted. The counter never goes below zero.
func (r *likeRepository) Unlike(ctx context.Context, userID, videoID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND video_id = ?", userID, videoID).
			Delete(&models.Like{})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Like", videoID)
		}

		if err := tx.Model(&models.Video{}).
			Where("id = ? AND like_count > 0", videoID).
			UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err == nil {
		cache.InvalidateVideo(ctx, videoID)
		cache.InvalidateUserLikes(ctx, userID)
	}
	return err
}

func (r *likeRepository) IsLiked(ctx context.Context, userID, videoID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// GetLikedVideoIDs serves the full liked set cache-aside; Like and Unlike
// drop the key so a stale set never outlives a mutation.
func (r *likeRepository) GetLikedVideoIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := cache.Aside(ctx, cache.UserLikesKey(userID), &ids, cache.UserLikesTTL, func() error {
		if err := r.db.WithContext(ctx).
			Model(&models.Like{}).
			Where("user_id = ?", userID).
			Pluck("video_id", &ids).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *likeRepository) GetLikedVideoIDsIn(ctx context.Context, userID uint, videoIDs []uint) ([]uint, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND video_id IN ?", userID, videoIDs).
		Pluck("video_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
