package repository

import (
	"context"
	"errors"

	"clipstream/internal/cache"
	"clipstream/internal/models"

	"gorm.io/gorm"
)

// VideoRepository defines persistence operations for videos and the feed.
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Video, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Video, error)
	// FeedPage returns up to limit videos strictly after the cursor in the
	// feed ordering (created_at DESC, id DESC). A cursor that no longer
	// resolves yields an empty page.
	FeedPage(ctx context.Context, cursorID *uint, limit int) ([]*models.Video, error)
}

type videoRepository struct {
	db *gorm.DB
}

// NewVideoRepository creates a new video repository
func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	if err := r.db.WithContext(ctx).Create(video).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFeed(ctx)
	return nil
}

// applyLikedSelect attaches the viewer's liked flag as a subquery so a single
// query covers detail reads.
func (r *videoRepository) applyLikedSelect(db *gorm.DB, viewerID uint) *gorm.DB {
	if viewerID != 0 {
		return db.Select(
			"videos.*, EXISTS(SELECT 1 FROM likes WHERE likes.video_id = videos.id AND likes.user_id = ?) AS liked",
			viewerID,
		)
	}
	return db.Select("videos.*, FALSE AS liked")
}

func (r *videoRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Video, error) {
	var video models.Video

	fetch := func() error {
		err := r.applyLikedSelect(r.db.WithContext(ctx).Model(&models.Video{}), viewerID).
			Preload("User").
			First(&video, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Video", id)
		}
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	}

	var err error
	if viewerID == 0 {
		// Anonymous reads share a cached row; liked is always false for them.
		err = cache.Aside(ctx, cache.VideoKey(id), &video, cache.VideoTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *videoRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Video, error) {
	var videos []*models.Video
	err := r.applyLikedSelect(r.db.WithContext(ctx).Model(&models.Video{}), viewerID).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&videos).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return videos, nil
}

func (r *videoRepository) FeedPage(ctx context.Context, cursorID *uint, limit int) ([]*models.Video, error) {
	q := r.db.WithContext(ctx).Model(&models.Video{}).
		Select("videos.*, FALSE AS liked").
		Preload("User")

	if cursorID != nil {
		// Resolve the cursor row to key the page on (created_at, id). A
		// since-deleted cursor is treated as end of feed, not an error.
		var anchor models.Video
		err := r.db.WithContext(ctx).
			Select("id", "created_at").
			First(&anchor, *cursorID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []*models.Video{}, nil
		}
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		q = q.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			anchor.CreatedAt, anchor.CreatedAt, anchor.ID,
		)
	}

	var videos []*models.Video
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&videos).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return videos, nil
}
