package service

import (
	"context"

	"clipstream/internal/cache"
	"clipstream/internal/middleware"
	"clipstream/internal/models"
	"clipstream/internal/repository"
)

const (
	// DefaultFeedLimit is used when the caller does not specify a page size.
	DefaultFeedLimit = 10
	// MaxFeedLimit caps a requested page size.
	MaxFeedLimit = 20
)

// FeedInput is one page request. Cursor is the id of the last video of the
// previous page; ViewerID is zero for anonymous callers.
type FeedInput struct {
	Cursor   *uint
	Limit    int
	ViewerID uint
}

// FeedPage is an ordered slice of videos plus the resume cursor. NextCursor
// is nil when the feed is exhausted.
type FeedPage struct {
	Videos     []*models.Video `json:"videos"`
	NextCursor *uint           `json:"next_cursor"`
}

// FeedService produces reverse-chronological, cursor-paginated video
// listings with per-viewer like enrichment.
type FeedService struct {
	videoRepo repository.VideoRepository
	likeRepo  repository.LikeRepository
}

// NewFeedService creates a new feed service.
func NewFeedService(videoRepo repository.VideoRepository, likeRepo repository.LikeRepository) *FeedService {
	return &FeedService{videoRepo: videoRepo, likeRepo: likeRepo}
}

// GetFeed returns one feed page. Ordering is created_at DESC with id DESC as
// the deterministic tie-break, so a cursor always names a unique resume
// position even when timestamps collide.
func (s *FeedService) GetFeed(ctx context.Context, in FeedInput) (*FeedPage, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}

	var videos []*models.Video
	var err error

	if in.Cursor == nil && in.ViewerID == 0 && limit == DefaultFeedLimit {
		// Anonymous first page at the default size is served cache-aside.
		// The key does not encode the limit, so other limits bypass it.
		err = cache.Aside(ctx, cache.FeedFirstPageKey, &videos, cache.FeedPageTTL, func() error {
			var fetchErr error
			// Over-fetch by one to learn whether another page exists.
			videos, fetchErr = s.videoRepo.FeedPage(ctx, nil, limit+1)
			return fetchErr
		})
	} else {
		videos, err = s.videoRepo.FeedPage(ctx, in.Cursor, limit+1)
	}
	if err != nil {
		return nil, err
	}

	page := &FeedPage{Videos: videos}
	if len(videos) > limit {
		page.Videos = videos[:limit]
		// Resume strictly after the last returned row.
		next := page.Videos[limit-1].ID
		page.NextCursor = &next
	}

	if in.ViewerID != 0 && len(page.Videos) > 0 {
		if err := s.enrichLiked(ctx, page.Videos, in.ViewerID); err != nil {
			return nil, err
		}
		middleware.FeedPagesServed.WithLabelValues("authenticated").Inc()
	} else {
		middleware.FeedPagesServed.WithLabelValues("anonymous").Inc()
	}

	return page, nil
}

// enrichLiked resolves the viewer's like state for a page in one bulk query.
// It never reorders or drops rows.
func (s *FeedService) enrichLiked(ctx context.Context, videos []*models.Video, viewerID uint) error {
	ids := make([]uint, len(videos))
	for i, v := range videos {
		ids[i] = v.ID
	}

	likedIDs, err := s.likeRepo.GetLikedVideoIDsIn(ctx, viewerID, ids)
	if err != nil {
		return err
	}

	liked := make(map[uint]bool, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = true
	}
	for _, v := range videos {
		v.Liked = liked[v.ID]
	}
	return nil
}
