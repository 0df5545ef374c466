package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix    = "user:%d"
	VideoKeyPrefix   = "video:%d"
	FeedFirstPageKey = "feed:first"
	UserLikesPrefix  = "user:%d:likes"
)

const (
	UserTTL      = 5 * time.Minute
	VideoTTL     = 10 * time.Minute
	FeedPageTTL  = 30 * time.Second
	UserLikesTTL = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func VideoKey(videoID uint) string {
	return fmt.Sprintf(VideoKeyPrefix, videoID)
}

func UserLikesKey(userID uint) string {
	return fmt.Sprintf(UserLikesPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateUserLikes(ctx context.Context, userID uint) {
	Invalidate(ctx, UserLikesKey(userID))
}

// InvalidateVideo drops both the video row and the anonymous feed first page,
// since the page embeds like counts.
func InvalidateVideo(ctx context.Context, videoID uint) {
	Invalidate(ctx, VideoKey(videoID))
	Invalidate(ctx, FeedFirstPageKey)
}

func InvalidateFeed(ctx context.Context) {
	Invalidate(ctx, FeedFirstPageKey)
}
