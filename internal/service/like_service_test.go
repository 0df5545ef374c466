package service

import (
	"context"
	"testing"

	"clipstream/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeService_RequiresAuth(t *testing.T) {
	svc := NewLikeService(&stubLikeRepo{})

	err := svc.Like(context.Background(), 0, 1)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))

	err = svc.Unlike(context.Background(), 0, 1)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))

	_, err = svc.LikedVideoIDs(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))
}

func TestLikeService_PassesThroughLedgerOutcomes(t *testing.T) {
	conflictErr := models.NewConflictError("Video already liked")
	notFoundErr := models.NewNotFoundError("Like", 5)

	repo := &stubLikeRepo{
		likeFn: func(_ context.Context, userID, videoID uint) error {
			assert.Equal(t, uint(1), userID)
			assert.Equal(t, uint(5), videoID)
			return conflictErr
		},
		unlikeFn: func(_ context.Context, _, _ uint) error {
			return notFoundErr
		},
	}
	svc := NewLikeService(repo)

	err := svc.Like(context.Background(), 1, 5)
	assert.Same(t, conflictErr, err)

	err = svc.Unlike(context.Background(), 1, 5)
	assert.Same(t, notFoundErr, err)
}

func TestLikeService_LikedVideoIDs(t *testing.T) {
	repo := &stubLikeRepo{
		likedIDsFn: func(_ context.Context, userID uint) ([]uint, error) {
			assert.Equal(t, uint(3), userID)
			return []uint{10, 20}, nil
		},
	}
	svc := NewLikeService(repo)

	ids, err := svc.LikedVideoIDs(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []uint{10, 20}, ids)
}
