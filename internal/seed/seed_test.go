package seed

import (
	"testing"

	"clipstream/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Video{}, &models.Like{}))
	return db
}

func TestSeederRun(t *testing.T) {
	t.Parallel()

	db := setupSeedTestDB(t)
	s := NewSeeder(db, Options{NumUsers: 5, NumVideos: 12, ShouldClean: true})
	require.NoError(t, s.Run())

	var userCount, videoCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Video{}).Count(&videoCount).Error)
	assert.EqualValues(t, 5, userCount)
	assert.EqualValues(t, 12, videoCount)

	// Every video's denormalized counter must match its like rows.
	var videos []models.Video
	require.NoError(t, db.Find(&videos).Error)
	for _, v := range videos {
		var likeRows int64
		require.NoError(t, db.Model(&models.Like{}).Where("video_id = ?", v.ID).Count(&likeRows).Error)
		assert.EqualValues(t, v.LikeCount, likeRows, "video %d counter drifted from its rows", v.ID)
	}

	// No user likes the same video twice.
	var dupes int64
	require.NoError(t, db.Raw(
		"SELECT COUNT(*) FROM (SELECT user_id, video_id FROM likes GROUP BY user_id, video_id HAVING COUNT(*) > 1)",
	).Scan(&dupes).Error)
	assert.Zero(t, dupes)
}

func TestSeederCleanRemovesOldRows(t *testing.T) {
	t.Parallel()

	db := setupSeedTestDB(t)

	first := NewSeeder(db, Options{NumUsers: 3, NumVideos: 6, ShouldClean: false})
	require.NoError(t, first.Run())

	second := NewSeeder(db, Options{NumUsers: 2, NumVideos: 4, ShouldClean: true})
	require.NoError(t, second.Run())

	var userCount, videoCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Video{}).Count(&videoCount).Error)
	assert.EqualValues(t, 2, userCount)
	assert.EqualValues(t, 4, videoCount)
}
