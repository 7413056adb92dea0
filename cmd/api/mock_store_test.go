package main

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sahilmalhotra/vidtube/internal/queue"
	"github.com/sahilmalhotra/vidtube/pkg/models"
)

// MockStore is a mock implementation of Store for handler tests.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Health(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockStore) CreateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) GetUserCredentials(ctx context.Context, usernameOrEmail string) (*models.User, error) {
	args := m.Called(ctx, usernameOrEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) GetPasswordHash(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockStore) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return m.Called(ctx, userID, passwordHash).Error(0)
}

func (m *MockStore) SetRefreshToken(ctx context.Context, userID, token string) error {
	return m.Called(ctx, userID, token).Error(0)
}

func (m *MockStore) RotateRefreshToken(ctx context.Context, userID, oldToken, newToken string) error {
	return m.Called(ctx, userID, oldToken, newToken).Error(0)
}

func (m *MockStore) ClearRefreshToken(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockStore) UpdateAccountDetails(ctx context.Context, userID, fullName, email string) (*models.User, error) {
	args := m.Called(ctx, userID, fullName, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) UpdateAvatar(ctx context.Context, userID, url, key string) error {
	return m.Called(ctx, userID, url, key).Error(0)
}

func (m *MockStore) UpdateCoverImage(ctx context.Context, userID, url, key string) error {
	return m.Called(ctx, userID, url, key).Error(0)
}

func (m *MockStore) GetChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error) {
	args := m.Called(ctx, username, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChannelProfile), args.Error(1)
}

func (m *MockStore) AddToWatchHistory(ctx context.Context, userID, videoID string) error {
	return m.Called(ctx, userID, videoID).Error(0)
}

func (m *MockStore) GetWatchHistory(ctx context.Context, userID string) ([]*models.WatchHistoryEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WatchHistoryEntry), args.Error(1)
}

func (m *MockStore) CreateVideo(ctx context.Context, video *models.Video) error {
	return m.Called(ctx, video).Error(0)
}

func (m *MockStore) GetVideo(ctx context.Context, id string) (*models.Video, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Video), args.Error(1)
}

func (m *MockStore) ListVideos(ctx context.Context, params models.VideoListParams) ([]*models.Video, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Video), args.Error(1)
}

func (m *MockStore) UpdateVideoDetails(ctx context.Context, videoID, ownerID, title, description, thumbnailURL, thumbnailKey string) (*models.Video, error) {
	args := m.Called(ctx, videoID, ownerID, title, description, thumbnailURL, thumbnailKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Video), args.Error(1)
}

func (m *MockStore) DeleteVideo(ctx context.Context, videoID, ownerID string) error {
	return m.Called(ctx, videoID, ownerID).Error(0)
}

func (m *MockStore) TogglePublishStatus(ctx context.Context, videoID, ownerID string) (bool, error) {
	args := m.Called(ctx, videoID, ownerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) IncrementViews(ctx context.Context, videoID string) error {
	return m.Called(ctx, videoID).Error(0)
}

func (m *MockStore) AddViews(ctx context.Context, videoID string, count int64) error {
	return m.Called(ctx, videoID, count).Error(0)
}

func (m *MockStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *MockStore) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockStore) ListVideoComments(ctx context.Context, videoID string, limit, offset int) ([]*models.Comment, error) {
	args := m.Called(ctx, videoID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockStore) UpdateComment(ctx context.Context, commentID, ownerID, content string) (*models.Comment, error) {
	args := m.Called(ctx, commentID, ownerID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockStore) DeleteComment(ctx context.Context, commentID, ownerID string) error {
	return m.Called(ctx, commentID, ownerID).Error(0)
}

func (m *MockStore) ToggleLike(ctx context.Context, userID string, target models.LikeTarget, targetID string) (bool, error) {
	args := m.Called(ctx, userID, target, targetID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) ListLikedVideos(ctx context.Context, userID string) ([]*models.Video, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Video), args.Error(1)
}

func (m *MockStore) GetVideoLikes(ctx context.Context, videoID string) (*models.VideoLikes, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VideoLikes), args.Error(1)
}

func (m *MockStore) CreateTweet(ctx context.Context, tweet *models.Tweet) error {
	return m.Called(ctx, tweet).Error(0)
}

func (m *MockStore) ListUserTweets(ctx context.Context, userID string) ([]*models.Tweet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tweet), args.Error(1)
}

func (m *MockStore) UpdateTweet(ctx context.Context, tweetID, ownerID, content string) (*models.Tweet, error) {
	args := m.Called(ctx, tweetID, ownerID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tweet), args.Error(1)
}

func (m *MockStore) DeleteTweet(ctx context.Context, tweetID, ownerID string) error {
	return m.Called(ctx, tweetID, ownerID).Error(0)
}

func (m *MockStore) CreatePlaylist(ctx context.Context, playlist *models.Playlist) error {
	return m.Called(ctx, playlist).Error(0)
}

func (m *MockStore) GetPlaylist(ctx context.Context, id string) (*models.Playlist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Playlist), args.Error(1)
}

func (m *MockStore) ListUserPlaylists(ctx context.Context, userID string) ([]*models.Playlist, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Playlist), args.Error(1)
}

func (m *MockStore) UpdatePlaylist(ctx context.Context, playlistID, ownerID, name, description string) (*models.Playlist, error) {
	args := m.Called(ctx, playlistID, ownerID, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Playlist), args.Error(1)
}

func (m *MockStore) DeletePlaylist(ctx context.Context, playlistID, ownerID string) error {
	return m.Called(ctx, playlistID, ownerID).Error(0)
}

func (m *MockStore) AddVideoToPlaylist(ctx context.Context, playlistID, ownerID, videoID string) error {
	return m.Called(ctx, playlistID, ownerID, videoID).Error(0)
}

func (m *MockStore) RemoveVideoFromPlaylist(ctx context.Context, playlistID, ownerID, videoID string) error {
	return m.Called(ctx, playlistID, ownerID, videoID).Error(0)
}

func (m *MockStore) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error) {
	args := m.Called(ctx, subscriberID, channelID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) ListChannelSubscribers(ctx context.Context, channelID string) ([]*models.OwnerSummary, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OwnerSummary), args.Error(1)
}

func (m *MockStore) ListSubscribedChannels(ctx context.Context, subscriberID string) ([]*models.SubscribedChannel, error) {
	args := m.Called(ctx, subscriberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SubscribedChannel), args.Error(1)
}

func (m *MockStore) GetChannelStats(ctx context.Context, channelID string) (*models.ChannelStats, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChannelStats), args.Error(1)
}

func (m *MockStore) GetChannelVideos(ctx context.Context, channelID string) ([]*models.Video, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Video), args.Error(1)
}

// MockMediaStore is a mock implementation of MediaStore.
type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Upload(ctx context.Context, prefix, filename string, reader io.Reader, size int64) (string, error) {
	args := m.Called(ctx, prefix, filename, reader, size)
	return args.String(0), args.Error(1)
}

func (m *MockMediaStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockMediaStore) PublicURL(key string) string {
	return m.Called(key).String(0)
}

// MockPublisher is a mock implementation of EventPublisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event *queue.Event) error {
	return m.Called(ctx, event).Error(0)
}

// MockVideoCache is a mock implementation of VideoCache.
type MockVideoCache struct {
	mock.Mock
}

func (m *MockVideoCache) GetVideo(ctx context.Context, videoID string) (*models.Video, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Video), args.Error(1)
}

func (m *MockVideoCache) SetVideo(ctx context.Context, video *models.Video, ttl time.Duration) error {
	return m.Called(ctx, video, ttl).Error(0)
}

func (m *MockVideoCache) DeleteVideo(ctx context.Context, videoID string) error {
	return m.Called(ctx, videoID).Error(0)
}

func (m *MockVideoCache) IncrementViews(ctx context.Context, videoID string) (int64, error) {
	args := m.Called(ctx, videoID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVideoCache) GetChannelStats(ctx context.Context, channelID string) (*models.ChannelStats, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChannelStats), args.Error(1)
}

func (m *MockVideoCache) SetChannelStats(ctx context.Context, channelID string, stats *models.ChannelStats, ttl time.Duration) error {
	return m.Called(ctx, channelID, stats, ttl).Error(0)
}

func (m *MockVideoCache) DeleteChannelStats(ctx context.Context, channelID string) error {
	return m.Called(ctx, channelID).Error(0)
}
