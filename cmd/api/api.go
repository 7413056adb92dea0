package main

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sahilmalhotra/vidtube/internal/auth"
	"github.com/sahilmalhotra/vidtube/internal/config"
	"github.com/sahilmalhotra/vidtube/internal/logging"
	"github.com/sahilmalhotra/vidtube/internal/middleware"
	"github.com/sahilmalhotra/vidtube/internal/queue"
	"github.com/sahilmalhotra/vidtube/pkg/models"
)

// Store is the persistence surface the handlers depend on. The production
// implementation is database.Repository.
type Store interface {
	Health(ctx context.Context) error

	// Users and credentials
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserCredentials(ctx context.Context, usernameOrEmail string) (*models.User, error)
	GetPasswordHash(ctx context.Context, userID string) (string, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	SetRefreshToken(ctx context.Context, userID, token string) error
	RotateRefreshToken(ctx context.Context, userID, oldToken, newToken string) error
	ClearRefreshToken(ctx context.Context, userID string) error
	UpdateAccountDetails(ctx context.Context, userID, fullName, email string) (*models.User, error)
	UpdateAvatar(ctx context.Context, userID, url, key string) error
	UpdateCoverImage(ctx context.Context, userID, url, key string) error
	GetChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error)
	AddToWatchHistory(ctx context.Context, userID, videoID string) error
	GetWatchHistory(ctx context.Context, userID string) ([]*models.WatchHistoryEntry, error)

	// Videos
	CreateVideo(ctx context.Context, video *models.Video) error
	GetVideo(ctx context.Context, id string) (*models.Video, error)
	ListVideos(ctx context.Context, params models.VideoListParams) ([]*models.Video, error)
	UpdateVideoDetails(ctx context.Context, videoID, ownerID, title, description, thumbnailURL, thumbnailKey string) (*models.Video, error)
	DeleteVideo(ctx context.Context, videoID, ownerID string) error
	TogglePublishStatus(ctx context.Context, videoID, ownerID string) (bool, error)
	IncrementViews(ctx context.Context, videoID string) error
	AddViews(ctx context.Context, videoID string, count int64) error

	// Comments
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	ListVideoComments(ctx context.Context, videoID string, limit, offset int) ([]*models.Comment, error)
	UpdateComment(ctx context.Context, commentID, ownerID, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID, ownerID string) error

	// Likes
	ToggleLike(ctx context.Context, userID string, target models.LikeTarget, targetID string) (bool, error)
	ListLikedVideos(ctx context.Context, userID string) ([]*models.Video, error)
	GetVideoLikes(ctx context.Context, videoID string) (*models.VideoLikes, error)

	// Tweets
	CreateTweet(ctx context.Context, tweet *models.Tweet) error
	ListUserTweets(ctx context.Context, userID string) ([]*models.Tweet, error)
	UpdateTweet(ctx context.Context, tweetID, ownerID, content string) (*models.Tweet, error)
	DeleteTweet(ctx context.Context, tweetID, ownerID string) error

	// Playlists
	CreatePlaylist(ctx context.Context, playlist *models.Playlist) error
	GetPlaylist(ctx context.Context, id string) (*models.Playlist, error)
	ListUserPlaylists(ctx context.Context, userID string) ([]*models.Playlist, error)
	UpdatePlaylist(ctx context.Context, playlistID, ownerID, name, description string) (*models.Playlist, error)
	DeletePlaylist(ctx context.Context, playlistID, ownerID string) error
	AddVideoToPlaylist(ctx context.Context, playlistID, ownerID, videoID string) error
	RemoveVideoFromPlaylist(ctx context.Context, playlistID, ownerID, videoID string) error

	// Subscriptions
	ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error)
	ListChannelSubscribers(ctx context.Context, channelID string) ([]*models.OwnerSummary, error)
	ListSubscribedChannels(ctx context.Context, subscriberID string) ([]*models.SubscribedChannel, error)

	// Dashboard
	GetChannelStats(ctx context.Context, channelID string) (*models.ChannelStats, error)
	GetChannelVideos(ctx context.Context, channelID string) ([]*models.Video, error)
}

// MediaStore is the object storage surface for user media.
type MediaStore interface {
	Upload(ctx context.Context, prefix, filename string, reader io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// EventPublisher emits lifecycle events for downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event *queue.Event) error
}

// VideoCache caches hot video metadata. Nil-safe: the API runs without a
// cache when Redis is unavailable.
type VideoCache interface {
	GetVideo(ctx context.Context, videoID string) (*models.Video, error)
	SetVideo(ctx context.Context, video *models.Video, ttl time.Duration) error
	DeleteVideo(ctx context.Context, videoID string) error
	IncrementViews(ctx context.Context, videoID string) (int64, error)
	GetChannelStats(ctx context.Context, channelID string) (*models.ChannelStats, error)
	SetChannelStats(ctx context.Context, channelID string, stats *models.ChannelStats, ttl time.Duration) error
	DeleteChannelStats(ctx context.Context, channelID string) error
}

type API struct {
	repo    Store
	storage MediaStore
	queue   EventPublisher
	cache   VideoCache
	tokens  *auth.TokenManager
	authCfg config.AuthConfig
	log     *logging.Logger
}

func setupRouter(api *API, rl *middleware.RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(api.log))

	authRequired := middleware.RequireAuth(api.tokens, api.repo)
	authOptional := middleware.OptionalAuth(api.tokens, api.repo)

	router.GET("/health", api.healthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimit(rl))
	{
		v1.GET("/healthcheck", api.healthCheck)

		users := v1.Group("/users")
		{
			users.POST("/register", api.registerUser)
			users.POST("/login", api.loginUser)
			users.POST("/refresh-token", api.refreshAccessToken)

			users.POST("/logout", authRequired, api.logoutUser)
			users.POST("/change-password", authRequired, api.changePassword)
			users.GET("/current-user", authRequired, api.currentUser)
			users.PATCH("/update-account", authRequired, api.updateAccount)
			users.PATCH("/avatar", authRequired, api.updateAvatar)
			users.PATCH("/cover-image", authRequired, api.updateCoverImage)
			users.GET("/history", authRequired, api.watchHistory)
			users.POST("/watch-history/:videoId", authRequired, api.addWatchHistory)
			users.GET("/c/:username", authOptional, api.channelProfile)
		}

		videos := v1.Group("/videos")
		{
			videos.GET("", api.listVideos)
			videos.POST("", authRequired, api.publishVideo)
			videos.GET("/:videoId", authOptional, api.getVideo)
			videos.PATCH("/:videoId", authRequired, api.updateVideo)
			videos.DELETE("/:videoId", authRequired, api.deleteVideo)
			videos.PATCH("/:videoId/toggle-publish", authRequired, api.togglePublish)
			videos.GET("/:videoId/comments", api.listComments)
			videos.POST("/:videoId/comments", authRequired, api.addComment)
		}

		comments := v1.Group("/comments", authRequired)
		{
			comments.PATCH("/:commentId", api.updateComment)
			comments.DELETE("/:commentId", api.deleteComment)
		}

		likes := v1.Group("/likes")
		{
			likes.POST("/toggle/v/:videoId", authRequired, api.toggleVideoLike)
			likes.POST("/toggle/c/:commentId", authRequired, api.toggleCommentLike)
			likes.POST("/toggle/t/:tweetId", authRequired, api.toggleTweetLike)
			likes.GET("/videos", authRequired, api.likedVideos)
			likes.GET("/video/:videoId", api.videoLikes)
		}

		playlists := v1.Group("/playlists")
		{
			playlists.POST("", authRequired, api.createPlaylist)
			playlists.GET("/user/:userId", api.userPlaylists)
			playlists.GET("/p/:playlistId", api.getPlaylist)
			playlists.PATCH("/p/:playlistId", authRequired, api.updatePlaylist)
			playlists.DELETE("/p/:playlistId", authRequired, api.deletePlaylist)
			playlists.PATCH("/p/:playlistId/add/:videoId", authRequired, api.addPlaylistVideo)
			playlists.PATCH("/p/:playlistId/remove/:videoId", authRequired, api.removePlaylistVideo)
		}

		subscriptions := v1.Group("/subscriptions")
		{
			subscriptions.POST("/c/:channelId", authRequired, api.toggleSubscription)
			subscriptions.GET("/c/:channelId", api.channelSubscribers)
			subscriptions.GET("/u/:subscriberId", api.subscribedChannels)
		}

		tweets := v1.Group("/tweets")
		{
			tweets.POST("", authRequired, api.createTweet)
			tweets.GET("/user/:userId", api.userTweets)
			tweets.PATCH("/t/:tweetId", authRequired, api.updateTweet)
			tweets.DELETE("/t/:tweetId", authRequired, api.deleteTweet)
		}

		dashboard := v1.Group("/dashboard", authRequired)
		{
			dashboard.GET("/stats", api.channelStats)
			dashboard.GET("/videos", api.channelVideos)
		}
	}

	return router
}

// healthCheck reports service liveness and database reachability.
func (api *API) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := api.repo.Health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, models.NewAPIResponse(
			http.StatusServiceUnavailable,
			gin.H{"status": "unhealthy"},
			"service unhealthy",
		))
		return
	}

	respondOK(c, gin.H{"status": "healthy"}, "service is healthy")
}
