package main

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/sahilmalhotra/vidtube/internal/database"
	"github.com/sahilmalhotra/vidtube/internal/metrics"
	"github.com/sahilmalhotra/vidtube/internal/middleware"
	"github.com/sahilmalhotra/vidtube/pkg/models"
)

// toggleLike flips the caller's like on the given target and reports the
// resulting state.
func (api *API) toggleLike(c *gin.Context, target models.LikeTarget, targetID string) {
	user, _ := middleware.CurrentUser(c)

	liked, err := api.repo.ToggleLike(c.Request.Context(), user.ID, target, targetID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			failNotFound(c, string(target)+" not found")
			return
		}
		failInternal(c, "failed to toggle like")
		return
	}

	metrics.RecordLikeToggle(string(target), liked)

	message := "unliked successfully"
	if liked {
		message = "liked successfully"
	}
	respondOK(c, gin.H{"liked": liked}, message)
}

func (api *API) toggleVideoLike(c *gin.Context) {
	api.toggleLike(c, models.LikeTargetVideo, c.Param("videoId"))
}

func (api *API) toggleCommentLike(c *gin.Context) {
	api.toggleLike(c, models.LikeTargetComment, c.Param("commentId"))
}

func (api *API) toggleTweetLike(c *gin.Context) {
	api.toggleLike(c, models.LikeTargetTweet, c.Param("tweetId"))
}

// likedVideos returns the videos the caller has liked.
func (api *API) likedVideos(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	videos, err := api.repo.ListLikedVideos(c.Request.Context(), user.ID)
	if err != nil {
		failInternal(c, "failed to fetch liked videos")
		return
	}

	respondOK(c, videos, "liked videos fetched successfully")
}

// videoLikes returns who liked a video and the total.
func (api *API) videoLikes(c *gin.Context) {
	videoID := c.Param("videoId")

	likes, err := api.repo.GetVideoLikes(c.Request.Context(), videoID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			failNotFound(c, "video not found")
			return
		}
		failInternal(c, "failed to fetch likes")
		return
	}

	respondOK(c, likes, "video likes fetched successfully")
}
