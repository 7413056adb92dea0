package main

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sahilmalhotra/vidtube/internal/middleware"
	"github.com/sahilmalhotra/vidtube/pkg/models"
)

// createTweet posts a short community update on the caller's channel.
func (api *API) createTweet(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		failBadRequest(c, "content is required")
		return
	}

	tweet := &models.Tweet{
		ID:      uuid.New().String(),
		OwnerID: user.ID,
		Content: strings.TrimSpace(req.Content),
	}

	if err := api.repo.CreateTweet(c.Request.Context(), tweet); err != nil {
		failInternal(c, "failed to create tweet")
		return
	}

	respondCreated(c, tweet, "tweet created successfully")
}

// userTweets returns a channel's tweets, newest first.
func (api *API) userTweets(c *gin.Context) {
	userID := c.Param("userId")

	tweets, err := api.repo.ListUserTweets(c.Request.Context(), userID)
	if err != nil {
		failInternal(c, "failed to fetch tweets")
		return
	}

	respondOK(c, tweets, "tweets fetched successfully")
}

// updateTweet edits a tweet. Only the author may edit.
func (api *API) updateTweet(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	tweetID := c.Param("tweetId")

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		failBadRequest(c, "content is required")
		return
	}

	tweet, err := api.repo.UpdateTweet(c.Request.Context(), tweetID, user.ID,
		strings.TrimSpace(req.Content))
	if err != nil {
		failStoreError(c, err, "tweet not found")
		return
	}

	respondOK(c, tweet, "tweet updated successfully")
}

// deleteTweet removes a tweet. Only the author may delete.
func (api *API) deleteTweet(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	tweetID := c.Param("tweetId")

	if err := api.repo.DeleteTweet(c.Request.Context(), tweetID, user.ID); err != nil {
		failStoreError(c, err, "tweet not found")
		return
	}

	respondOK(c, gin.H{"tweetId": tweetID}, "tweet deleted successfully")
}
