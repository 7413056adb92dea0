package main

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sahilmalhotra/vidtube/internal/database"
	"github.com/sahilmalhotra/vidtube/internal/metrics"
	"github.com/sahilmalhotra/vidtube/internal/middleware"
	"github.com/sahilmalhotra/vidtube/pkg/models"
)

// listComments returns a video's comments, newest first.
func (api *API) listComments(c *gin.Context) {
	videoID := c.Param("videoId")
	limit, offset := parsePagination(c)

	comments, err := api.repo.ListVideoComments(c.Request.Context(), videoID, limit, offset)
	if err != nil {
		failInternal(c, "failed to fetch comments")
		return
	}

	respondOK(c, gin.H{
		"comments": comments,
		"limit":    limit,
		"offset":   offset,
	}, "comments fetched successfully")
}

// addComment posts a comment on a video.
func (api *API) addComment(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	videoID := c.Param("videoId")

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		failBadRequest(c, "content is required")
		return
	}

	// The video must exist and be visible before accepting the comment.
	video, err := api.repo.GetVideo(c.Request.Context(), videoID)
	if err != nil || (!video.IsPublished && video.OwnerID != user.ID) {
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			failInternal(c, "failed to add comment")
			return
		}
		failNotFound(c, "video not found")
		return
	}

	comment := &models.Comment{
		ID:      uuid.New().String(),
		VideoID: videoID,
		OwnerID: user.ID,
		Content: strings.TrimSpace(req.Content),
	}

	if err := api.repo.CreateComment(c.Request.Context(), comment); err != nil {
		failInternal(c, "failed to add comment")
		return
	}

	metrics.CommentsCreatedTotal.Inc()
	respondCreated(c, comment, "comment added successfully")
}

// updateComment edits a comment's content. Only the author may edit.
func (api *API) updateComment(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	commentID := c.Param("commentId")

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		failBadRequest(c, "content is required")
		return
	}

	comment, err := api.repo.UpdateComment(c.Request.Context(), commentID, user.ID,
		strings.TrimSpace(req.Content))
	if err != nil {
		failStoreError(c, err, "comment not found")
		return
	}

	respondOK(c, comment, "comment updated successfully")
}

// deleteComment removes a comment. Only the author may delete.
func (api *API) deleteComment(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	commentID := c.Param("commentId")

	if err := api.repo.DeleteComment(c.Request.Context(), commentID, user.ID); err != nil {
		failStoreError(c, err, "comment not found")
		return
	}

	respondOK(c, gin.H{"commentId": commentID}, "comment deleted successfully")
}
