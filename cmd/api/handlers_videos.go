package main

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sahilmalhotra/vidtube/internal/database"
	"github.com/sahilmalhotra/vidtube/internal/metrics"
	"github.com/sahilmalhotra/vidtube/internal/middleware"
	"github.com/sahilmalhotra/vidtube/internal/queue"
	"github.com/sahilmalhotra/vidtube/internal/tracing"
	"github.com/sahilmalhotra/vidtube/pkg/models"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	videoCacheTTL   = 5 * time.Minute
)

func parsePagination(c *gin.Context) (limit, offset int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return limit, (page - 1) * limit
}

// listVideos returns published videos with optional search, sort and owner
// filtering.
func (api *API) listVideos(c *gin.Context) {
	limit, offset := parsePagination(c)

	params := models.VideoListParams{
		Query:     strings.TrimSpace(c.Query("query")),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortType"),
		OwnerID:   c.Query("userId"),
		Limit:     limit,
		Offset:    offset,
	}

	videos, err := api.repo.ListVideos(c.Request.Context(), params)
	if err != nil {
		api.log.ErrorWithErr("failed to list videos", err)
		failInternal(c, "failed to fetch videos")
		return
	}

	respondOK(c, gin.H{
		"videos": videos,
		"limit":  limit,
		"offset": offset,
	}, "videos fetched successfully")
}

// publishVideo uploads a video and its thumbnail and creates the record.
func (api *API) publishVideo(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	span, ctx := tracing.StartSpan(c.Request.Context(), "video.publish")
	defer tracing.FinishSpan(span)
	c.Request = c.Request.WithContext(ctx)
	tracing.SetTag(span, "user.id", user.ID)

	title := strings.TrimSpace(c.PostForm("title"))
	description := c.PostForm("description")
	if title == "" {
		failBadRequest(c, "title is required")
		return
	}

	videoHeader, err := c.FormFile("videoFile")
	if err != nil {
		failBadRequest(c, "videoFile is required")
		return
	}

	videoURL, videoKey, ok := api.uploadFormFile(c, "videoFile", "videos", true)
	if !ok {
		return
	}
	thumbURL, thumbKey, ok := api.uploadFormFile(c, "thumbnail", "thumbnails", true)
	if !ok {
		return
	}

	duration, _ := strconv.ParseFloat(c.PostForm("duration"), 64)

	video := &models.Video{
		ID:           uuid.New().String(),
		OwnerID:      user.ID,
		Title:        title,
		Description:  description,
		VideoURL:     videoURL,
		VideoKey:     videoKey,
		ThumbnailURL: thumbURL,
		ThumbnailKey: thumbKey,
		Duration:     duration,
		Size:         videoHeader.Size,
		IsPublished:  true,
	}

	if err := api.repo.CreateVideo(c.Request.Context(), video); err != nil {
		api.log.WithVideoID(video.ID).ErrorWithErr("failed to create video", err)
		tracing.LogError(span, err)
		failInternal(c, "failed to publish video")
		return
	}

	metrics.RecordVideoUpload(videoHeader.Size)

	if api.queue != nil {
		if err := api.queue.Publish(c.Request.Context(), &queue.Event{
			Kind:    queue.EventVideoUploaded,
			UserID:  user.ID,
			VideoID: video.ID,
		}); err != nil {
			api.log.ErrorWithErr("failed to publish upload event", err)
		}
	}
	if api.cache != nil {
		if err := api.cache.DeleteChannelStats(c.Request.Context(), user.ID); err != nil {
			api.log.ErrorWithErr("failed to invalidate channel stats", err)
		}
	}

	respondCreated(c, video, "video published successfully")
}

// getVideo returns one video. Authenticated viewers also get a view count
// bump and a watch history entry. Unpublished videos are visible to their
// owner only.
func (api *API) getVideo(c *gin.Context) {
	videoID := c.Param("videoId")

	viewer, authenticated := middleware.CurrentUser(c)

	var video *models.Video
	if api.cache != nil {
		cached, err := api.cache.GetVideo(c.Request.Context(), videoID)
		if err != nil {
			api.log.ErrorWithErr("video cache read failed", err)
		}
		if cached != nil {
			metrics.RecordCacheAccess("video", true)
			video = cached
		} else {
			metrics.RecordCacheAccess("video", false)
		}
	}

	if video == nil {
		var err error
		video, err = api.repo.GetVideo(c.Request.Context(), videoID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				failNotFound(c, "video not found")
				return
			}
			failInternal(c, "failed to fetch video")
			return
		}
		if api.cache != nil && video.IsPublished {
			if err := api.cache.SetVideo(c.Request.Context(), video, videoCacheTTL); err != nil {
				api.log.ErrorWithErr("video cache write failed", err)
			}
		}
	}

	if !video.IsPublished && (!authenticated || viewer.ID != video.OwnerID) {
		failNotFound(c, "video not found")
		return
	}

	if authenticated {
		if api.recordView(c, videoID) {
			metrics.VideoViewsTotal.Inc()
			video.Views++
		}
		if err := api.repo.AddToWatchHistory(c.Request.Context(), viewer.ID, videoID); err != nil {
			api.log.WithVideoID(videoID).ErrorWithErr("failed to record watch history", err)
		}
	}

	respondOK(c, video, "video fetched successfully")
}

// recordView buffers a view in the cache counter, which keeps a playback
// from turning into a database write. Without a cache, or when the buffer
// write fails, the view goes straight to the database.
func (api *API) recordView(c *gin.Context, videoID string) bool {
	if api.cache != nil {
		_, err := api.cache.IncrementViews(c.Request.Context(), videoID)
		if err == nil {
			return true
		}
		api.log.WithVideoID(videoID).ErrorWithErr("failed to buffer view", err)
	}

	if err := api.repo.IncrementViews(c.Request.Context(), videoID); err != nil {
		api.log.WithVideoID(videoID).ErrorWithErr("failed to record view", err)
		return false
	}
	return true
}

// updateVideo changes title, description and optionally the thumbnail.
func (api *API) updateVideo(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	videoID := c.Param("videoId")

	title := strings.TrimSpace(c.PostForm("title"))
	description := c.PostForm("description")
	if title == "" {
		failBadRequest(c, "title is required")
		return
	}

	thumbURL, thumbKey, ok := api.uploadFormFile(c, "thumbnail", "thumbnails", false)
	if !ok {
		return
	}

	video, err := api.repo.UpdateVideoDetails(c.Request.Context(), videoID, user.ID,
		title, description, thumbURL, thumbKey)
	if err != nil {
		failStoreError(c, err, "video not found")
		return
	}

	if api.cache != nil {
		if err := api.cache.DeleteVideo(c.Request.Context(), videoID); err != nil {
			api.log.ErrorWithErr("failed to invalidate video cache", err)
		}
	}

	respondOK(c, video, "video updated successfully")
}

// deleteVideo removes the record, its stored media and cached copies.
func (api *API) deleteVideo(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	videoID := c.Param("videoId")

	video, err := api.repo.GetVideo(c.Request.Context(), videoID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			failNotFound(c, "video not found")
			return
		}
		failInternal(c, "failed to delete video")
		return
	}

	if err := api.repo.DeleteVideo(c.Request.Context(), videoID, user.ID); err != nil {
		failStoreError(c, err, "video not found")
		return
	}

	// Media cleanup is best effort: the record is gone, orphaned objects
	// only cost storage.
	if err := api.storage.Delete(c.Request.Context(), video.VideoKey); err != nil {
		api.log.WithVideoID(videoID).ErrorWithErr("failed to delete video object", err)
	}
	if err := api.storage.Delete(c.Request.Context(), video.ThumbnailKey); err != nil {
		api.log.WithVideoID(videoID).ErrorWithErr("failed to delete thumbnail object", err)
	}

	if api.cache != nil {
		if err := api.cache.DeleteVideo(c.Request.Context(), videoID); err != nil {
			api.log.ErrorWithErr("failed to invalidate video cache", err)
		}
		if err := api.cache.DeleteChannelStats(c.Request.Context(), user.ID); err != nil {
			api.log.ErrorWithErr("failed to invalidate channel stats", err)
		}
	}

	if api.queue != nil {
		if err := api.queue.Publish(c.Request.Context(), &queue.Event{
			Kind:    queue.EventVideoDeleted,
			UserID:  user.ID,
			VideoID: videoID,
		}); err != nil {
			api.log.ErrorWithErr("failed to publish delete event", err)
		}
	}

	respondOK(c, gin.H{"videoId": videoID}, "video deleted successfully")
}

// togglePublish flips a video between published and hidden.
func (api *API) togglePublish(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	videoID := c.Param("videoId")

	published, err := api.repo.TogglePublishStatus(c.Request.Context(), videoID, user.ID)
	if err != nil {
		failStoreError(c, err, "video not found")
		return
	}

	if api.cache != nil {
		if err := api.cache.DeleteVideo(c.Request.Context(), videoID); err != nil {
			api.log.ErrorWithErr("failed to invalidate video cache", err)
		}
	}

	if published && api.queue != nil {
		if err := api.queue.Publish(c.Request.Context(), &queue.Event{
			Kind:    queue.EventVideoPublished,
			UserID:  user.ID,
			VideoID: videoID,
		}); err != nil {
			api.log.ErrorWithErr("failed to publish publish event", err)
		}
	}

	respondOK(c, gin.H{"isPublished": published}, "publish status toggled")
}
