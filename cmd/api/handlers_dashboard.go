package main

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sahilmalhotra/vidtube/internal/metrics"
	"github.com/sahilmalhotra/vidtube/internal/middleware"
)

const channelStatsCacheTTL = 1 * time.Minute

// channelStats returns the caller's dashboard aggregates. Results are
// cached briefly; writes that change them invalidate the entry.
func (api *API) channelStats(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	if api.cache != nil {
		cached, err := api.cache.GetChannelStats(c.Request.Context(), user.ID)
		if err != nil {
			api.log.ErrorWithErr("channel stats cache read failed", err)
		}
		if cached != nil {
			metrics.RecordCacheAccess("channel_stats", true)
			respondOK(c, cached, "channel stats fetched successfully")
			return
		}
		metrics.RecordCacheAccess("channel_stats", false)
	}

	stats, err := api.repo.GetChannelStats(c.Request.Context(), user.ID)
	if err != nil {
		failInternal(c, "failed to fetch channel stats")
		return
	}

	if api.cache != nil {
		if err := api.cache.SetChannelStats(c.Request.Context(), user.ID, stats, channelStatsCacheTTL); err != nil {
			api.log.ErrorWithErr("channel stats cache write failed", err)
		}
	}

	respondOK(c, stats, "channel stats fetched successfully")
}

// channelVideos returns every video the caller has uploaded, including
// unpublished ones.
func (api *API) channelVideos(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	videos, err := api.repo.GetChannelVideos(c.Request.Context(), user.ID)
	if err != nil {
		failInternal(c, "failed to fetch channel videos")
		return
	}

	respondOK(c, videos, "channel videos fetched successfully")
}
