package main

import (
	"context"
	"time"

	"github.com/sahilmalhotra/vidtube/internal/cache"
	"github.com/sahilmalhotra/vidtube/internal/logging"
	"github.com/sahilmalhotra/vidtube/internal/metrics"
)

const viewFlushInterval = 30 * time.Second

// flushPendingViews drains the buffered per-video view counters from the
// cache and applies them to the database in one update per video.
func flushPendingViews(ctx context.Context, c *cache.Cache, repo Store, log *logging.Logger) {
	counts, err := c.DrainViews(ctx)
	if err != nil {
		log.ErrorWithErr("failed to drain view counters", err)
		metrics.RecordError("cache", "drain_views")
	}

	for videoID, count := range counts {
		if err := repo.AddViews(ctx, videoID, count); err != nil {
			log.WithVideoID(videoID).ErrorWithErr("failed to flush views", err)
			metrics.RecordError("database", "flush_views")
		}
	}
}

// startViewFlusher flushes on a fixed interval until the context is
// cancelled. The caller runs one final flush on shutdown.
func startViewFlusher(ctx context.Context, c *cache.Cache, repo Store, log *logging.Logger) {
	ticker := time.NewTicker(viewFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			flushPendingViews(ctx, c, repo, log)
		}
	}
}
