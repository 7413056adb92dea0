package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sahilmalhotra/vidtube/pkg/models"
)

// Cache provides caching functionality using Redis
type Cache struct {
	client *redis.Client
}

// NewCache creates a new cache instance
func NewCache(host string, port int, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

// Video Cache Operations

// SetVideo caches video metadata
func (c *Cache) SetVideo(ctx context.Context, video *models.Video, ttl time.Duration) error {
	data, err := json.Marshal(video)
	if err != nil {
		return fmt.Errorf("failed to marshal video: %w", err)
	}

	key := fmt.Sprintf("video:%s", video.ID)
	return c.client.Set(ctx, key, data, ttl).Err()
}

// GetVideo retrieves video metadata from cache
func (c *Cache) GetVideo(ctx context.Context, videoID string) (*models.Video, error) {
	key := fmt.Sprintf("video:%s", videoID)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get video from cache: %w", err)
	}

	var video models.Video
	if err := json.Unmarshal(data, &video); err != nil {
		return nil, fmt.Errorf("failed to unmarshal video: %w", err)
	}

	return &video, nil
}

// DeleteVideo removes video from cache
func (c *Cache) DeleteVideo(ctx context.Context, videoID string) error {
	key := fmt.Sprintf("video:%s", videoID)
	return c.client.Del(ctx, key).Err()
}

// View Counter Operations

// IncrementViews bumps the pending view counter for a video. The counter
// accumulates between repository flushes so each playback does not turn
// into a database write.
func (c *Cache) IncrementViews(ctx context.Context, videoID string) (int64, error) {
	key := fmt.Sprintf("views:%s", videoID)
	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment views: %w", err)
	}
	return count, nil
}

// ResetViews clears the pending view counter after a flush and returns
// the value it held.
func (c *Cache) ResetViews(ctx context.Context, videoID string) (int64, error) {
	key := fmt.Sprintf("views:%s", videoID)
	count, err := c.client.GetDel(ctx, key).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to reset views: %w", err)
	}
	return count, nil
}

// DrainViews collects and clears every pending view counter, keyed by
// video id. A counter written between the scan and its GetDel is picked
// up on the next drain.
func (c *Cache) DrainViews(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)

	iter := c.client.Scan(ctx, 0, "views:*", 0).Iterator()
	for iter.Next(ctx) {
		videoID := strings.TrimPrefix(iter.Val(), "views:")
		count, err := c.ResetViews(ctx, videoID)
		if err != nil {
			return counts, err
		}
		if count > 0 {
			counts[videoID] = count
		}
	}
	if err := iter.Err(); err != nil {
		return counts, fmt.Errorf("failed to scan view counters: %w", err)
	}

	return counts, nil
}

// Channel Stats Cache Operations

// SetChannelStats caches a channel's dashboard aggregates
func (c *Cache) SetChannelStats(ctx context.Context, channelID string, stats *models.ChannelStats, ttl time.Duration) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal channel stats: %w", err)
	}

	key := fmt.Sprintf("stats:channel:%s", channelID)
	return c.client.Set(ctx, key, data, ttl).Err()
}

// GetChannelStats retrieves a channel's dashboard aggregates from cache
func (c *Cache) GetChannelStats(ctx context.Context, channelID string) (*models.ChannelStats, error) {
	key := fmt.Sprintf("stats:channel:%s", channelID)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get channel stats from cache: %w", err)
	}

	var stats models.ChannelStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal channel stats: %w", err)
	}

	return &stats, nil
}

// DeleteChannelStats invalidates cached aggregates after a write that
// changes them.
func (c *Cache) DeleteChannelStats(ctx context.Context, channelID string) error {
	key := fmt.Sprintf("stats:channel:%s", channelID)
	return c.client.Del(ctx, key).Err()
}

// Health check
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
