package database

import (
	"context"
	"fmt"

	"github.com/sahilmalhotra/vidtube/pkg/models"
)

// Dashboard aggregates

// GetChannelStats computes a channel's dashboard totals in one round trip.
// Like totals are split by target so the dashboard can show where the
// engagement comes from.
func (r *Repository) GetChannelStats(ctx context.Context, channelID string) (*models.ChannelStats, error) {
	var stats models.ChannelStats

	query := `
		SELECT
			(SELECT COUNT(*) FROM videos v WHERE v.owner_id = $1),
			(SELECT COALESCE(SUM(v.views), 0) FROM videos v WHERE v.owner_id = $1),
			(SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = $1),
			(SELECT COUNT(*) FROM likes l
				JOIN videos v ON v.id = l.video_id
				WHERE v.owner_id = $1),
			(SELECT COUNT(*) FROM likes l
				JOIN comments c ON c.id = l.comment_id
				WHERE c.owner_id = $1),
			(SELECT COUNT(*) FROM likes l
				JOIN tweets t ON t.id = l.tweet_id
				WHERE t.owner_id = $1)
	`

	err := r.db.Pool.QueryRow(ctx, query, channelID).Scan(
		&stats.TotalVideos, &stats.TotalViews, &stats.TotalSubscribers,
		&stats.TotalVideoLikes, &stats.TotalCommentLikes, &stats.TotalTweetLikes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel stats: %w", err)
	}

	stats.TotalLikes = stats.TotalVideoLikes + stats.TotalCommentLikes + stats.TotalTweetLikes

	return &stats, nil
}

// GetChannelVideos retrieves every video uploaded by the channel, published
// or not, newest first.
func (r *Repository) GetChannelVideos(ctx context.Context, channelID string) ([]*models.Video, error) {
	query := `
		SELECT id, owner_id, title, description, video_url, thumbnail_url,
		       duration, size, views, is_published, created_at, updated_at
		FROM videos
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel videos: %w", err)
	}
	defer rows.Close()

	var videos []*models.Video
	for rows.Next() {
		var video models.Video
		err := rows.Scan(
			&video.ID, &video.OwnerID, &video.Title, &video.Description,
			&video.VideoURL, &video.ThumbnailURL, &video.Duration, &video.Size,
			&video.Views, &video.IsPublished, &video.CreatedAt, &video.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan channel video: %w", err)
		}
		videos = append(videos, &video)
	}

	return videos, nil
}
