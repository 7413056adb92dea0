package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sahilmalhotra/vidtube/pkg/models"
)

// Videos

// CreateVideo creates a new video record
func (r *Repository) CreateVideo(ctx context.Context, video *models.Video) error {
	if video.ID == "" {
		video.ID = uuid.New().String()
	}

	query := `
		INSERT INTO videos (id, owner_id, title, description, video_url, video_key,
		                    thumbnail_url, thumbnail_key, duration, size, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		video.ID, video.OwnerID, video.Title, video.Description,
		video.VideoURL, video.VideoKey, video.ThumbnailURL, video.ThumbnailKey,
		video.Duration, video.Size, video.IsPublished,
	).Scan(&video.CreatedAt, &video.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}

	return nil
}

// GetVideo retrieves a video by ID with the uploader's identity joined in.
func (r *Repository) GetVideo(ctx context.Context, id string) (*models.Video, error) {
	var video models.Video
	var owner models.OwnerSummary

	query := `
		SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.video_key,
		       v.thumbnail_url, v.thumbnail_key, v.duration, v.size, v.views,
		       v.is_published, v.created_at, v.updated_at,
		       u.id, u.username, u.full_name, u.avatar_url
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE v.id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&video.ID, &video.OwnerID, &video.Title, &video.Description,
		&video.VideoURL, &video.VideoKey, &video.ThumbnailURL, &video.ThumbnailKey,
		&video.Duration, &video.Size, &video.Views,
		&video.IsPublished, &video.CreatedAt, &video.UpdatedAt,
		&owner.ID, &owner.Username, &owner.FullName, &owner.Avatar,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	video.Owner = &owner
	return &video, nil
}

// videoSortColumns whitelists the fields a listing may be ordered by.
var videoSortColumns = map[string]string{
	"createdAt": "v.created_at",
	"views":     "v.views",
	"duration":  "v.duration",
	"title":     "v.title",
}

// ListVideos retrieves published videos matching the search parameters.
func (r *Repository) ListVideos(ctx context.Context, params models.VideoListParams) ([]*models.Video, error) {
	sortCol, ok := videoSortColumns[params.SortBy]
	if !ok {
		sortCol = "v.created_at"
	}
	direction := "DESC"
	if params.SortOrder == "asc" {
		direction = "ASC"
	}

	if params.Limit <= 0 {
		params.Limit = 10
	}

	query := `
		SELECT v.id, v.owner_id, v.title, v.description, v.video_url,
		       v.thumbnail_url, v.duration, v.size, v.views, v.is_published,
		       v.created_at, v.updated_at,
		       u.id, u.username, u.full_name, u.avatar_url
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE v.is_published
		  AND ($1 = '' OR v.title ILIKE '%' || $1 || '%' OR v.description ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR v.owner_id = $2)
		ORDER BY ` + sortCol + ` ` + direction + `
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Pool.Query(ctx, query, params.Query, params.OwnerID, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	var videos []*models.Video
	for rows.Next() {
		var video models.Video
		var owner models.OwnerSummary
		err := rows.Scan(
			&video.ID, &video.OwnerID, &video.Title, &video.Description,
			&video.VideoURL, &video.ThumbnailURL, &video.Duration, &video.Size,
			&video.Views, &video.IsPublished, &video.CreatedAt, &video.UpdatedAt,
			&owner.ID, &owner.Username, &owner.FullName, &owner.Avatar,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		video.Owner = &owner
		videos = append(videos, &video)
	}

	return videos, nil
}

// UpdateVideoDetails updates title, description and optionally the thumbnail.
// The owner guard makes the update a no-op for anyone but the owner.
func (r *Repository) UpdateVideoDetails(ctx context.Context, videoID, ownerID, title, description, thumbnailURL, thumbnailKey string) (*models.Video, error) {
	query := `
		UPDATE videos
		SET title = $3, description = $4,
		    thumbnail_url = COALESCE(NULLIF($5, ''), thumbnail_url),
		    thumbnail_key = COALESCE(NULLIF($6, ''), thumbnail_key),
		    updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING id
	`

	var id string
	err := r.db.Pool.QueryRow(ctx, query, videoID, ownerID, title, description, thumbnailURL, thumbnailKey).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update video: %w", err)
	}

	return r.GetVideo(ctx, videoID)
}

// DeleteVideo deletes a video row. Comments, likes, playlist entries and
// watch history rows cascade at the schema level.
func (r *Repository) DeleteVideo(ctx context.Context, videoID, ownerID string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM videos WHERE id = $1 AND owner_id = $2`, videoID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TogglePublishStatus flips is_published and returns the new value.
func (r *Repository) TogglePublishStatus(ctx context.Context, videoID, ownerID string) (bool, error) {
	var published bool
	err := r.db.Pool.QueryRow(ctx, `
		UPDATE videos SET is_published = NOT is_published, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING is_published
	`, videoID, ownerID).Scan(&published)

	if errors.Is(err, pgx.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to toggle publish status: %w", err)
	}
	return published, nil
}

// IncrementViews bumps a video's view counter.
func (r *Repository) IncrementViews(ctx context.Context, videoID string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE videos SET views = views + 1 WHERE id = $1`, videoID)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

// AddViews applies a batch of buffered views to a video's counter.
func (r *Repository) AddViews(ctx context.Context, videoID string, count int64) error {
	if count <= 0 {
		return nil
	}
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE videos SET views = views + $2 WHERE id = $1`, videoID, count)
	if err != nil {
		return fmt.Errorf("failed to add views: %w", err)
	}
	return nil
}
