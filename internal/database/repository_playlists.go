package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sahilmalhotra/vidtube/pkg/models"
)

// Playlists

// CreatePlaylist creates a playlist. Name collisions within one owner's
// playlists surface as ErrDuplicate.
func (r *Repository) CreatePlaylist(ctx context.Context, playlist *models.Playlist) error {
	if playlist.ID == "" {
		playlist.ID = uuid.New().String()
	}

	query := `
		INSERT INTO playlists (id, owner_id, name, description)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		playlist.ID, playlist.OwnerID, playlist.Name, playlist.Description,
	).Scan(&playlist.CreatedAt, &playlist.UpdatedAt)

	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	return nil
}

// GetPlaylist retrieves a playlist and its videos in insertion order.
func (r *Repository) GetPlaylist(ctx context.Context, id string) (*models.Playlist, error) {
	var playlist models.Playlist

	query := `
		SELECT id, owner_id, name, description, created_at, updated_at
		FROM playlists
		WHERE id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&playlist.ID, &playlist.OwnerID, &playlist.Name, &playlist.Description,
		&playlist.CreatedAt, &playlist.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}

	videoQuery := `
		SELECT v.id, v.owner_id, v.title, v.description, v.video_url,
		       v.thumbnail_url, v.duration, v.size, v.views, v.is_published,
		       v.created_at, v.updated_at
		FROM playlist_videos pv
		JOIN videos v ON v.id = pv.video_id
		WHERE pv.playlist_id = $1
		ORDER BY pv.added_at
	`

	rows, err := r.db.Pool.Query(ctx, videoQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist videos: %w", err)
	}
	defer rows.Close()

	playlist.Videos = []*models.Video{}
	for rows.Next() {
		var video models.Video
		err := rows.Scan(
			&video.ID, &video.OwnerID, &video.Title, &video.Description,
			&video.VideoURL, &video.ThumbnailURL, &video.Duration, &video.Size,
			&video.Views, &video.IsPublished, &video.CreatedAt, &video.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist video: %w", err)
		}
		playlist.Videos = append(playlist.Videos, &video)
	}

	return &playlist, nil
}

// ListUserPlaylists retrieves all playlists owned by a user.
func (r *Repository) ListUserPlaylists(ctx context.Context, userID string) ([]*models.Playlist, error) {
	query := `
		SELECT id, owner_id, name, description, created_at, updated_at
		FROM playlists
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.Playlist
	for rows.Next() {
		var playlist models.Playlist
		err := rows.Scan(
			&playlist.ID, &playlist.OwnerID, &playlist.Name, &playlist.Description,
			&playlist.CreatedAt, &playlist.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, &playlist)
	}

	return playlists, nil
}

// UpdatePlaylist changes name and description. Owner-guarded.
func (r *Repository) UpdatePlaylist(ctx context.Context, playlistID, ownerID, name, description string) (*models.Playlist, error) {
	var playlist models.Playlist

	query := `
		UPDATE playlists SET name = $3, description = $4, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING id, owner_id, name, description, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query, playlistID, ownerID, name, description).Scan(
		&playlist.ID, &playlist.OwnerID, &playlist.Name, &playlist.Description,
		&playlist.CreatedAt, &playlist.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update playlist: %w", err)
	}

	return &playlist, nil
}

// DeletePlaylist removes a playlist and its entries. Owner-guarded.
func (r *Repository) DeletePlaylist(ctx context.Context, playlistID, ownerID string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM playlists WHERE id = $1 AND owner_id = $2`, playlistID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddVideoToPlaylist inserts a video into an owned playlist. Returns
// ErrNotFound if the playlist is not owned by ownerID and ErrDuplicate if
// the video is already in it.
func (r *Repository) AddVideoToPlaylist(ctx context.Context, playlistID, ownerID, videoID string) error {
	var owned bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM playlists WHERE id = $1 AND owner_id = $2)`,
		playlistID, ownerID,
	).Scan(&owned)
	if err != nil {
		return fmt.Errorf("failed to check playlist ownership: %w", err)
	}
	if !owned {
		return ErrNotFound
	}

	tag, err := r.db.Pool.Exec(ctx, `
		INSERT INTO playlist_videos (playlist_id, video_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, playlistID, videoID)
	if err != nil {
		return fmt.Errorf("failed to add video to playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicate
	}
	return nil
}

// RemoveVideoFromPlaylist removes a video from an owned playlist.
func (r *Repository) RemoveVideoFromPlaylist(ctx context.Context, playlistID, ownerID, videoID string) error {
	tag, err := r.db.Pool.Exec(ctx, `
		DELETE FROM playlist_videos pv
		USING playlists p
		WHERE pv.playlist_id = p.id
		  AND pv.playlist_id = $1 AND p.owner_id = $2 AND pv.video_id = $3
	`, playlistID, ownerID, videoID)
	if err != nil {
		return fmt.Errorf("failed to remove video from playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
