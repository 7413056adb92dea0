package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sahilmalhotra/vidtube/pkg/models"
)

// Comments

// CreateComment creates a comment on a video.
func (r *Repository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}

	query := `
		INSERT INTO comments (id, video_id, owner_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		comment.ID, comment.VideoID, comment.OwnerID, comment.Content,
	).Scan(&comment.CreatedAt, &comment.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

// GetComment retrieves a single comment.
func (r *Repository) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment

	query := `
		SELECT id, video_id, owner_id, content, created_at, updated_at
		FROM comments
		WHERE id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&comment.ID, &comment.VideoID, &comment.OwnerID, &comment.Content,
		&comment.CreatedAt, &comment.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return &comment, nil
}

// ListVideoComments retrieves a video's comments with pagination, newest
// first, with each commenter's identity joined in.
func (r *Repository) ListVideoComments(ctx context.Context, videoID string, limit, offset int) ([]*models.Comment, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT c.id, c.video_id, c.owner_id, c.content, c.created_at, c.updated_at,
		       u.id, u.username, u.full_name, u.avatar_url
		FROM comments c
		JOIN users u ON u.id = c.owner_id
		WHERE c.video_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Pool.Query(ctx, query, videoID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var comment models.Comment
		var owner models.OwnerSummary
		err := rows.Scan(
			&comment.ID, &comment.VideoID, &comment.OwnerID, &comment.Content,
			&comment.CreatedAt, &comment.UpdatedAt,
			&owner.ID, &owner.Username, &owner.FullName, &owner.Avatar,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comment.Owner = &owner
		comments = append(comments, &comment)
	}

	return comments, nil
}

// UpdateComment changes a comment's content. Owner-guarded.
func (r *Repository) UpdateComment(ctx context.Context, commentID, ownerID, content string) (*models.Comment, error) {
	var comment models.Comment

	query := `
		UPDATE comments SET content = $3, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING id, video_id, owner_id, content, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query, commentID, ownerID, content).Scan(
		&comment.ID, &comment.VideoID, &comment.OwnerID, &comment.Content,
		&comment.CreatedAt, &comment.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return &comment, nil
}

// DeleteComment removes a comment. Owner-guarded.
func (r *Repository) DeleteComment(ctx context.Context, commentID, ownerID string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM comments WHERE id = $1 AND owner_id = $2`, commentID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Likes

var likeTargetColumns = map[models.LikeTarget]string{
	models.LikeTargetVideo:   "video_id",
	models.LikeTargetComment: "comment_id",
	models.LikeTargetTweet:   "tweet_id",
}

// ToggleLike removes an existing like on the target or creates one, and
// reports whether the target is liked afterwards. The target id is stored
// in the column matching its kind, never in another target's column.
func (r *Repository) ToggleLike(ctx context.Context, userID string, target models.LikeTarget, targetID string) (bool, error) {
	column, ok := likeTargetColumns[target]
	if !ok {
		return false, fmt.Errorf("unknown like target %q", target)
	}

	deleteQuery := fmt.Sprintf(
		`DELETE FROM likes WHERE user_id = $1 AND %s = $2`, column)
	tag, err := r.db.Pool.Exec(ctx, deleteQuery, userID, targetID)
	if err != nil {
		return false, fmt.Errorf("failed to remove like: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO likes (id, user_id, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`, column)
	_, err = r.db.Pool.Exec(ctx, insertQuery, uuid.New().String(), userID, targetID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("failed to create like: %w", err)
	}

	return true, nil
}

// ListLikedVideos returns the videos a user has liked.
func (r *Repository) ListLikedVideos(ctx context.Context, userID string) ([]*models.Video, error) {
	query := `
		SELECT v.id, v.owner_id, v.title, v.description, v.video_url,
		       v.thumbnail_url, v.duration, v.size, v.views, v.is_published,
		       v.created_at, v.updated_at,
		       u.id, u.username, u.full_name, u.avatar_url
		FROM likes l
		JOIN videos v ON v.id = l.video_id
		JOIN users u ON u.id = v.owner_id
		WHERE l.user_id = $1 AND l.video_id IS NOT NULL
		ORDER BY l.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list liked videos: %w", err)
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
			return nil, fmt.Errorf("failed to scan liked video: %w", err)
		}
		video.Owner = &owner
		videos = append(videos, &video)
	}

	return videos, nil
}

// GetVideoLikes returns the like count for a video and who liked it.
// ErrNotFound when the video does not exist, so an unliked video is
// distinguishable from a missing one.
func (r *Repository) GetVideoLikes(ctx context.Context, videoID string) (*models.VideoLikes, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM videos WHERE id = $1)`, videoID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check video: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	query := `
		SELECT u.id, u.username, u.full_name, u.avatar_url
		FROM likes l
		JOIN users u ON u.id = l.user_id
		WHERE l.video_id = $1
		ORDER BY l.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get video likes: %w", err)
	}
	defer rows.Close()

	likes := &models.VideoLikes{VideoID: videoID, Likers: []*models.OwnerSummary{}}
	for rows.Next() {
		var liker models.OwnerSummary
		if err := rows.Scan(&liker.ID, &liker.Username, &liker.FullName, &liker.Avatar); err != nil {
			return nil, fmt.Errorf("failed to scan liker: %w", err)
		}
		likes.Likers = append(likes.Likers, &liker)
	}
	likes.TotalLikes = int64(len(likes.Likers))

	return likes, nil
}

// Tweets

// CreateTweet creates a tweet on the user's channel.
func (r *Repository) CreateTweet(ctx context.Context, tweet *models.Tweet) error {
	if tweet.ID == "" {
		tweet.ID = uuid.New().String()
	}

	query := `
		INSERT INTO tweets (id, owner_id, content)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query, tweet.ID, tweet.OwnerID, tweet.Content).
		Scan(&tweet.CreatedAt, &tweet.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tweet: %w", err)
	}

	return nil
}

// ListUserTweets retrieves all tweets by a user, newest first.
func (r *Repository) ListUserTweets(ctx context.Context, userID string) ([]*models.Tweet, error) {
	query := `
		SELECT id, owner_id, content, created_at, updated_at
		FROM tweets
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tweets: %w", err)
	}
	defer rows.Close()

	var tweets []*models.Tweet
	for rows.Next() {
		var tweet models.Tweet
		err := rows.Scan(&tweet.ID, &tweet.OwnerID, &tweet.Content, &tweet.CreatedAt, &tweet.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tweet: %w", err)
		}
		tweets = append(tweets, &tweet)
	}

	return tweets, nil
}

// UpdateTweet changes a tweet's content. Owner-guarded.
func (r *Repository) UpdateTweet(ctx context.Context, tweetID, ownerID, content string) (*models.Tweet, error) {
	var tweet models.Tweet

	query := `
		UPDATE tweets SET content = $3, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING id, owner_id, content, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query, tweetID, ownerID, content).Scan(
		&tweet.ID, &tweet.OwnerID, &tweet.Content, &tweet.CreatedAt, &tweet.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update tweet: %w", err)
	}

	return &tweet, nil
}

// DeleteTweet removes a tweet. Owner-guarded.
func (r *Repository) DeleteTweet(ctx context.Context, tweetID, ownerID string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM tweets WHERE id = $1 AND owner_id = $2`, tweetID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete tweet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
