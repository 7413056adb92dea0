package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sahilmalhotra/vidtube/pkg/models"
)

// Sentinel errors the handler layer maps onto the API error taxonomy.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
	// ErrTokenMismatch is returned when a conditional refresh-token update
	// matches no row: the presented token is stale or already rotated.
	ErrTokenMismatch = errors.New("refresh token mismatch")
)

// Repository provides database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Health checks the underlying database connection.
func (r *Repository) Health(ctx context.Context) error {
	return r.db.Health(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyViolation reports a write that referenced a missing row,
// which the caller surfaces as ErrNotFound.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// Users

// userIdentityColumns are the fields safe to hand to the rest of the system.
// password_hash and refresh_token are only read by the credential paths.
const userIdentityColumns = `id, username, email, full_name, avatar_url, avatar_key,
       cover_image_url, cover_image_key, created_at, updated_at`

func scanUserIdentity(row pgx.Row, user *models.User) error {
	return row.Scan(
		&user.ID, &user.Username, &user.Email, &user.FullName,
		&user.Avatar, &user.AvatarKey, &user.CoverImage, &user.CoverImageKey,
		&user.CreatedAt, &user.UpdatedAt,
	)
}

// CreateUser inserts a new user record. Username and email are stored
// lowercased; uniqueness violations surface as ErrDuplicate.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	query := `
		INSERT INTO users (id, username, email, full_name, avatar_url, avatar_key,
		                   cover_image_url, cover_image_key, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		user.ID, strings.ToLower(user.Username), strings.ToLower(user.Email),
		user.FullName, user.Avatar, user.AvatarKey,
		user.CoverImage, user.CoverImageKey, user.PasswordHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.Username = strings.ToLower(user.Username)
	user.Email = strings.ToLower(user.Email)
	return nil
}

// GetUserByID retrieves a user's identity fields. The password hash and
// refresh token are deliberately not selected.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User

	query := `SELECT ` + userIdentityColumns + ` FROM users WHERE id = $1`

	err := scanUserIdentity(r.db.Pool.QueryRow(ctx, query, id), &user)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetUserCredentials looks a user up by username or email and returns the
// full record including the password hash, for login verification only.
func (r *Repository) GetUserCredentials(ctx context.Context, usernameOrEmail string) (*models.User, error) {
	var user models.User
	var refreshToken *string

	query := `
		SELECT ` + userIdentityColumns + `, password_hash, refresh_token
		FROM users
		WHERE username = $1 OR email = $1
	`

	identifier := strings.ToLower(strings.TrimSpace(usernameOrEmail))
	row := r.db.Pool.QueryRow(ctx, query, identifier)
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.FullName,
		&user.Avatar, &user.AvatarKey, &user.CoverImage, &user.CoverImageKey,
		&user.CreatedAt, &user.UpdatedAt, &user.PasswordHash, &refreshToken,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user credentials: %w", err)
	}

	if refreshToken != nil {
		user.RefreshToken = *refreshToken
	}
	return &user, nil
}

// GetPasswordHash returns the stored password hash for a user id.
func (r *Repository) GetPasswordHash(ctx context.Context, userID string) (string, error) {
	var hash string
	err := r.db.Pool.QueryRow(ctx, `SELECT password_hash FROM users WHERE id = $1`, userID).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get password hash: %w", err)
	}
	return hash, nil
}

// UpdatePassword replaces the stored password hash.
func (r *Repository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`,
		userID, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRefreshToken unconditionally stores a new refresh token. Used on login,
// where the previous session (if any) is being replaced outright.
func (r *Repository) SetRefreshToken(ctx context.Context, userID, token string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE users SET refresh_token = $2, updated_at = now() WHERE id = $1`,
		userID, token,
	)
	if err != nil {
		return fmt.Errorf("failed to set refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RotateRefreshToken atomically replaces the stored refresh token, but only
// if the presented token is the one currently on file. A zero-row update
// means the token was already rotated or never issued; two concurrent
// refreshes on the same token therefore cannot both succeed.
func (r *Repository) RotateRefreshToken(ctx context.Context, userID, oldToken, newToken string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE users SET refresh_token = $3, updated_at = now()
		 WHERE id = $1 AND refresh_token = $2`,
		userID, oldToken, newToken,
	)
	if err != nil {
		return fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTokenMismatch
	}
	return nil
}

// ClearRefreshToken removes the stored refresh token. Clearing an already
// empty field is not an error, so logout stays idempotent.
func (r *Repository) ClearRefreshToken(ctx context.Context, userID string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE users SET refresh_token = NULL, updated_at = now() WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

// UpdateAccountDetails updates the mutable identity fields.
func (r *Repository) UpdateAccountDetails(ctx context.Context, userID, fullName, email string) (*models.User, error) {
	var user models.User

	query := `
		UPDATE users SET full_name = $2, email = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + userIdentityColumns

	err := scanUserIdentity(
		r.db.Pool.QueryRow(ctx, query, userID, fullName, strings.ToLower(email)), &user)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	return &user, nil
}

// UpdateAvatar replaces the avatar URL and storage key.
func (r *Repository) UpdateAvatar(ctx context.Context, userID, url, key string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE users SET avatar_url = $2, avatar_key = $3, updated_at = now() WHERE id = $1`,
		userID, url, key,
	)
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateCoverImage replaces the cover image URL and storage key.
func (r *Repository) UpdateCoverImage(ctx context.Context, userID, url, key string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE users SET cover_image_url = $2, cover_image_key = $3, updated_at = now() WHERE id = $1`,
		userID, url, key,
	)
	if err != nil {
		return fmt.Errorf("failed to update cover image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetChannelProfile returns a channel's public profile with subscriber
// counts and whether viewerID is subscribed to it.
func (r *Repository) GetChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error) {
	var profile models.ChannelProfile

	query := `
		SELECT u.id, u.username, u.full_name, u.email, u.avatar_url, u.cover_image_url,
		       (SELECT count(*) FROM subscriptions s WHERE s.channel_id = u.id)    AS subscribers,
		       (SELECT count(*) FROM subscriptions s WHERE s.subscriber_id = u.id) AS subscribed_to,
		       EXISTS (SELECT 1 FROM subscriptions s
		               WHERE s.channel_id = u.id AND s.subscriber_id = $2)         AS is_subscribed
		FROM users u
		WHERE u.username = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, strings.ToLower(username), viewerID).Scan(
		&profile.ID, &profile.Username, &profile.FullName, &profile.Email,
		&profile.Avatar, &profile.CoverImage,
		&profile.SubscriberCount, &profile.SubscribedToCount, &profile.IsSubscribed,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get channel profile: %w", err)
	}

	return &profile, nil
}

// AddToWatchHistory records that a user watched a video. Re-watching does
// not create duplicate entries.
func (r *Repository) AddToWatchHistory(ctx context.Context, userID, videoID string) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO watch_history (user_id, video_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = now()
	`, userID, videoID)
	if err != nil {
		return fmt.Errorf("failed to add to watch history: %w", err)
	}
	return nil
}

// GetWatchHistory returns the user's watch history, most recent first, with
// each video's uploader identity joined in.
func (r *Repository) GetWatchHistory(ctx context.Context, userID string) ([]*models.WatchHistoryEntry, error) {
	query := `
		SELECT v.id, v.title, v.thumbnail_url, v.duration,
		       u.username, u.avatar_url, wh.watched_at
		FROM watch_history wh
		JOIN videos v ON v.id = wh.video_id
		JOIN users u ON u.id = v.owner_id
		WHERE wh.user_id = $1
		ORDER BY wh.watched_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get watch history: %w", err)
	}
	defer rows.Close()

	var entries []*models.WatchHistoryEntry
	for rows.Next() {
		var e models.WatchHistoryEntry
		err := rows.Scan(
			&e.VideoID, &e.Title, &e.ThumbnailURL, &e.Duration,
			&e.OwnerUsername, &e.OwnerAvatar, &e.WatchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan watch history entry: %w", err)
		}
		entries = append(entries, &e)
	}

	return entries, nil
}
