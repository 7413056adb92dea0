package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sahilmalhotra/vidtube/pkg/models"
)

// Subscriptions

// ToggleSubscription subscribes or unsubscribes a user from a channel and
// returns the resulting state (true when subscribed).
func (r *Repository) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`,
		subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle subscription: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO subscriptions (id, subscriber_id, channel_id)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`, uuid.New().String(), subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle subscription: %w", err)
	}

	return true, nil
}

// ListChannelSubscribers retrieves the users subscribed to a channel.
func (r *Repository) ListChannelSubscribers(ctx context.Context, channelID string) ([]*models.OwnerSummary, error) {
	query := `
		SELECT u.id, u.username, u.full_name, u.avatar_url
		FROM subscriptions s
		JOIN users u ON u.id = s.subscriber_id
		WHERE s.channel_id = $1
		ORDER BY s.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer rows.Close()

	var subscribers []*models.OwnerSummary
	for rows.Next() {
		var sub models.OwnerSummary
		if err := rows.Scan(&sub.ID, &sub.Username, &sub.FullName, &sub.Avatar); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		subscribers = append(subscribers, &sub)
	}

	return subscribers, nil
}

// ListSubscribedChannels retrieves the channels a user is subscribed to,
// each with its own subscriber count.
func (r *Repository) ListSubscribedChannels(ctx context.Context, subscriberID string) ([]*models.SubscribedChannel, error) {
	query := `
		SELECT u.id, u.username, u.full_name, u.avatar_url,
		       (SELECT COUNT(*) FROM subscriptions sc WHERE sc.channel_id = u.id),
		       s.created_at
		FROM subscriptions s
		JOIN users u ON u.id = s.channel_id
		WHERE s.subscriber_id = $1
		ORDER BY s.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribed channels: %w", err)
	}
	defer rows.Close()

	var channels []*models.SubscribedChannel
	for rows.Next() {
		var ch models.SubscribedChannel
		err := rows.Scan(&ch.ChannelID, &ch.Username, &ch.FullName, &ch.Avatar,
			&ch.SubscriberCount, &ch.SubscribedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscribed channel: %w", err)
		}
		channels = append(channels, &ch)
	}

	return channels, nil
}
