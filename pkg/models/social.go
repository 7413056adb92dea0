package models

import (
	"time"
)

// Comment is a user's comment on a video.
type Comment struct {
	ID        string    `json:"id" db:"id"`
	VideoID   string    `json:"videoId" db:"video_id"`
	OwnerID   string    `json:"ownerId" db:"owner_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Owner *OwnerSummary `json:"owner,omitempty" db:"-"`
}

// LikeTarget names the kind of entity a like points at.
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

// Like records that a user liked exactly one of a video, a comment or a
// tweet. Exactly one target id is set per row.
type Like struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"likedBy" db:"user_id"`
	VideoID   string    `json:"videoId,omitempty" db:"video_id"`
	CommentID string    `json:"commentId,omitempty" db:"comment_id"`
	TweetID   string    `json:"tweetId,omitempty" db:"tweet_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// VideoLikes summarises the likes on a single video.
type VideoLikes struct {
	VideoID    string          `json:"videoId"`
	TotalLikes int64           `json:"totalLikes"`
	Likers     []*OwnerSummary `json:"likers"`
}

// Tweet is a short community post on a user's channel.
type Tweet struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"ownerId" db:"owner_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Subscription links a subscriber to the channel (user) they follow.
type Subscription struct {
	ID           string    `json:"id" db:"id"`
	SubscriberID string    `json:"subscriber" db:"subscriber_id"`
	ChannelID    string    `json:"channel" db:"channel_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// SubscribedChannel is a channel a user follows, with the channel's public
// identity joined in.
type SubscribedChannel struct {
	ChannelID       string    `json:"channelId"`
	Username        string    `json:"username"`
	FullName        string    `json:"fullName"`
	Avatar          string    `json:"avatar"`
	SubscriberCount int64     `json:"subscriberCount"`
	SubscribedAt    time.Time `json:"subscribedAt"`
}
