package models

import (
	"time"
)

// User represents a registered account. A user is also a channel: videos,
// playlists and tweets hang off the user id, and subscriptions point at it.
type User struct {
	ID            string    `json:"id" db:"id"`
	Username      string    `json:"username" db:"username"`
	Email         string    `json:"email" db:"email"`
	FullName      string    `json:"fullName" db:"full_name"`
	Avatar        string    `json:"avatar" db:"avatar_url"`
	AvatarKey     string    `json:"-" db:"avatar_key"`
	CoverImage    string    `json:"coverImage,omitempty" db:"cover_image_url"`
	CoverImageKey string    `json:"-" db:"cover_image_key"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	RefreshToken  string    `json:"-" db:"refresh_token"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// ChannelProfile is a user's public channel page: identity fields plus
// subscription counts and whether the viewing user is subscribed.
type ChannelProfile struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	FullName          string `json:"fullName"`
	Email             string `json:"email"`
	Avatar            string `json:"avatar"`
	CoverImage        string `json:"coverImage,omitempty"`
	SubscriberCount   int64  `json:"subscribersCount"`
	SubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed      bool   `json:"isSubscribed"`
}

// WatchHistoryEntry is a video in a user's watch history with the uploader's
// public identity joined in.
type WatchHistoryEntry struct {
	VideoID       string    `json:"videoId"`
	Title         string    `json:"title"`
	ThumbnailURL  string    `json:"thumbnail"`
	Duration      float64   `json:"duration"`
	OwnerUsername string    `json:"ownerUsername"`
	OwnerAvatar   string    `json:"ownerAvatar"`
	WatchedAt     time.Time `json:"watchedAt"`
}
