package models

import (
	"time"
)

// Video represents an uploaded video. The original file and its thumbnail
// live in object storage; the row keeps their public URLs and storage keys.
type Video struct {
	ID           string    `json:"id" db:"id"`
	OwnerID      string    `json:"ownerId" db:"owner_id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	VideoURL     string    `json:"videoFile" db:"video_url"`
	VideoKey     string    `json:"-" db:"video_key"`
	ThumbnailURL string    `json:"thumbnail" db:"thumbnail_url"`
	ThumbnailKey string    `json:"-" db:"thumbnail_key"`
	Duration     float64   `json:"duration" db:"duration"`
	Size         int64     `json:"size" db:"size"`
	Views        int64     `json:"views" db:"views"`
	IsPublished  bool      `json:"isPublished" db:"is_published"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	// Owner is populated by list/get queries that join the uploader.
	Owner *OwnerSummary `json:"owner,omitempty" db:"-"`
}

// OwnerSummary is the slice of a user's identity embedded in resources that
// reference their owner. Never carries credentials.
type OwnerSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName,omitempty"`
	Avatar   string `json:"avatar"`
}

// VideoListParams controls search, ordering and pagination of video listings.
type VideoListParams struct {
	Query     string
	SortBy    string
	SortOrder string
	OwnerID   string
	Limit     int
	Offset    int
}
