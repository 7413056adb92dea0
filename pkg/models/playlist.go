package models

import (
	"time"
)

// Playlist is a user-owned, ordered collection of videos.
type Playlist struct {
	ID          string    `json:"id" db:"id"`
	OwnerID     string    `json:"ownerId" db:"owner_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Videos is populated by get-by-id queries.
	Videos []*Video `json:"videos,omitempty" db:"-"`
}
