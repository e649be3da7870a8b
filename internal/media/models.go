// Package media holds the catalog of imported media items. Items are
// immutable once created and referenced by id from timeline clips; the
// registry supplies duration and type at clip creation and existence checks
// during active-clip resolution. It has no time-based logic of its own.
package media

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeVideo = "video"
	TypeAudio = "audio"
	TypeImage = "image"
)

// Item is one imported media asset. Duration is 0 for images, which carry no
// intrinsic length.
type Item struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	URL          string    `json:"url"`
	Duration     float64   `json:"duration"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValidType reports whether t is a known media type.
func ValidType(t string) bool {
	switch t {
	case TypeVideo, TypeAudio, TypeImage:
		return true
	}
	return false
}

// NewID mints a media item id.
func NewID() string {
	return uuid.New().String()
}
