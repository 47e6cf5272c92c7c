package models

import "time"

// Artwork is an uploaded image with its metadata.
//
// StorageKey is the object-storage key of the image blob; ImageURL is the
// public URL derived from it at upload time. Username is the owner's name,
// joined in by list/detail queries; it is not a column of the artworks table.
type Artwork struct {
	ID          int64
	UserID      int64
	Username    string
	StorageKey  string
	ImageURL    string
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
