package models

import "time"

// GalleryImage is presentational reference data for the gallery page.
type GalleryImage struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	AltText   string    `json:"alt_text"`
	ImageURL  string    `json:"image_url"`
	Category  string    `json:"category"`
	SortOrder int64     `json:"sort_order"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
