package model

import "time"

// Brand represents a phone manufacturer
type Brand struct {
	ID          string `json:"id"`
	Name        string `json:"name"`         // Unique stable identifier, e.g. "SamsungPhones"
	DisplayName string `json:"display_name"` // Human label, e.g. "Samsung"
}

// Phone represents a single device within a brand.
// FolderName is the uniqueness key within the brand: re-ingesting the same
// source page resolves to the same row.
type Phone struct {
	ID          string    `json:"id"`
	BrandID     string    `json:"brand_id"`
	FolderName  string    `json:"folder_name"`
	Name        string    `json:"name"`
	Price       string    `json:"price,omitempty"`
	ReleaseDate string    `json:"release_date,omitempty"`
	FirstImage  string    `json:"first_image,omitempty"` // Denormalized first gallery image URL
	CreatedAt   time.Time `json:"created_at"`
}

// PhoneDetail holds the categorized specification blob for one phone.
// Exactly one row per phone; fully replaced on every ingestion.
type PhoneDetail struct {
	PhoneID   string                       `json:"phone_id"`
	Specs     map[string]map[string]string `json:"specs"`    // category -> attribute -> value
	Metadata  map[string]string            `json:"metadata"` // Phone Name, Price, Release Date
	Sources   []string                     `json:"sources"`  // Provenance tags
	UpdatedAt time.Time                    `json:"updated_at"`
}

// ImageType classifies where an image came from on the page
type ImageType string

const (
	ImageTypeGallery ImageType = "gallery"
	ImageTypeOther   ImageType = "other"
)

// PhoneImage is one persisted image for a phone. ImageIndex is the 0-based
// position within the gallery, dense with no gaps.
type PhoneImage struct {
	PhoneID    string    `json:"phone_id"`
	ImageURL   string    `json:"image_url"`
	AltText    string    `json:"alt_text,omitempty"`
	ImageType  ImageType `json:"image_type"`
	ImageIndex int       `json:"image_index"`
}
