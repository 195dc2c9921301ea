package types

import "time"

// Supply represents a donated food-supply listing.
type Supply struct {
	// ID is the unique identifier of the supply, assigned by the store.
	ID int `json:"id" db:"id"`

	// Title is the human-readable name of the listing.
	Title string `json:"title" db:"title"`

	// Category groups listings for filtering (e.g., "rice", "canned").
	Category string `json:"category" db:"category"`

	// Quantity describes how much of the supply is available.
	Quantity Quantity `json:"quantity" db:"quantity"`

	// Description is the free-form detail text shown on the listing page.
	Description string `json:"description" db:"description"`

	// Image is a URL or object key for the listing photo.
	Image string `json:"image" db:"image"`

	// DonorName is the display name of the donor.
	DonorName string `json:"donorName" db:"donor_name"`

	// DonorEmail is the donor's contact email.
	DonorEmail string `json:"donorEmail" db:"donor_email"`

	// DonorImage is a URL or object key for the donor's avatar.
	DonorImage string `json:"donorImage" db:"donor_image"`

	// CreatedAt is the timestamp at which the listing was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the listing.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Quantity is an amount paired with its unit (e.g., 25 "kg").
type Quantity struct {
	Amount float64 `json:"quantity"`
	Unit   string  `json:"quantityUnit"`
}
