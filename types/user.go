package types

import "time"

// User represents an account on the weCare platform.
// It contains identity, profile, and audit metadata.
type User struct {
	// ID is the unique identifier of the user, assigned by the store.
	ID int `json:"id" db:"id"`

	// Name is the user's display name.
	Name string `json:"name" db:"name"`

	// Email is the user's email address. It is the unique login key
	// and is immutable after registration.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// Role indicates the user's role within the platform
	// (e.g., "admin", "volunteer", "user"). Empty when none was
	// supplied at registration.
	Role string `json:"role,omitempty" db:"role"`

	// PhoneNumber is the user's contact number.
	PhoneNumber string `json:"phoneNumber,omitempty" db:"phone_number"`

	// Address is the user's postal address.
	Address string `json:"address,omitempty" db:"address"`

	// Photo is a URL or object key pointing at the user's avatar.
	Photo string `json:"photo,omitempty" db:"photo"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ProfileUpdate carries the mutable profile fields applied by the
// profile-update flow. Password is optional; when empty the stored
// password hash is left untouched.
type ProfileUpdate struct {
	Name        string
	PhoneNumber string
	Address     string
	Photo       string
	Password    string
}

// UpdateResult reports how many records a write matched and changed.
type UpdateResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}
