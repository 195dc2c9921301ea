package types

import "time"

// Testimonial is a donor or recipient story shown on the landing page.
type Testimonial struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email,omitempty" db:"email"`
	Image     string    `json:"image,omitempty" db:"image"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Volunteer is a signup record for platform volunteering.
type Volunteer struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Email       string    `json:"email" db:"email"`
	PhoneNumber string    `json:"phoneNumber,omitempty" db:"phone_number"`
	Location    string    `json:"location,omitempty" db:"location"`
	Image       string    `json:"image,omitempty" db:"image"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Gratitude is a public thank-you post from a recipient.
type Gratitude struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email,omitempty" db:"email"`
	Image     string    `json:"image,omitempty" db:"image"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewsItem is a platform news or announcement entry.
type NewsItem struct {
	ID        int       `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	Image     string    `json:"image,omitempty" db:"image"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
