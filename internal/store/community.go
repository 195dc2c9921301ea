package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/wecare-app/apiserver/types"
)

// CommunityRepository handles persistence for the append/read community
// collections: testimonials, volunteers, gratitude posts, and news.
type CommunityRepository struct {
	db *sql.DB
}

func NewCommunityRepository(db *sql.DB) *CommunityRepository {
	return &CommunityRepository{db: db}
}

func (r *CommunityRepository) CreateTestimonial(ctx context.Context, t types.Testimonial) (types.Testimonial, error) {
	t.CreatedAt = time.Now()
	const query = `
		INSERT INTO testimonials (name, email, image, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, t.Name, t.Email, t.Image, t.Message, t.CreatedAt).Scan(&t.ID); err != nil {
		return types.Testimonial{}, err
	}
	return t, nil
}

func (r *CommunityRepository) ListTestimonials(ctx context.Context) ([]types.Testimonial, error) {
	const query = `
		SELECT id, name, email, image, message, created_at
		FROM testimonials
		ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	testimonials := make([]types.Testimonial, 0)
	for rows.Next() {
		var t types.Testimonial
		if err := rows.Scan(&t.ID, &t.Name, &t.Email, &t.Image, &t.Message, &t.CreatedAt); err != nil {
			return nil, err
		}
		testimonials = append(testimonials, t)
	}
	return testimonials, rows.Err()
}

func (r *CommunityRepository) CreateVolunteer(ctx context.Context, v types.Volunteer) (types.Volunteer, error) {
	v.CreatedAt = time.Now()
	const query = `
		INSERT INTO volunteers (name, email, phone_number, location, image, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, v.Name, v.Email, v.PhoneNumber, v.Location, v.Image, v.CreatedAt).Scan(&v.ID); err != nil {
		return types.Volunteer{}, err
	}
	return v, nil
}

func (r *CommunityRepository) ListVolunteers(ctx context.Context) ([]types.Volunteer, error) {
	const query = `
		SELECT id, name, email, phone_number, location, image, created_at
		FROM volunteers
		ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	volunteers := make([]types.Volunteer, 0)
	for rows.Next() {
		var v types.Volunteer
		if err := rows.Scan(&v.ID, &v.Name, &v.Email, &v.PhoneNumber, &v.Location, &v.Image, &v.CreatedAt); err != nil {
			return nil, err
		}
		volunteers = append(volunteers, v)
	}
	return volunteers, rows.Err()
}

func (r *CommunityRepository) CreateGratitude(ctx context.Context, g types.Gratitude) (types.Gratitude, error) {
	g.CreatedAt = time.Now()
	const query = `
		INSERT INTO gratitudes (name, email, image, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, g.Name, g.Email, g.Image, g.Message, g.CreatedAt).Scan(&g.ID); err != nil {
		return types.Gratitude{}, err
	}
	return g, nil
}

func (r *CommunityRepository) ListGratitudes(ctx context.Context) ([]types.Gratitude, error) {
	const query = `
		SELECT id, name, email, image, message, created_at
		FROM gratitudes
		ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	gratitudes := make([]types.Gratitude, 0)
	for rows.Next() {
		var g types.Gratitude
		if err := rows.Scan(&g.ID, &g.Name, &g.Email, &g.Image, &g.Message, &g.CreatedAt); err != nil {
			return nil, err
		}
		gratitudes = append(gratitudes, g)
	}
	return gratitudes, rows.Err()
}

func (r *CommunityRepository) CreateNews(ctx context.Context, n types.NewsItem) (types.NewsItem, error) {
	n.CreatedAt = time.Now()
	const query = `
		INSERT INTO news (title, body, image, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, n.Title, n.Body, n.Image, n.CreatedAt).Scan(&n.ID); err != nil {
		return types.NewsItem{}, err
	}
	return n, nil
}

// ListNews returns news entries newest first.
func (r *CommunityRepository) ListNews(ctx context.Context) ([]types.NewsItem, error) {
	const query = `
		SELECT id, title, body, image, created_at
		FROM news
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]types.NewsItem, 0)
	for rows.Next() {
		var n types.NewsItem
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.Image, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}
