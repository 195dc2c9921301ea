package services

import (
	"context"
	"log"

	"github.com/wecare-app/apiserver/internal/events"
	"github.com/wecare-app/apiserver/types"
)

// CommunityRepository defines persistence operations for testimonials,
// volunteers, gratitude posts, and news.
type CommunityRepository interface {
	CreateTestimonial(ctx context.Context, t types.Testimonial) (types.Testimonial, error)
	ListTestimonials(ctx context.Context) ([]types.Testimonial, error)
	CreateVolunteer(ctx context.Context, v types.Volunteer) (types.Volunteer, error)
	ListVolunteers(ctx context.Context) ([]types.Volunteer, error)
	CreateGratitude(ctx context.Context, g types.Gratitude) (types.Gratitude, error)
	ListGratitudes(ctx context.Context) ([]types.Gratitude, error)
	CreateNews(ctx context.Context, n types.NewsItem) (types.NewsItem, error)
	ListNews(ctx context.Context) ([]types.NewsItem, error)
}

// CommunityService encapsulates the append/read community collections.
type CommunityService struct {
	repo      CommunityRepository
	publisher *events.Publisher
}

func NewCommunityService(repo CommunityRepository, publisher *events.Publisher) *CommunityService {
	return &CommunityService{repo: repo, publisher: publisher}
}

func (s *CommunityService) CreateTestimonial(ctx context.Context, t types.Testimonial) (types.Testimonial, error) {
	return s.repo.CreateTestimonial(ctx, t)
}

func (s *CommunityService) ListTestimonials(ctx context.Context) ([]types.Testimonial, error) {
	return s.repo.ListTestimonials(ctx)
}

func (s *CommunityService) CreateVolunteer(ctx context.Context, v types.Volunteer) (types.Volunteer, error) {
	created, err := s.repo.CreateVolunteer(ctx, v)
	if err != nil {
		return types.Volunteer{}, err
	}

	if s.publisher != nil {
		if err := s.publisher.VolunteerJoined(ctx, created); err != nil {
			log.Printf("publish volunteer.joined for %d: %v", created.ID, err)
		}
	}
	return created, nil
}

func (s *CommunityService) ListVolunteers(ctx context.Context) ([]types.Volunteer, error) {
	return s.repo.ListVolunteers(ctx)
}

func (s *CommunityService) CreateGratitude(ctx context.Context, g types.Gratitude) (types.Gratitude, error) {
	return s.repo.CreateGratitude(ctx, g)
}

func (s *CommunityService) ListGratitudes(ctx context.Context) ([]types.Gratitude, error) {
	return s.repo.ListGratitudes(ctx)
}

func (s *CommunityService) CreateNews(ctx context.Context, n types.NewsItem) (types.NewsItem, error) {
	return s.repo.CreateNews(ctx, n)
}

func (s *CommunityService) ListNews(ctx context.Context) ([]types.NewsItem, error) {
	return s.repo.ListNews(ctx)
}
