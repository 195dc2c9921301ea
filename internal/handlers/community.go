package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/wecare-app/apiserver/internal/services"
	"github.com/wecare-app/apiserver/types"
)

// CommunityHandler provides HTTP handlers for testimonials, volunteers,
// gratitude posts, and news.
type CommunityHandler struct {
	communityService *services.CommunityService
}

func NewCommunityHandler(communityService *services.CommunityService) *CommunityHandler {
	return &CommunityHandler{communityService: communityService}
}

// CommunityRouter registers community routes on the given router.
func CommunityRouter(r chi.Router, communityService *services.CommunityService) {
	handler := NewCommunityHandler(communityService)

	r.Post("/create-testimonial", handler.CreateTestimonial)
	r.Get("/testimonials", handler.ListTestimonials)
	r.Post("/add-volunteer", handler.AddVolunteer)
	r.Get("/volunteers", handler.ListVolunteers)
	r.Post("/add-gratitude", handler.AddGratitude)
	r.Get("/gratitudes", handler.ListGratitudes)
	r.Post("/create-news", handler.CreateNews)
	r.Get("/latest-news", handler.ListNews)
}

func (h *CommunityHandler) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var testimonial types.Testimonial
	if err := json.NewDecoder(r.Body).Decode(&testimonial); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.communityService.CreateTestimonial(r.Context(), testimonial)
	if err != nil {
		writeInternalError(w, err, "failed to create testimonial")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *CommunityHandler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	testimonials, err := h.communityService.ListTestimonials(r.Context())
	if err != nil {
		writeInternalError(w, err, "failed to list testimonials")
		return
	}

	writeJSON(w, http.StatusOK, testimonials)
}

func (h *CommunityHandler) AddVolunteer(w http.ResponseWriter, r *http.Request) {
	var volunteer types.Volunteer
	if err := json.NewDecoder(r.Body).Decode(&volunteer); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if strings.TrimSpace(volunteer.Email) == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	created, err := h.communityService.CreateVolunteer(r.Context(), volunteer)
	if err != nil {
		writeInternalError(w, err, "failed to add volunteer")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *CommunityHandler) ListVolunteers(w http.ResponseWriter, r *http.Request) {
	volunteers, err := h.communityService.ListVolunteers(r.Context())
	if err != nil {
		writeInternalError(w, err, "failed to list volunteers")
		return
	}

	writeJSON(w, http.StatusOK, volunteers)
}

func (h *CommunityHandler) AddGratitude(w http.ResponseWriter, r *http.Request) {
	var gratitude types.Gratitude
	if err := json.NewDecoder(r.Body).Decode(&gratitude); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.communityService.CreateGratitude(r.Context(), gratitude)
	if err != nil {
		writeInternalError(w, err, "failed to add gratitude")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *CommunityHandler) ListGratitudes(w http.ResponseWriter, r *http.Request) {
	gratitudes, err := h.communityService.ListGratitudes(r.Context())
	if err != nil {
		writeInternalError(w, err, "failed to list gratitudes")
		return
	}

	writeJSON(w, http.StatusOK, gratitudes)
}

func (h *CommunityHandler) CreateNews(w http.ResponseWriter, r *http.Request) {
	var item types.NewsItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if strings.TrimSpace(item.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	created, err := h.communityService.CreateNews(r.Context(), item)
	if err != nil {
		writeInternalError(w, err, "failed to create news")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *CommunityHandler) ListNews(w http.ResponseWriter, r *http.Request) {
	items, err := h.communityService.ListNews(r.Context())
	if err != nil {
		writeInternalError(w, err, "failed to list news")
		return
	}

	writeJSON(w, http.StatusOK, items)
}
