package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/wecare-app/apiserver/internal/services"
	"github.com/wecare-app/apiserver/internal/store"
	"github.com/wecare-app/apiserver/types"
)

const (
	maxPhotoMemory = 32 << 20
	maxPhotoBytes  = 10 << 20
	formFieldPhoto = "photo"
)

// SupplyHandler provides HTTP handlers for food-supply listings.
type SupplyHandler struct {
	supplyService *services.SupplyService
}

func NewSupplyHandler(supplyService *services.SupplyService) *SupplyHandler {
	return &SupplyHandler{supplyService: supplyService}
}

// SupplyRouter registers supply routes on the given router.
func SupplyRouter(r chi.Router, supplyService *services.SupplyService) {
	handler := NewSupplyHandler(supplyService)

	r.Post("/create-supply", handler.CreateSupply)
	r.Get("/supplies", handler.ListSupplies)
	r.Get("/supply/{supplyID}", handler.GetSupply)
	r.Put("/supply/{supplyID}", handler.UpdateSupply)
	r.Delete("/delete-supply/{supplyID}", handler.DeleteSupply)
	r.Post("/supply/{supplyID}/photo", handler.UploadPhoto)
}

func (h *SupplyHandler) CreateSupply(w http.ResponseWriter, r *http.Request) {
	var supply types.Supply
	if err := json.NewDecoder(r.Body).Decode(&supply); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if strings.TrimSpace(supply.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	created, err := h.supplyService.Create(r.Context(), supply)
	if err != nil {
		writeInternalError(w, err, "failed to create supply")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *SupplyHandler) ListSupplies(w http.ResponseWriter, r *http.Request) {
	supplies, err := h.supplyService.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeInternalError(w, err, "failed to list supplies")
		return
	}

	writeJSON(w, http.StatusOK, supplies)
}

func (h *SupplyHandler) GetSupply(w http.ResponseWriter, r *http.Request) {
	id, err := parseSupplyID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	supply, err := h.supplyService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "supply not found")
			return
		}
		writeInternalError(w, err, "failed to fetch supply")
		return
	}

	writeJSON(w, http.StatusOK, supply)
}

func (h *SupplyHandler) UpdateSupply(w http.ResponseWriter, r *http.Request) {
	id, err := parseSupplyID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var supply types.Supply
	if err := json.NewDecoder(r.Body).Decode(&supply); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	supply.ID = id

	result, err := h.supplyService.Update(r.Context(), supply)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "supply not found")
			return
		}
		writeInternalError(w, err, "failed to update supply")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *SupplyHandler) DeleteSupply(w http.ResponseWriter, r *http.Request) {
	id, err := parseSupplyID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.supplyService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "supply not found")
			return
		}
		writeInternalError(w, err, "failed to delete supply")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "Supply deleted"})
}

// UploadPhoto stores a multipart listing photo in object storage and
// points the supply's image field at the new object.
func (h *SupplyHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if !h.supplyService.PhotoUploadsEnabled() {
		writeError(w, http.StatusNotImplemented, "photo uploads are not configured")
		return
	}

	id, err := parseSupplyID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := r.ParseMultipartForm(maxPhotoMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile(formFieldPhoto)
	if err != nil {
		writeError(w, http.StatusBadRequest, "photo file is required")
		return
	}
	defer file.Close()

	if header.Size > maxPhotoBytes {
		writeError(w, http.StatusBadRequest, "photo too large")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, "photo must be an image")
		return
	}

	key, err := h.supplyService.AttachPhoto(r.Context(), id, header.Filename, contentType, file, header.Size)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "supply not found")
			return
		}
		writeInternalError(w, err, "failed to store photo")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"image": key})
}

func parseSupplyID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "supplyID"))
	if err != nil || id < 1 {
		return 0, errors.New("invalid supply id")
	}
	return id, nil
}
