package stats

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/selene-app/selene-api/internal/config"
	"github.com/selene-app/selene-api/internal/template"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	stats, err := h.service.GetStatistics(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to compute statistics")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, stats)
}

func (h *Handler) Velocity(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var categoryID *uuid.UUID
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid category_id", http.StatusBadRequest)
			return
		}
		categoryID = &id
	}

	v, err := h.service.VelocityByMonth(r.Context(), categoryID)
	if err != nil {
		log.WithError(err).Error("Failed to compute velocity")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, v)
}

func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	suggestions, err := h.service.SuggestionsForTemplate(r.Context())
	if err != nil {
		if errors.Is(err, template.ErrNotFound) {
			http.Error(w, "no active template", http.StatusConflict)
			return
		}
		log.WithError(err).Error("Failed to compute target suggestions")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, suggestions)
}
