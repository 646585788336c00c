package cycle

import (
	"errors"
	"net/http"

	"github.com/selene-app/selene-api/internal/config"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Rollover(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	c, err := h.service.Rollover(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoActiveTemplate) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		log.WithError(err).Error("Rollover failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusCreated, c)
}

func (h *Handler) Active(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	c, err := h.service.Active(r.Context())
	if err != nil {
		if errors.Is(err, ErrCycleNotFound) {
			http.Error(w, "no active cycle", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to get active cycle")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, c)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	cycles, err := h.service.List(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list cycles")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, cycles)
}
