package template

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/selene-app/selene-api/internal/category"
	"github.com/selene-app/selene-api/internal/config"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto CreateTemplateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	t, err := h.service.CreateTemplate(r.Context(), dto)
	if err != nil {
		writeTemplateError(w, log, err, "Failed to create template")
		return
	}

	config.JSON(w, http.StatusCreated, t)
}

func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	t, err := h.service.GetTemplate(r.Context(), id)
	if err != nil {
		writeTemplateError(w, log, err, "Failed to get template")
		return
	}

	config.JSON(w, http.StatusOK, t)
}

func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	templates, err := h.service.ListTemplates(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list templates")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, templates)
}

func (h *Handler) ActivateTemplate(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.ActivateTemplate(r.Context(), id); err != nil {
		writeTemplateError(w, log, err, "Failed to activate template")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto CreateTemplateTaskDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	tt, err := h.service.CreateTask(r.Context(), dto)
	if err != nil {
		writeTemplateError(w, log, err, "Failed to create template task")
		return
	}

	config.JSON(w, http.StatusCreated, tt)
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	tt, err := h.service.GetTask(r.Context(), id)
	if err != nil {
		writeTemplateError(w, log, err, "Failed to get template task")
		return
	}

	config.JSON(w, http.StatusOK, tt)
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var dto UpdateTemplateTaskDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	tt, err := h.service.UpdateTask(r.Context(), id, dto)
	if err != nil {
		writeTemplateError(w, log, err, "Failed to update template task")
		return
	}

	config.JSON(w, http.StatusOK, tt)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteTask(r.Context(), id); err != nil {
		writeTemplateError(w, log, err, "Failed to delete template task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeTemplateError(w http.ResponseWriter, log *logrus.Entry, err error, msg string) {
	switch {
	case errors.Is(err, ErrTemplateNotFound),
		errors.Is(err, ErrTemplateTaskNotFound),
		errors.Is(err, category.ErrCategoryNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrTitleRequired),
		errors.Is(err, ErrInvalidStoryPoints),
		errors.Is(err, ErrInvalidTargetCount),
		errors.Is(err, ErrInvalidGoal):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.WithError(err).Error(msg)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
