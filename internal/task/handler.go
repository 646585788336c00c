package task

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/selene-app/selene-api/internal/config"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
	repo    Repository
}

func NewHandler(service Service, repo Repository) *Handler {
	return &Handler{service: service, repo: repo}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto CreateTaskDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	t, err := h.service.Create(r.Context(), dto)
	if err != nil {
		writeTaskError(w, log, err, "Failed to create task")
		return
	}

	config.JSON(w, http.StatusCreated, t)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeTaskError(w, log, err, "Failed to get task")
		return
	}

	config.JSON(w, http.StatusOK, t)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var dto UpdateTaskDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	t, err := h.service.Update(r.Context(), id, dto)
	if err != nil {
		writeTaskError(w, log, err, "Failed to update task")
		return
	}

	config.JSON(w, http.StatusOK, t)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeTaskError(w, log, err, "Failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListCurrent(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	tasks, err := h.service.ListCurrent(r.Context())
	if err != nil {
		writeTaskError(w, log, err, "Failed to list current tasks")
		return
	}

	config.JSON(w, http.StatusOK, tasks)
}

func (h *Handler) ListBacklog(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	tasks, err := h.service.ListBacklog(r.Context())
	if err != nil {
		writeTaskError(w, log, err, "Failed to list backlog tasks")
		return
	}

	config.JSON(w, http.StatusOK, tasks)
}

func (h *Handler) ListFocused(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	tasks, err := h.service.ListFocused(r.Context())
	if err != nil {
		writeTaskError(w, log, err, "Failed to list focused tasks")
		return
	}

	config.JSON(w, http.StatusOK, tasks)
}

func (h *Handler) SetCompletions(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var dto SetCompletionsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	t, err := h.service.SetCompletions(r.Context(), id, dto.Completions)
	if err != nil {
		writeTaskError(w, log, err, "Failed to set task completions")
		return
	}

	config.JSON(w, http.StatusOK, t)
}

func (h *Handler) AddCompletion(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	t, err := h.service.AddCompletion(r.Context(), id)
	if err != nil {
		writeTaskError(w, log, err, "Failed to add task completion")
		return
	}

	config.JSON(w, http.StatusOK, t)
}

type createScheduleDTO struct {
	Date time.Time `json:"date"`
}

func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, ok := taskID(w, r)
	if !ok {
		return
	}
	if _, err := h.service.Get(r.Context(), id); err != nil {
		writeTaskError(w, log, err, "Failed to find task for schedule")
		return
	}

	var dto createScheduleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil || dto.Date.IsZero() {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s := TaskSchedule{ID: uuid.New(), TaskID: id, Date: dto.Date}
	if err := h.repo.CreateSchedule(&s); err != nil {
		log.WithError(err).Error("Failed to create task schedule")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusCreated, s)
}

func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	schedules, err := h.repo.ListSchedules(id)
	if err != nil {
		log.WithError(err).Error("Failed to list task schedules")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, schedules)
}

func taskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeTaskError(w http.ResponseWriter, log *logrus.Entry, err error, msg string) {
	switch {
	case errors.Is(err, ErrTaskNotFound), errors.Is(err, ErrCategoryNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrTitleRequired), errors.Is(err, ErrFutureCompletion):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrTargetExceeded):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrAlreadyComplete), errors.Is(err, ErrNoActiveCycle):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.WithError(err).Error(msg)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
