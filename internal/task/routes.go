package task

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/current", h.ListCurrent)
	r.Get("/backlog", h.ListBacklog)
	r.Get("/focused", h.ListFocused)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	r.Put("/{id}/completions", h.SetCompletions)
	r.Post("/{id}/completions", h.AddCompletion)

	r.Post("/{id}/schedules", h.CreateSchedule)
	r.Get("/{id}/schedules", h.ListSchedules)

	return r
}
