package template

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.CreateTemplate)
	r.Get("/", h.ListTemplates)
	r.Get("/{id}", h.GetTemplate)
	r.Post("/{id}/activate", h.ActivateTemplate)

	r.Post("/tasks", h.CreateTask)
	r.Get("/tasks/{id}", h.GetTask)
	r.Put("/tasks/{id}", h.UpdateTask)
	r.Delete("/tasks/{id}", h.DeleteTask)

	return r
}
