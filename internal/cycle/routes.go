package cycle

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/active", h.Active)
	r.Post("/rollover", h.Rollover)

	return r
}
