package stats

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.GetStatistics)
	r.Get("/velocity", h.Velocity)
	r.Get("/suggestions", h.Suggestions)

	return r
}
