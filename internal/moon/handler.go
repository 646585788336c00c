package moon

import (
	"net/http"

	"github.com/selene-app/selene-api/internal/clock"
	"github.com/selene-app/selene-api/internal/config"
)

type Handler struct {
	oracle Oracle
	clock  clock.Clock
}

func NewHandler(oracle Oracle, clk clock.Clock) *Handler {
	return &Handler{oracle: oracle, clock: clk}
}

// Current reports the phase and window state for "now".
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	config.JSON(w, http.StatusOK, h.oracle.At(h.clock.Now()))
}
