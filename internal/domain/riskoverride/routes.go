package riskoverride

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the single override endpoint. The caller wires network
// or middleware-level access control in front of this router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Apply)
	return r
}
