package token

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the mint and redeem endpoints, wrapped by the
// caller-supplied rate limiter.
func (h *Handler) Routes(rateLimit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	if rateLimit != nil {
		r.Use(rateLimit)
	}
	r.Post("/", h.Mint)
	r.Post("/redeem", h.Redeem)
	return r
}
