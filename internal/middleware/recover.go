package middleware

import (
	"net/http"

	"github.com/mwork/mwork-api/internal/pkg/apperror"
)

// Recover recovers from panics in downstream handlers, logging the stack
// trace and returning a generic 500 instead of crashing the process.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				apperror.WritePanic(r.Context(), w, err)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
