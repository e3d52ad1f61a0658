package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mwork/mwork-api/internal/pkg/apperror"
	"github.com/mwork/mwork-api/internal/pkg/jwt"
)

type agentIDKey struct{}

// AgentAuth validates the bearer JWT identifying the calling cash-dispensing
// agent (ATM/teller terminal). The agent identity is a service principal,
// distinct from the account holder — account/user authentication itself is
// handled elsewhere. Requests without a bearer token
// fall through unauthenticated. The authenticated agent ID is exposed via
// AuthenticatedAgentID; the redeem handler does not compare it with the
// agentId supplied in the request body.
func AgentAuth(jwtService *jwt.AgentService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				apperror.Write(r.Context(), w, apperror.Unauthorized("invalid authorization header format", nil))
				return
			}

			claims, err := jwtService.ValidateAgentToken(parts[1])
			if err != nil {
				apperror.Write(r.Context(), w, apperror.Unauthorized("invalid or expired agent token", err))
				return
			}

			ctx := context.WithValue(r.Context(), agentIDKey{}, claims.AgentID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthenticatedAgentID returns the agent ID bound by AgentAuth, or "" if
// the request carried no bearer token.
func AuthenticatedAgentID(ctx context.Context) string {
	if id, ok := ctx.Value(agentIDKey{}).(string); ok {
		return id
	}
	return ""
}
