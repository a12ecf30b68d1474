package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"levelup_api/internal/auth"
)

type AuthMiddleware struct {
	resolver auth.Resolver
	log      *slog.Logger
}

func NewAuthMiddleware(resolver auth.Resolver, log *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver, log: log}
}

// RequireIdentity rejects requests whose credentials do not resolve to a
// gamer identity.
func (m *AuthMiddleware) RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := m.resolver.Resolve(r)
		if err != nil {
			m.log.Debug("unauthorized request",
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "unauthorized"})
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	})
}

// OptionalIdentity attaches the identity when the credentials resolve and
// lets the request through anonymously otherwise.
func (m *AuthMiddleware) OptionalIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, err := m.resolver.Resolve(r); err == nil {
			r = r.WithContext(auth.WithIdentity(r.Context(), id))
		}

		next.ServeHTTP(w, r)
	})
}
