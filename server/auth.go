package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/taskmaster-ai/taskmaster-agent/pkg/authgate"
)

type identityKey struct{}

func identityFrom(ctx context.Context) (authgate.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(authgate.Identity)
	return id, ok
}

// requireIdentity resolves the bearer token and stashes the verified identity
// in the request context. Everything under /api sits behind it.
func (s *Server) requireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			respondError(w, http.StatusUnauthorized, "missing_token", "Authorization: Bearer token is required")
			return
		}

		identity, err := s.verifier.Verify(r.Context(), token)
		if err != nil {
			if errors.Is(err, authgate.ErrUnauthorized) {
				respondError(w, http.StatusUnauthorized, "invalid_token", "token rejected")
				return
			}
			log.Error().Err(err).Msg("token verification failed")
			respondError(w, http.StatusBadGateway, "auth_unavailable", "could not verify token")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey{}, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireUserMatch rejects requests whose {userID} path segment does not
// belong to the verified identity.
func (s *Server) requireUserMatch(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFrom(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "missing_identity", "no verified identity")
			return
		}
		if chi.URLParam(r, "userID") != identity.UserID {
			respondError(w, http.StatusForbidden, "user_mismatch", "path user does not match token identity")
			return
		}
		next.ServeHTTP(w, r)
	})
}
