package server

import (
	"context"
	"net/http"
	"strings"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeySubjectID stores the authenticated account id
const ContextKeySubjectID ContextKey = "subject_id"

// SubjectID returns the authenticated account id resolved by
// RequireAuth, if any.
func SubjectID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ContextKeySubjectID).(string)
	return id, ok
}

// RequireAuth is middleware that validates a Bearer session token and
// injects the subject id into the request context. Any codec rejection
// stops the request with a 401 before the wrapped handler runs.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			subjectID, err := s.codec.Verify(parts[1])
			if err != nil {
				writeError(w, http.StatusUnauthorized, "not authorized")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySubjectID, subjectID)
			next(w, r.WithContext(ctx))
		}
	}
}
