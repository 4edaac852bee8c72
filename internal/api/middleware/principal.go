package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// PrincipalHeader carries the authenticated user id set by the upstream gateway.
const PrincipalHeader = "X-User-ID"

type principalKey struct{}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Principal reads the acting user from PrincipalHeader. A missing header
// leaves the request anonymous; a malformed one is rejected.
func Principal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(PrincipalHeader)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil || id == uuid.Nil {
			unauthorized(w, "X-User-ID must be a valid user id")
			return
		}

		ctx := context.WithValue(r.Context(), principalKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePrincipal rejects anonymous requests. It must be used after Principal.
func RequirePrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetPrincipal(r.Context()); !ok {
			unauthorized(w, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetPrincipal returns the acting user, if any.
func GetPrincipal(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(principalKey{}).(uuid.UUID)
	return id, ok
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: "UNAUTHENTICATED", Message: message})
}
