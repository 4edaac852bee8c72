package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestPrincipal(t *testing.T) {
	valid := uuid.New()

	tests := []struct {
		name          string
		header        string
		require       bool
		wantStatus    int
		wantPrincipal uuid.UUID
	}{
		{name: "valid header", header: valid.String(), wantStatus: http.StatusOK, wantPrincipal: valid},
		{name: "anonymous read", header: "", wantStatus: http.StatusOK},
		{name: "anonymous write", header: "", require: true, wantStatus: http.StatusUnauthorized},
		{name: "malformed header", header: "not-a-uuid", wantStatus: http.StatusUnauthorized},
		{name: "nil uuid", header: uuid.Nil.String(), wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got uuid.UUID
			var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = GetPrincipal(r.Context())
				w.WriteHeader(http.StatusOK)
			})
			if tt.require {
				handler = RequirePrincipal(handler)
			}
			handler = Principal(handler)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(PrincipalHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got != tt.wantPrincipal {
				t.Errorf("principal = %v, want %v", got, tt.wantPrincipal)
			}
		})
	}
}
