package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hszk-dev/gotube/internal/api/middleware"
	"github.com/hszk-dev/gotube/internal/apperrors"
	"github.com/hszk-dev/gotube/internal/domain/model"
)

const timeFormat = time.RFC3339

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
		}
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func Error(w http.ResponseWriter, status int, err string, message string) {
	JSON(w, status, ErrorResponse{
		Error:   err,
		Message: message,
	})
}

// ServiceError writes err using its kind. Unclassified errors are logged
// and reported without their internal message.
func ServiceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperrors.KindOf(err)
	status := apperrors.HTTPStatus(kind)

	if status >= http.StatusInternalServerError {
		attrs := append(middleware.RequestAttrs(r.Context()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		slog.LogAttrs(r.Context(), slog.LevelError, "request failed", attrs...)
	}

	Error(w, status, kind.String(), apperrors.MessageOf(err))
}

func invalidArgument(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, apperrors.KindInvalidArgument.String(), message)
}

// PageResponse is the wire form of a paginated listing.
type PageResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func toPageResponse[S, T any](p *model.Page[S], convert func(S) T) PageResponse[T] {
	items := make([]T, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, convert(item))
	}
	return PageResponse[T]{
		Items:      items,
		TotalCount: p.TotalCount,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages(),
	}
}
