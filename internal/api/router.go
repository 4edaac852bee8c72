package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hszk-dev/gotube/internal/api/handler"
	"github.com/hszk-dev/gotube/internal/api/middleware"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Health   *handler.HealthHandler
	Videos   *handler.VideoHandler
	Comments *handler.CommentHandler
	Likes    *handler.LikeHandler
}

// NewRouter builds the API routes. Reads accept anonymous callers; every
// mutation requires the X-User-ID header.
func NewRouter(logger *slog.Logger, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Get("/health", h.Health.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Principal)

		r.Get("/videos", h.Videos.Search)
		r.Get("/videos/{id}", h.Videos.Get)
		r.Get("/videos/{id}/comments", h.Comments.List)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePrincipal)

			r.Post("/videos", h.Videos.Publish)
			r.Patch("/videos/{id}", h.Videos.Update)
			r.Patch("/videos/{id}/publish", h.Videos.TogglePublish)
			r.Delete("/videos/{id}", h.Videos.Delete)
			r.Post("/videos/{id}/like", h.Likes.ToggleVideo)
			r.Post("/videos/{id}/comments", h.Comments.Add)

			r.Patch("/comments/{id}", h.Comments.Update)
			r.Delete("/comments/{id}", h.Comments.Delete)
			r.Post("/comments/{id}/like", h.Likes.ToggleComment)
		})
	})

	return r
}
