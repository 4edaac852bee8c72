package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/hszk-dev/gotube/internal/api/middleware"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/usecase"
)

type LikeResponse struct {
	TargetKind string `json:"target_kind"`
	TargetID   string `json:"target_id"`
	Liked      bool   `json:"liked"`
}

// LikeHandler handles like toggling on videos and comments.
type LikeHandler struct {
	svc usecase.LikeService
}

// NewLikeHandler creates a new LikeHandler.
func NewLikeHandler(svc usecase.LikeService) *LikeHandler {
	return &LikeHandler{svc: svc}
}

// ToggleVideo handles POST /v1/videos/{id}/like
func (h *LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, model.VideoTarget)
}

// ToggleComment handles POST /v1/comments/{id}/like
func (h *LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, model.CommentTarget)
}

func (h *LikeHandler) toggle(w http.ResponseWriter, r *http.Request, target func(uuid.UUID) model.Target) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	principal, _ := middleware.GetPrincipal(r.Context())
	t := target(id)

	liked, err := h.svc.ToggleLike(r.Context(), principal, t)
	if err != nil {
		ServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, LikeResponse{
		TargetKind: t.Kind.String(),
		TargetID:   t.ID.String(),
		Liked:      liked,
	})
}
