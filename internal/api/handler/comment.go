package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hszk-dev/gotube/internal/api/middleware"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/usecase"
)

type CommentRequest struct {
	Content string `json:"content"`
}

type CommentResponse struct {
	ID        string `json:"id"`
	VideoID   string `json:"video_id"`
	OwnerID   string `json:"owner_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type OwnerResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

type CommentViewResponse struct {
	ID         string        `json:"id"`
	Content    string        `json:"content"`
	CreatedAt  string        `json:"created_at"`
	Owner      OwnerResponse `json:"owner"`
	LikesCount int64         `json:"likes_count"`
	IsLiked    bool          `json:"is_liked"`
}

// CommentHandler handles comment-related HTTP requests.
type CommentHandler struct {
	svc usecase.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(svc usecase.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// List handles GET /v1/videos/{id}/comments?page=&limit=
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	videoID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	page, ok := intQuery(w, r, "page", 1)
	if !ok {
		return
	}
	limit, ok := intQuery(w, r, "limit", model.MaxPageSize)
	if !ok {
		return
	}
	viewer, _ := middleware.GetPrincipal(r.Context())

	result, err := h.svc.ListVideoComments(r.Context(), videoID, viewer, model.PageRequest{Page: page, PageSize: limit})
	if err != nil {
		ServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, toPageResponse(result, toCommentViewResponse))
}

// Add handles POST /v1/videos/{id}/comments
func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	videoID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	req, ok := decodeComment(w, r)
	if !ok {
		return
	}
	principal, _ := middleware.GetPrincipal(r.Context())

	comment, err := h.svc.AddComment(r.Context(), videoID, principal, req.Content)
	if err != nil {
		ServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusCreated, toCommentResponse(comment))
}

// Update handles PATCH /v1/comments/{id}
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	req, ok := decodeComment(w, r)
	if !ok {
		return
	}
	principal, _ := middleware.GetPrincipal(r.Context())

	comment, err := h.svc.UpdateComment(r.Context(), commentID, principal, req.Content)
	if err != nil {
		ServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, toCommentResponse(comment))
}

// Delete handles DELETE /v1/comments/{id}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	principal, _ := middleware.GetPrincipal(r.Context())

	report, err := h.svc.DeleteComment(r.Context(), commentID, principal)
	if err != nil {
		ServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, toCascadeReportResponse(report))
}

func decodeComment(w http.ResponseWriter, r *http.Request) (CommentRequest, bool) {
	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		invalidArgument(w, "Invalid JSON body")
		return req, false
	}
	return req, true
}

func toCommentResponse(c *model.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID.String(),
		VideoID:   c.VideoID.String(),
		OwnerID:   c.OwnerID.String(),
		Content:   c.Content,
		CreatedAt: c.CreatedAt.Format(timeFormat),
		UpdatedAt: c.UpdatedAt.Format(timeFormat),
	}
}

func toCommentViewResponse(c *model.CommentView) CommentViewResponse {
	return CommentViewResponse{
		ID:        c.ID.String(),
		Content:   c.Content,
		CreatedAt: c.CreatedAt.Format(timeFormat),
		Owner: OwnerResponse{
			ID:        c.Owner.ID.String(),
			Username:  c.Owner.Username,
			AvatarURL: c.Owner.AvatarURL,
		},
		LikesCount: c.LikesCount,
		IsLiked:    c.IsLiked,
	}
}
