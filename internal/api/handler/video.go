package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hszk-dev/gotube/internal/api/middleware"
	"github.com/hszk-dev/gotube/internal/domain/model"
	"github.com/hszk-dev/gotube/internal/usecase"
)

// Request/Response types

type AssetResponse struct {
	URL string `json:"url"`
	ID  string `json:"id"`
}

type VideoResponse struct {
	ID          string        `json:"id"`
	OwnerID     string        `json:"owner_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	VideoFile   AssetResponse `json:"video_file"`
	Thumbnail   AssetResponse `json:"thumbnail"`
	Duration    float64       `json:"duration"`
	IsPublished bool          `json:"is_published"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
}

type CascadeReportResponse struct {
	ID                    string   `json:"id"`
	Complete              bool     `json:"complete"`
	AssetsFailed          int      `json:"assets_failed"`
	LikesRemoved          int64    `json:"likes_removed"`
	CommentLikesRemoved   int64    `json:"comment_likes_removed"`
	CommentsRemoved       int64    `json:"comments_removed"`
	PlaylistsUpdated      int      `json:"playlists_updated"`
	WatchHistoriesUpdated int      `json:"watch_histories_updated"`
	FailedSteps           []string `json:"failed_steps,omitempty"`
	SkippedSteps          []string `json:"skipped_steps,omitempty"`
}

// VideoHandlerConfig holds upload limits for VideoHandler.
type VideoHandlerConfig struct {
	MaxUploadBytes int64
	TempDir        string
}

// VideoHandler handles video-related HTTP requests.
type VideoHandler struct {
	svc usecase.VideoService
	cfg VideoHandlerConfig
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(svc usecase.VideoService, cfg VideoHandlerConfig) *VideoHandler {
	return &VideoHandler{svc: svc, cfg: cfg}
}

// Publish handles POST /v1/videos (multipart: title, description, videoFile, thumbnail)
func (h *VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())

	if err := parseMultipart(w, r, h.cfg.MaxUploadBytes); err != nil {
		invalidArgument(w, "request must be multipart/form-data within the upload limit")
		return
	}

	files := &uploads{dir: h.cfg.TempDir}
	defer files.cleanup()

	videoPath, err := files.save(r, "videoFile")
	if err != nil {
		invalidArgument(w, "could not read videoFile")
		return
	}
	thumbnailPath, err := files.save(r, "thumbnail")
	if err != nil {
		invalidArgument(w, "could not read thumbnail")
		return
	}

	video, err := h.svc.PublishVideo(r.Context(), usecase.PublishVideoInput{
		OwnerID:       principal,
		Title:         r.FormValue("title"),
		Description:   r.FormValue("description"),
		VideoPath:     videoPath,
		ThumbnailPath: thumbnailPath,
	})
	if err != nil {
		ServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusCreated, toVideoResponse(video))
}

// Get handles GET /v1/videos/{id}
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	videoID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	viewer, _ := middleware.GetPrincipal(r.Context())

	video, err := h.svc.GetVideo(r.Context(), videoID, viewer)
	if err != nil {
		ServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, toVideoResponse(video))
}

// Update handles PATCH /v1/videos/{id} (multipart: optional title, description, thumbnail)
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	videoID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	principal, _ := middleware.GetPrincipal(r.Context())

	if err := parseMultipart(w, r, h.cfg.MaxUploadBytes); err != nil {
		invalidArgument(w, "request must be multipart/form-data within the upload limit")
		return
	}

	files := &uploads{dir: h.cfg.TempDir}
	defer files.cleanup()

	thumbnailPath, err := files.save(r, "thumbnail")
	if err != nil {
		invalidArgument(w, "could not read thumbnail")
		return
	}

	video, err := h.svc.UpdateVideo(r.Context(), usecase.UpdateVideoInput{
		VideoID:       videoID,
		Principal:     principal,
		Title:         optionalFormValue(r, "title"),
		Description:   optionalFormValue(r, "description"),
		ThumbnailPath: thumbnailPath,
	})
	if err != nil {
		ServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, toVideoResponse(video))
}

// TogglePublish handles PATCH /v1/videos/{id}/publish
func (h *VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	videoID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	principal, _ := middleware.GetPrincipal(r.Context())

	video, err := h.svc.TogglePublishStatus(r.Context(), videoID, principal)
	if err != nil {
		ServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, toVideoResponse(video))
}

// Delete handles DELETE /v1/videos/{id}
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	videoID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	principal, _ := middleware.GetPrincipal(r.Context())

	report, err := h.svc.DeleteVideo(r.Context(), videoID, principal)
	if err != nil {
		ServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, toCascadeReportResponse(report))
}

// Search handles GET /v1/videos?userId=&query=&sortBy=&sortType=&page=&limit=
func (h *VideoHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	ownerID, err := uuid.Parse(q.Get("userId"))
	if err != nil {
		invalidArgument(w, "userId must be a valid UUID")
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

	result, err := h.svc.SearchVideos(r.Context(), usecase.SearchVideosInput{
		OwnerID:  ownerID,
		Query:    q.Get("query"),
		SortBy:   q.Get("sortBy"),
		SortType: q.Get("sortType"),
		Page:     page,
		PageSize: limit,
	})
	if err != nil {
		ServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, toPageResponse(result, toVideoResponse))
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		invalidArgument(w, param+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func intQuery(w http.ResponseWriter, r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		invalidArgument(w, name+" must be an integer")
		return 0, false
	}
	return n, true
}

func toVideoResponse(v *model.Video) VideoResponse {
	return VideoResponse{
		ID:          v.ID.String(),
		OwnerID:     v.OwnerID.String(),
		Title:       v.Title,
		Description: v.Description,
		VideoFile:   AssetResponse{URL: v.VideoFile.URL, ID: v.VideoFile.ID},
		Thumbnail:   AssetResponse{URL: v.Thumbnail.URL, ID: v.Thumbnail.ID},
		Duration:    v.Duration,
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt.Format(timeFormat),
		UpdatedAt:   v.UpdatedAt.Format(timeFormat),
	}
}

func toCascadeReportResponse(r *usecase.CascadeReport) CascadeReportResponse {
	resp := CascadeReportResponse{
		ID:                    r.EntityID.String(),
		Complete:              r.Complete(),
		AssetsFailed:          r.AssetsFailed,
		LikesRemoved:          r.LikesRemoved,
		CommentLikesRemoved:   r.CommentLikesRemoved,
		CommentsRemoved:       r.CommentsRemoved,
		PlaylistsUpdated:      r.PlaylistsUpdated,
		WatchHistoriesUpdated: r.WatchHistoriesUpdated,
	}
	for _, f := range r.Failures {
		resp.FailedSteps = append(resp.FailedSteps, string(f.Step))
	}
	for _, s := range r.Skipped {
		resp.SkippedSteps = append(resp.SkippedSteps, string(s))
	}
	return resp
}
