package adaptor

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/korey-h/api-yamdb/internal/dto/request"
	"github.com/korey-h/api-yamdb/internal/usecase"
	"github.com/korey-h/api-yamdb/pkg/utils"
)

type CommentHandler struct {
	service usecase.CommentService
	log     *zap.Logger
}

func NewCommentHandler(service usecase.CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{
		service: service,
		log:     log.With(zap.String("handler", "comment")),
	}
}

// commentPath holds the ids shared by every comment route.
type commentPath struct {
	titleID  int64
	reviewID int64
}

func (h *CommentHandler) parsePath(w http.ResponseWriter, r *http.Request) (commentPath, bool) {
	titleID, ok := pathID(w, r, "title_id")
	if !ok {
		return commentPath{}, false
	}
	reviewID, ok := pathID(w, r, "review_id")
	if !ok {
		return commentPath{}, false
	}
	return commentPath{titleID: titleID, reviewID: reviewID}, true
}

// GetReviewComments handles GET /v1/titles/{title_id}/reviews/{review_id}/comments (public)
func (h *CommentHandler) GetReviewComments(w http.ResponseWriter, r *http.Request) {
	path, ok := h.parsePath(w, r)
	if !ok {
		return
	}

	req := parsePagination(r)
	comments, err := h.service.GetReviewComments(r.Context(), path.titleID, path.reviewID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "list comments")
		return
	}

	utils.ResponseSuccess(w, "success", comments)
}

// GetComment handles GET .../comments/{comment_id} (public)
func (h *CommentHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	path, ok := h.parsePath(w, r)
	if !ok {
		return
	}
	commentID, ok := pathID(w, r, "comment_id")
	if !ok {
		return
	}

	comment, err := h.service.GetComment(r.Context(), path.titleID, path.reviewID, commentID)
	if err != nil {
		handleServiceError(h.log, w, err, "get comment")
		return
	}

	utils.ResponseSuccess(w, "success", comment)
}

// CreateComment handles POST .../comments (authenticated)
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	path, ok := h.parsePath(w, r)
	if !ok {
		return
	}

	var req request.CreateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.service.CreateComment(r.Context(), actor, path.titleID, path.reviewID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create comment")
		return
	}

	utils.ResponseCreated(w, "Comment created", comment)
}

// UpdateComment handles PATCH .../comments/{comment_id} (author, moderator, admin)
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	path, ok := h.parsePath(w, r)
	if !ok {
		return
	}
	commentID, ok := pathID(w, r, "comment_id")
	if !ok {
		return
	}

	var req request.UpdateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.service.UpdateComment(r.Context(), actor, path.titleID, path.reviewID, commentID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update comment")
		return
	}

	utils.ResponseSuccess(w, "Comment updated", comment)
}

// DeleteComment handles DELETE .../comments/{comment_id} (author, moderator, admin)
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	path, ok := h.parsePath(w, r)
	if !ok {
		return
	}
	commentID, ok := pathID(w, r, "comment_id")
	if !ok {
		return
	}

	if err := h.service.DeleteComment(r.Context(), actor, path.titleID, path.reviewID, commentID); err != nil {
		handleServiceError(h.log, w, err, "delete comment")
		return
	}

	utils.ResponseNoContent(w)
}
