package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devhuddle/doubtboard/internal/auth"
	"github.com/devhuddle/doubtboard/internal/model"
	"github.com/devhuddle/doubtboard/internal/service"
)

// CommentHandler serves comment and vote endpoints.
type CommentHandler struct {
	comments *service.CommentService
	logger   *slog.Logger
}

// NewCommentHandler creates a CommentHandler.
func NewCommentHandler(comments *service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, logger: logger}
}

// HandleListByPost returns a post's comments, newest first.
//
// GET /api/posts/{id}/comments
func (h *CommentHandler) HandleListByPost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")

	comments, err := h.comments.ListByPost(r.Context(), postID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comments)
}

// HandleCreate adds a comment under a post.
//
// POST /api/posts/{id}/comments
func (h *CommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	postID := chi.URLParam(r, "id")

	var req model.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.comments.Create(r.Context(), postID, userID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

// HandleVote records a vote on a comment.
//
// POST /api/comments/{id}/vote
func (h *CommentHandler) HandleVote(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	commentID := chi.URLParam(r, "id")

	var req model.VoteCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.comments.Vote(r.Context(), commentID, userID, req.VoteType); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "voted"})
}

// HandleRemoveVote clears the caller's votes on a comment.
//
// DELETE /api/comments/{id}/vote
func (h *CommentHandler) HandleRemoveVote(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	commentID := chi.URLParam(r, "id")

	if err := h.comments.RemoveVote(r.Context(), commentID, userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "vote removed"})
}
