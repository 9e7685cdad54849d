package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/devhuddle/doubtboard/internal/auth"
	"github.com/devhuddle/doubtboard/internal/model"
	"github.com/devhuddle/doubtboard/internal/service"
)

// PostHandler serves the doubt post endpoints.
type PostHandler struct {
	posts  *service.PostService
	images *ImageStore
	logger *slog.Logger
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(posts *service.PostService, images *ImageStore, logger *slog.Logger) *PostHandler {
	return &PostHandler{posts: posts, images: images, logger: logger}
}

// HandleList returns posts, optionally filtered.
//
// GET /api/posts?category=backend&resolved=false&search=xray
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var filters model.PostFilters

	q := r.URL.Query()
	filters.Category = q.Get("category")
	filters.Search = q.Get("search")
	switch strings.ToLower(q.Get("resolved")) {
	case "true":
		v := true
		filters.Resolved = &v
	case "false":
		v := false
		filters.Resolved = &v
	}

	posts, err := h.posts.List(r.Context(), filters)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// HandleGet returns one post.
//
// GET /api/posts/{id}
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleCreate creates a post from a multipart form with fields title,
// description, category and an optional image part.
//
// POST /api/posts
//
// The whole request body is capped just above the image limit so a
// runaway upload fails fast instead of filling the disk.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, MaxImageSize+1<<20)
	if err := r.ParseMultipartForm(MaxImageSize); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid multipart form (is the image under 10MB?)",
		})
		return
	}

	req := model.CreatePostRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
	}
	if err := validateStruct(req); err != nil {
		writeError(w, err)
		return
	}

	var imageURL string
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		imageURL, err = h.images.Save(file, header)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	post, err := h.posts.Create(r.Context(), userID, req, imageURL)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// HandleToggleResolved flips the post's resolved flag for its creator.
//
// PATCH /api/posts/{id}/resolve
func (h *PostHandler) HandleToggleResolved(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	post, err := h.posts.ToggleResolved(r.Context(), id, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}
