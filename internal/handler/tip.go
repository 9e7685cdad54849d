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

// TipHandler serves the community tip endpoints.
type TipHandler struct {
	tips   *service.TipService
	logger *slog.Logger
}

// NewTipHandler creates a TipHandler.
func NewTipHandler(tips *service.TipService, logger *slog.Logger) *TipHandler {
	return &TipHandler{tips: tips, logger: logger}
}

// HandleList returns all tips, pinned first.
//
// GET /api/tips
func (h *TipHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	tips, err := h.tips.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tips)
}

// HandleCreate posts a new tip.
//
// POST /api/tips
func (h *TipHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req model.CreateTipRequest
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

	tip, err := h.tips.Create(r.Context(), userID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tip)
}

// HandleLike likes a tip; repeated likes are a no-op.
//
// POST /api/tips/{id}/like
func (h *TipHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	tipID := chi.URLParam(r, "id")

	tip, err := h.tips.Like(r.Context(), tipID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tip)
}

// HandleUnlike withdraws the caller's like.
//
// DELETE /api/tips/{id}/like
func (h *TipHandler) HandleUnlike(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	tipID := chi.URLParam(r, "id")

	tip, err := h.tips.Unlike(r.Context(), tipID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tip)
}
