package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/xid"

	"github.com/sakif/second-brain/internal/apperror"
	"github.com/sakif/second-brain/internal/model"
	"github.com/sakif/second-brain/internal/service"
)

// ContentService is what ContentHandler needs from service.ContentService.
type ContentService interface {
	Create(ctx context.Context, ownerID string, in service.ContentInput) (*model.Content, error)
	List(ctx context.Context, ownerID string, filter model.ContentFilter) ([]model.Content, error)
	Update(ctx context.Context, id, ownerID string, patch service.ContentPatch) (*model.Content, error)
	Delete(ctx context.Context, id, ownerID string) (string, error)
	Counts(ctx context.Context, ownerID string) (*model.ContentCounts, error)
}

// ContentHandler serves the owner-scoped content routes. Every route sits
// behind auth.RequireAuth; the owner always comes from the token, never from
// the request body or URL.
type ContentHandler struct {
	content ContentService
	logger  *slog.Logger
}

func NewContentHandler(content ContentService, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{content: content, logger: logger}
}

type contentResponse struct {
	Message string         `json:"message"`
	Content *model.Content `json:"content"`
}

type contentListResponse struct {
	Message string          `json:"message"`
	Content []model.Content `json:"content"`
}

type deleteResponse struct {
	Message   string `json:"message"`
	Success   bool   `json:"success"`
	DeletedID string `json:"deletedId"`
}

type countsResponse struct {
	Message string               `json:"message"`
	Counts  *model.ContentCounts `json:"counts"`
}

// HandleCreate saves a new item for the caller.
//
// HTTP: POST /api/v1/content
// REQUEST BODY: {"type": "youtube", "title": "...", "link": "https://...", "content": "...", "paraCategory": "projects"}
func (h *ContentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var in service.ContentInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	content, err := h.content.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, contentResponse{Message: "Content created", Content: content})
}

// HandleList returns the caller's items, newest first.
//
// HTTP: GET /api/v1/content?category=projects&platform=youtube
//
// Both query parameters are optional. An empty collection is a 200 with an
// empty array.
func (h *ContentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := model.ContentFilter{
		Category: model.Category(strings.TrimSpace(query.Get("category"))),
		Type:     query.Get("platform"),
	}

	items, err := h.content.List(r.Context(), userID, filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, contentListResponse{Message: "Content fetched", Content: items})
}

// HandleUpdate changes the fields present in the body.
//
// HTTP: PUT /api/v1/content/{id}
func (h *ContentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, err := contentID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var patch service.ContentPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, h.logger, err)
		return
	}

	content, err := h.content.Update(r.Context(), id, userID, patch)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, contentResponse{Message: "Content updated successfully", Content: content})
}

// HandleDelete removes one of the caller's items.
//
// HTTP: DELETE /api/v1/content/{id}
//
// Someone else's item answers 404, exactly like a missing one.
func (h *ContentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, err := contentID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	deleted, err := h.content.Delete(r.Context(), id, userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteResponse{
		Message:   "Content deleted successfully",
		Success:   true,
		DeletedID: deleted,
	})
}

// HandleCounts backs the dashboard summary cards.
//
// HTTP: GET /api/v1/dashboard/counts
func (h *ContentHandler) HandleCounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	counts, err := h.content.Counts(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, countsResponse{Message: "Counts fetched", Counts: counts})
}

// contentID reads the {id} URL parameter. IDs are xids; anything that does
// not parse as one is rejected before it reaches storage.
func contentID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if _, err := xid.FromString(id); err != nil {
		return "", apperror.ValidationFailed("id", "content id is invalid")
	}
	return id, nil
}
