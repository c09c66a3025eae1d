package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/second-brain/internal/apperror"
	"github.com/sakif/second-brain/internal/model"
)

// ShareService is what ShareHandler needs from service.ShareService.
type ShareService interface {
	Enable(ctx context.Context, ownerID string) (*model.ShareLink, error)
	Disable(ctx context.Context, ownerID string) error
	View(ctx context.Context, hash string) (*model.SharedBrain, error)
}

// shareLinkPrefix marks a share hash in the public URL: /brain/~{hash}.
const shareLinkPrefix = "~"

type ShareHandler struct {
	share  ShareService
	logger *slog.Logger
}

func NewShareHandler(share ShareService, logger *slog.Logger) *ShareHandler {
	return &ShareHandler{share: share, logger: logger}
}

// shareRequest uses a pointer so a missing "share" is distinguishable from
// false.
type shareRequest struct {
	Share *bool `json:"share"`
}

type shareHashResponse struct {
	Hash string `json:"hash"`
}

// HandleToggle turns the caller's share link on or off.
//
// HTTP: POST /api/v1/brain/share
// REQUEST BODY: {"share": true}  → {"hash": "..."}   (same hash on repeat)
//
//	{"share": false} → {"message": "Removed link"} (404 if not sharing)
func (h *ShareHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req shareRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if req.Share == nil {
		writeError(w, h.logger, apperror.ValidationFailed("share", "share is required"))
		return
	}

	if *req.Share {
		link, err := h.share.Enable(r.Context(), userID)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, shareHashResponse{Hash: link.Hash})
		return
	}

	if err := h.share.Disable(r.Context(), userID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Removed link"})
}

// HandleView is the public, unauthenticated read of a shared collection.
//
// HTTP: GET /api/v1/brain/~{shareLink}
//
// The route is registered as /brain/{shareLink}; a value without the "~"
// prefix is not a share URL and answers 404.
func (h *ShareHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	param := chi.URLParam(r, "shareLink")
	hash, ok := strings.CutPrefix(param, shareLinkPrefix)
	if !ok || hash == "" {
		writeError(w, h.logger, apperror.NotFound("share link", param))
		return
	}

	brain, err := h.share.View(r.Context(), hash)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, brain)
}
