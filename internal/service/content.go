package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/sakif/second-brain/internal/apperror"
	"github.com/sakif/second-brain/internal/model"
	"github.com/sakif/second-brain/internal/repository"
	"github.com/sakif/second-brain/internal/validation"
)

// ContentInput is the body of POST /api/v1/content.
// The owner is never part of the input; it comes from the verified token.
type ContentInput struct {
	Type     string `json:"type" validate:"required,max=50"`
	Title    string `json:"title" validate:"required,max=200"`
	Link     string `json:"link" validate:"required,url,max=2048"`
	Body     string `json:"content" validate:"max=10000"`
	Category string `json:"paraCategory" validate:"omitempty,para"`
}

// ContentPatch is the body of PUT /api/v1/content/{id}. Nil fields are left
// unchanged; at least one must be set.
type ContentPatch struct {
	Type     *string `json:"type" validate:"omitempty,min=1,max=50"`
	Title    *string `json:"title" validate:"omitempty,min=1,max=200"`
	Link     *string `json:"link" validate:"omitempty,url,max=2048"`
	Body     *string `json:"content" validate:"omitempty,max=10000"`
	Category *string `json:"paraCategory" validate:"omitempty,para"`
}

func (p ContentPatch) empty() bool {
	return p.Type == nil && p.Title == nil && p.Link == nil && p.Body == nil && p.Category == nil
}

// ContentService implements owner-scoped CRUD over a user's collection.
//
// SANITISING:
// Titles and types are stripped of all markup; bodies keep the safe subset
// bluemonday's UGC policy allows. Items are rendered by the frontend and by
// the public share page, so stored text must be safe to display as-is.
type ContentService struct {
	repo      repository.ContentRepository
	validator *validation.Validator
	strict    *bluemonday.Policy
	ugc       *bluemonday.Policy
	logger    *slog.Logger
}

func NewContentService(repo repository.ContentRepository, validator *validation.Validator, logger *slog.Logger) *ContentService {
	return &ContentService{
		repo:      repo,
		validator: validator,
		strict:    bluemonday.StrictPolicy(),
		ugc:       bluemonday.UGCPolicy(),
		logger:    logger,
	}
}

func (s *ContentService) Create(ctx context.Context, ownerID string, in ContentInput) (*model.Content, error) {
	in.Type = normalizeType(in.Type)
	in.Title = strings.TrimSpace(in.Title)
	in.Link = strings.TrimSpace(in.Link)
	in.Category = strings.TrimSpace(in.Category)

	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}
	if err := checkLinkScheme(in.Link); err != nil {
		return nil, err
	}

	category := model.Category(in.Category)
	if category == "" {
		category = model.DefaultCategory
	}

	content := &model.Content{
		OwnerID:  ownerID,
		Type:     s.strict.Sanitize(in.Type),
		Title:    s.strict.Sanitize(in.Title),
		Link:     in.Link,
		Body:     s.ugc.Sanitize(in.Body),
		Category: category,
	}
	if content.Type == "" {
		return nil, apperror.ValidationFailed("type", "type must contain text")
	}
	if content.Title == "" {
		return nil, apperror.ValidationFailed("title", "title must contain text")
	}

	if err := s.repo.Create(ctx, content); err != nil {
		return nil, fmt.Errorf("service/content: creating: %w", err)
	}

	s.logger.Info("content created",
		slog.String("id", content.ID),
		slog.String("userID", ownerID),
		slog.String("type", content.Type),
	)
	return content, nil
}

// List returns the owner's items, newest first, optionally narrowed by
// category and/or type.
func (s *ContentService) List(ctx context.Context, ownerID string, filter model.ContentFilter) ([]model.Content, error) {
	filter.Type = normalizeType(filter.Type)
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, apperror.ValidationFailed("category", "category must be one of projects, areas, resources, archives")
	}

	items, err := s.repo.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("service/content: listing: %w", err)
	}
	return items, nil
}

// Update applies patch to an item the caller owns. Someone else's item and a
// missing item both fail with apperror.ErrNotFound.
func (s *ContentService) Update(ctx context.Context, id, ownerID string, patch ContentPatch) (*model.Content, error) {
	if patch.empty() {
		return nil, apperror.ValidationFailed("content", "at least one field must be provided")
	}
	if err := s.validator.Struct(patch); err != nil {
		return nil, err
	}

	content, err := s.repo.GetOwned(ctx, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service/content: loading %s: %w", id, err)
	}

	if patch.Type != nil {
		content.Type = s.strict.Sanitize(normalizeType(*patch.Type))
		if content.Type == "" {
			return nil, apperror.ValidationFailed("type", "type is required")
		}
	}
	if patch.Title != nil {
		content.Title = s.strict.Sanitize(strings.TrimSpace(*patch.Title))
		if content.Title == "" {
			return nil, apperror.ValidationFailed("title", "title must contain text")
		}
	}
	if patch.Link != nil {
		link := strings.TrimSpace(*patch.Link)
		if err := checkLinkScheme(link); err != nil {
			return nil, err
		}
		content.Link = link
	}
	if patch.Body != nil {
		content.Body = s.ugc.Sanitize(*patch.Body)
	}
	if patch.Category != nil {
		content.Category = model.Category(strings.TrimSpace(*patch.Category))
		if !content.Category.Valid() {
			return nil, apperror.ValidationFailed("paraCategory", "paraCategory must be one of projects, areas, resources, archives")
		}
	}

	if err := s.repo.UpdateOwned(ctx, content); err != nil {
		return nil, fmt.Errorf("service/content: updating %s: %w", id, err)
	}

	s.logger.Info("content updated", slog.String("id", id), slog.String("userID", ownerID))
	return content, nil
}

// Delete removes an item the caller owns and returns its ID.
func (s *ContentService) Delete(ctx context.Context, id, ownerID string) (string, error) {
	if err := s.repo.DeleteOwned(ctx, id, ownerID); err != nil {
		return "", fmt.Errorf("service/content: deleting %s: %w", id, err)
	}

	s.logger.Info("content deleted", slog.String("id", id), slog.String("userID", ownerID))
	return id, nil
}

// Counts backs the dashboard summary.
func (s *ContentService) Counts(ctx context.Context, ownerID string) (*model.ContentCounts, error) {
	counts, err := s.repo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service/content: counting: %w", err)
	}
	return counts, nil
}

func normalizeType(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// checkLinkScheme rejects links the browser would not treat as a plain web
// page, such as javascript: or data: URLs.
func checkLinkScheme(link string) error {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperror.ValidationFailed("link", "link must be an http or https URL")
	}
	return nil
}
