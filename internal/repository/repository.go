// Package repository declares the persistence contracts the services depend on.
//
// Implementations live in sub-packages (sqlite, postgres) and translate their
// driver errors into apperror sentinels:
//   - a missing row is apperror.ErrNotFound
//   - a unique-constraint violation is apperror.ErrConflict
//
// Every content method that touches a single row takes the owner ID and
// filters on it together with the row ID, so one user can never read or
// change another user's rows through these interfaces.
package repository

import (
	"context"

	"github.com/sakif/second-brain/internal/model"
)

type UserRepository interface {
	// Create assigns ID and CreatedAt. Duplicate email → ErrConflict.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	// GetByEmail matches the already-normalised (lower-case) email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type ContentRepository interface {
	// Create assigns ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, content *model.Content) error
	// ListByOwner returns the owner's items, newest first.
	ListByOwner(ctx context.Context, ownerID string, filter model.ContentFilter) ([]model.Content, error)
	GetOwned(ctx context.Context, id, ownerID string) (*model.Content, error)
	// UpdateOwned writes every mutable field of content and refreshes
	// UpdatedAt, matching on content.ID and content.OwnerID.
	UpdateOwned(ctx context.Context, content *model.Content) error
	DeleteOwned(ctx context.Context, id, ownerID string) error
	CountByOwner(ctx context.Context, ownerID string) (*model.ContentCounts, error)
}

type ShareLinkRepository interface {
	// Create fails with ErrConflict if the owner already has a link or the
	// hash is taken.
	Create(ctx context.Context, link *model.ShareLink) error
	GetByOwner(ctx context.Context, ownerID string) (*model.ShareLink, error)
	GetByHash(ctx context.Context, hash string) (*model.ShareLink, error)
	// DeleteByOwner fails with ErrNotFound when there was nothing to delete.
	DeleteByOwner(ctx context.Context, ownerID string) error
}

// Store is one backend providing all three repositories.
type Store interface {
	Users() UserRepository
	Contents() ContentRepository
	ShareLinks() ShareLinkRepository
	Ping(ctx context.Context) error
	Close() error
}
