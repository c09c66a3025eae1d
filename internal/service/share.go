package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/sakif/second-brain/internal/apperror"
	"github.com/sakif/second-brain/internal/model"
	"github.com/sakif/second-brain/internal/repository"
)

const (
	// ShareHashLength is the number of characters in a share hash.
	ShareHashLength = 18

	// maxHashAttempts bounds the retries after a hash collision.
	maxHashAttempts = 3

	digitPool  = "0123456789"
	letterPool = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// HashFunc produces a candidate share hash.
type HashFunc func() (string, error)

// ShareService runs the per-user share state machine.
//
//	Private ──Enable──▶ Shared      (Enable again: same hash back)
//	Shared  ──Disable─▶ Private     (Disable while Private: not found)
//
// While Shared, View(hash) gives anyone holding the hash read access to the
// owner's whole collection. There is no expiry; Disable is the only way to
// revoke it.
type ShareService struct {
	links    repository.ShareLinkRepository
	contents repository.ContentRepository
	users    repository.UserRepository
	newHash  HashFunc
	logger   *slog.Logger
}

func NewShareService(
	links repository.ShareLinkRepository,
	contents repository.ContentRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *ShareService {
	return &ShareService{
		links:    links,
		contents: contents,
		users:    users,
		newHash:  RandomShareHash,
		logger:   logger,
	}
}

// WithHashFunc replaces the hash generator. Tests use it to force collisions.
func (s *ShareService) WithHashFunc(f HashFunc) *ShareService {
	s.newHash = f
	return s
}

// Enable publishes the owner's collection and returns the link. If the owner
// already shares, the existing link comes back unchanged.
//
// COLLISIONS:
// The insert can hit the unique index in two ways. Either a concurrent
// Enable for the same owner won, in which case its link is returned, or the
// random hash belongs to another owner, in which case a fresh hash is tried.
// After maxHashAttempts collisions Enable gives up with an internal error.
func (s *ShareService) Enable(ctx context.Context, ownerID string) (*model.ShareLink, error) {
	existing, err := s.links.GetByOwner(ctx, ownerID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/share: loading link: %w", err)
	}

	for attempt := 1; attempt <= maxHashAttempts; attempt++ {
		hash, err := s.newHash()
		if err != nil {
			return nil, fmt.Errorf("service/share: generating hash: %w", err)
		}

		link := &model.ShareLink{OwnerID: ownerID, Hash: hash}
		err = s.links.Create(ctx, link)
		if err == nil {
			s.logger.Info("share link enabled", slog.String("userID", ownerID))
			return link, nil
		}
		if !errors.Is(err, apperror.ErrConflict) {
			return nil, fmt.Errorf("service/share: creating link: %w", err)
		}

		if raced, getErr := s.links.GetByOwner(ctx, ownerID); getErr == nil {
			return raced, nil
		}
		s.logger.Warn("share hash collision, retrying",
			slog.String("userID", ownerID),
			slog.Int("attempt", attempt),
		)
	}

	return nil, fmt.Errorf("service/share: no unique hash after %d attempts", maxHashAttempts)
}

// Disable removes the owner's link. Fails with apperror.ErrNotFound when the
// owner was not sharing.
func (s *ShareService) Disable(ctx context.Context, ownerID string) error {
	if err := s.links.DeleteByOwner(ctx, ownerID); err != nil {
		return fmt.Errorf("service/share: disabling: %w", err)
	}
	s.logger.Info("share link disabled", slog.String("userID", ownerID))
	return nil
}

// View resolves a hash to the owner's display name and content, newest
// first. It needs no authentication: the hash is the credential.
func (s *ShareService) View(ctx context.Context, hash string) (*model.SharedBrain, error) {
	if hash == "" {
		return nil, apperror.NotFound("share link", hash)
	}

	link, err := s.links.GetByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("service/share: resolving hash: %w", err)
	}

	owner, err := s.users.GetByID(ctx, link.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("service/share: loading owner: %w", err)
	}

	items, err := s.contents.ListByOwner(ctx, link.OwnerID, model.ContentFilter{})
	if err != nil {
		return nil, fmt.Errorf("service/share: listing content: %w", err)
	}

	return &model.SharedBrain{Username: owner.DisplayName(), Content: items}, nil
}

// RandomShareHash returns ShareHashLength alphanumeric characters from
// crypto/rand. Each position is a digit with probability 3/5 and an ASCII
// letter otherwise.
func RandomShareHash() (string, error) {
	buf := make([]byte, ShareHashLength)
	for i := range buf {
		pool := letterPool
		pick, err := rand.Int(rand.Reader, big.NewInt(5))
		if err != nil {
			return "", err
		}
		if pick.Int64() < 3 {
			pool = digitPool
		}

		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(pool))))
		if err != nil {
			return "", err
		}
		buf[i] = pool[idx.Int64()]
	}
	return string(buf), nil
}
