package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/second-brain/internal/apperror"
	"github.com/sakif/second-brain/internal/model"
	"github.com/sakif/second-brain/internal/repository"
)

var _ repository.ShareLinkRepository = (*ShareLinkDB)(nil)

// ShareLinkDB is the share_links table: owner_id is the primary key (one
// link per user) and hash carries its own UNIQUE index.
type ShareLinkDB struct {
	conn *sql.DB
}

func (s *ShareLinkDB) Create(ctx context.Context, link *model.ShareLink) error {
	link.CreatedAt = time.Now().UTC()

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO share_links (owner_id, hash, created_at) VALUES (?, ?, ?)`,
		link.OwnerID,
		link.Hash,
		link.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("share link", link.OwnerID)
		}
		if isForeignKeyViolation(err) {
			return apperror.NotFound("user", link.OwnerID)
		}
		return fmt.Errorf("sqlite: creating share link for %s: %w", link.OwnerID, err)
	}
	return nil
}

func (s *ShareLinkDB) GetByOwner(ctx context.Context, ownerID string) (*model.ShareLink, error) {
	return s.getOne(ctx, "owner_id", ownerID)
}

func (s *ShareLinkDB) GetByHash(ctx context.Context, hash string) (*model.ShareLink, error) {
	return s.getOne(ctx, "hash", hash)
}

func (s *ShareLinkDB) getOne(ctx context.Context, column, value string) (*model.ShareLink, error) {
	var link model.ShareLink
	err := s.conn.QueryRowContext(ctx,
		`SELECT owner_id, hash, created_at FROM share_links WHERE `+column+` = ?`,
		value,
	).Scan(&link.OwnerID, &link.Hash, &link.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("share link", value)
		}
		return nil, fmt.Errorf("sqlite: getting share link by %s: %w", column, err)
	}
	return &link, nil
}

func (s *ShareLinkDB) DeleteByOwner(ctx context.Context, ownerID string) error {
	result, err := s.conn.ExecContext(ctx,
		`DELETE FROM share_links WHERE owner_id = ?`,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting share link for %s: %w", ownerID, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("share link", ownerID)
	}
	return nil
}
