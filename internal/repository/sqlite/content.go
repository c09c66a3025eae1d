package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/second-brain/internal/apperror"
	"github.com/sakif/second-brain/internal/model"
	"github.com/sakif/second-brain/internal/repository"
)

var _ repository.ContentRepository = (*ContentDB)(nil)

// ContentDB is the contents table.
//
// OWNER SCOPING:
// Every single-row statement here has `WHERE id = ? AND owner_id = ?`.
// A row that exists but belongs to someone else is indistinguishable from a
// row that does not exist: both come back as apperror.NotOwned.
type ContentDB struct {
	conn *sql.DB
}

const contentColumns = `id, owner_id, type, title, link, body, category, created_at, updated_at`

// Create inserts a new item. IDs are xids, which sort by creation time and
// break ties between items created in the same instant.
func (c *ContentDB) Create(ctx context.Context, content *model.Content) error {
	content.ID = xid.New().String()
	now := time.Now().UTC()
	content.CreatedAt = now
	content.UpdatedAt = now

	_, err := c.conn.ExecContext(ctx,
		`INSERT INTO contents (`+contentColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		content.ID,
		content.OwnerID,
		content.Type,
		content.Title,
		content.Link,
		content.Body,
		string(content.Category),
		content.CreatedAt,
		content.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("user", content.OwnerID)
		}
		return fmt.Errorf("sqlite: creating content: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's items newest first. An empty result is an
// empty slice, never nil, so it encodes as [] rather than null.
func (c *ContentDB) ListByOwner(ctx context.Context, ownerID string, filter model.ContentFilter) ([]model.Content, error) {
	var (
		where = []string{"owner_id = ?"}
		args  = []any{ownerID}
	)
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(filter.Category))
	}
	if filter.Type != "" {
		where = append(where, "type = ?")
		args = append(args, filter.Type)
	}

	rows, err := c.conn.QueryContext(ctx,
		`SELECT `+contentColumns+`
		 FROM contents
		 WHERE `+strings.Join(where, " AND ")+`
		 ORDER BY created_at DESC, id DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing content for %s: %w", ownerID, err)
	}
	defer rows.Close()

	items := []model.Content{}
	for rows.Next() {
		item, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning content row: %w", err)
		}
		items = append(items, *item)
	}

	// rows.Err reports an error that ended iteration early.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating content rows: %w", err)
	}

	return items, nil
}

func (c *ContentDB) GetOwned(ctx context.Context, id, ownerID string) (*model.Content, error) {
	row := c.conn.QueryRowContext(ctx,
		`SELECT `+contentColumns+`
		 FROM contents
		 WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	item, err := scanContent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotOwned("content", id)
		}
		return nil, fmt.Errorf("sqlite: getting content %s: %w", id, err)
	}
	return item, nil
}

func (c *ContentDB) UpdateOwned(ctx context.Context, content *model.Content) error {
	content.UpdatedAt = time.Now().UTC()

	result, err := c.conn.ExecContext(ctx,
		`UPDATE contents
		 SET type = ?, title = ?, link = ?, body = ?, category = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		content.Type,
		content.Title,
		content.Link,
		content.Body,
		string(content.Category),
		content.UpdatedAt,
		content.ID,
		content.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating content %s: %w", content.ID, err)
	}
	return requireOneRow(result, content.ID)
}

func (c *ContentDB) DeleteOwned(ctx context.Context, id, ownerID string) error {
	result, err := c.conn.ExecContext(ctx,
		`DELETE FROM contents WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting content %s: %w", id, err)
	}
	return requireOneRow(result, id)
}

// CountByOwner tallies the owner's items per category and per type in one
// grouped query.
func (c *ContentDB) CountByOwner(ctx context.Context, ownerID string) (*model.ContentCounts, error) {
	rows, err := c.conn.QueryContext(ctx,
		`SELECT category, type, COUNT(*)
		 FROM contents
		 WHERE owner_id = ?
		 GROUP BY category, type`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: counting content for %s: %w", ownerID, err)
	}
	defer rows.Close()

	counts := model.NewContentCounts()
	for rows.Next() {
		var (
			category string
			typ      string
			n        int
		)
		if err := rows.Scan(&category, &typ, &n); err != nil {
			return nil, fmt.Errorf("sqlite: scanning count row: %w", err)
		}
		counts.Add(model.Category(category), typ, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating count rows: %w", err)
	}

	return counts, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanContent(s scanner) (*model.Content, error) {
	var (
		item     model.Content
		category string
	)
	err := s.Scan(
		&item.ID,
		&item.OwnerID,
		&item.Type,
		&item.Title,
		&item.Link,
		&item.Body,
		&category,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Category = model.Category(category)
	return &item, nil
}

// requireOneRow turns "statement matched nothing" into the owner-scoped
// not-found error.
func requireOneRow(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotOwned("content", id)
	}
	return nil
}
