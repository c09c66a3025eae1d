package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sakif/second-brain/internal/apperror"
	"github.com/sakif/second-brain/internal/model"
	"github.com/sakif/second-brain/internal/repository"
)

var _ repository.ContentRepository = (*ContentStore)(nil)

// ContentStore scopes every single-row query by id AND owner_id; a miss is
// apperror.NotOwned whether the row is absent or someone else's.
type ContentStore struct {
	db *gorm.DB
}

func (c *ContentStore) Create(ctx context.Context, content *model.Content) error {
	content.ID = xid.New().String()
	now := time.Now().UTC()
	content.CreatedAt = now
	content.UpdatedAt = now

	// The Owner association is only there for the foreign key.
	err := c.db.WithContext(ctx).Omit(clause.Associations).Create(contentFromModel(content)).Error
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("user", content.OwnerID)
		}
		return fmt.Errorf("postgres: creating content: %w", err)
	}
	return nil
}

func (c *ContentStore) ListByOwner(ctx context.Context, ownerID string, filter model.ContentFilter) ([]model.Content, error) {
	q := c.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if filter.Category != "" {
		q = q.Where("category = ?", string(filter.Category))
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	var recs []contentRecord
	if err := q.Order("created_at DESC").Order("id DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("postgres: listing content for %s: %w", ownerID, err)
	}

	items := make([]model.Content, 0, len(recs))
	for i := range recs {
		items = append(items, recs[i].toModel())
	}
	return items, nil
}

func (c *ContentStore) GetOwned(ctx context.Context, id, ownerID string) (*model.Content, error) {
	var rec contentRecord
	err := c.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotOwned("content", id)
		}
		return nil, fmt.Errorf("postgres: getting content %s: %w", id, err)
	}
	item := rec.toModel()
	return &item, nil
}

func (c *ContentStore) UpdateOwned(ctx context.Context, content *model.Content) error {
	content.UpdatedAt = time.Now().UTC()

	res := c.db.WithContext(ctx).
		Model(&contentRecord{}).
		Where("id = ? AND owner_id = ?", content.ID, content.OwnerID).
		Updates(map[string]any{
			"type":       content.Type,
			"title":      content.Title,
			"link":       content.Link,
			"body":       content.Body,
			"category":   string(content.Category),
			"updated_at": content.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("postgres: updating content %s: %w", content.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotOwned("content", content.ID)
	}
	return nil
}

func (c *ContentStore) DeleteOwned(ctx context.Context, id, ownerID string) error {
	res := c.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&contentRecord{})
	if res.Error != nil {
		return fmt.Errorf("postgres: deleting content %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotOwned("content", id)
	}
	return nil
}

func (c *ContentStore) CountByOwner(ctx context.Context, ownerID string) (*model.ContentCounts, error) {
	var rows []struct {
		Category string
		Type     string
		N        int
	}

	err := c.db.WithContext(ctx).
		Model(&contentRecord{}).
		Select("category, type, COUNT(*) AS n").
		Where("owner_id = ?", ownerID).
		Group("category, type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("postgres: counting content for %s: %w", ownerID, err)
	}

	counts := model.NewContentCounts()
	for _, r := range rows {
		counts.Add(model.Category(r.Category), r.Type, r.N)
	}
	return counts, nil
}
