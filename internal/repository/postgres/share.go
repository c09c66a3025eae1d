package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sakif/second-brain/internal/apperror"
	"github.com/sakif/second-brain/internal/model"
	"github.com/sakif/second-brain/internal/repository"
)

var _ repository.ShareLinkRepository = (*ShareLinkStore)(nil)

type ShareLinkStore struct {
	db *gorm.DB
}

func (s *ShareLinkStore) Create(ctx context.Context, link *model.ShareLink) error {
	rec := &shareLinkRecord{OwnerID: link.OwnerID, Hash: link.Hash, CreatedAt: time.Now().UTC()}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(rec).Error; err != nil {
		if isDuplicateKey(err) {
			return apperror.Conflict("share link", link.OwnerID)
		}
		if isForeignKeyViolation(err) {
			return apperror.NotFound("user", link.OwnerID)
		}
		return fmt.Errorf("postgres: creating share link for %s: %w", link.OwnerID, err)
	}

	link.CreatedAt = rec.CreatedAt
	return nil
}

func (s *ShareLinkStore) GetByOwner(ctx context.Context, ownerID string) (*model.ShareLink, error) {
	return s.first(ctx, "owner_id = ?", ownerID)
}

func (s *ShareLinkStore) GetByHash(ctx context.Context, hash string) (*model.ShareLink, error) {
	return s.first(ctx, "hash = ?", hash)
}

func (s *ShareLinkStore) first(ctx context.Context, cond, value string) (*model.ShareLink, error) {
	var rec shareLinkRecord
	err := s.db.WithContext(ctx).Where(cond, value).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("share link", value)
		}
		return nil, fmt.Errorf("postgres: getting share link %s: %w", value, err)
	}
	return rec.toModel(), nil
}

func (s *ShareLinkStore) DeleteByOwner(ctx context.Context, ownerID string) error {
	res := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&shareLinkRecord{})
	if res.Error != nil {
		return fmt.Errorf("postgres: deleting share link for %s: %w", ownerID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("share link", ownerID)
	}
	return nil
}
