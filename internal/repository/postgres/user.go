package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"gorm.io/gorm"

	"github.com/sakif/second-brain/internal/apperror"
	"github.com/sakif/second-brain/internal/model"
	"github.com/sakif/second-brain/internal/repository"
)

var _ repository.UserRepository = (*UserStore)(nil)

type UserStore struct {
	db *gorm.DB
}

func (u *UserStore) Create(ctx context.Context, user *model.User) error {
	rec := &userRecord{
		ID:           xid.New().String(),
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Name:         user.Name,
		CreatedAt:    time.Now().UTC(),
	}

	if err := u.db.WithContext(ctx).Create(rec).Error; err != nil {
		if isDuplicateKey(err) {
			return apperror.Conflict("user", user.Email)
		}
		return fmt.Errorf("postgres: inserting user %s: %w", user.Email, err)
	}

	user.ID = rec.ID
	user.CreatedAt = rec.CreatedAt
	return nil
}

func (u *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	return u.first(ctx, "id = ?", id)
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return u.first(ctx, "email = ?", email)
}

func (u *UserStore) first(ctx context.Context, cond, value string) (*model.User, error) {
	var rec userRecord
	err := u.db.WithContext(ctx).Where(cond, value).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user", value)
		}
		return nil, fmt.Errorf("postgres: getting user %s: %w", value, err)
	}
	return rec.toModel(), nil
}
