package postgres

import (
	"time"

	"github.com/sakif/second-brain/internal/model"
)

type userRecord struct {
	ID           string    `gorm:"primaryKey;size:20"`
	Email        string    `gorm:"size:100;not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null;default:''"`
	Name         string    `gorm:"size:50;not null;default:''"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (userRecord) TableName() string { return "users" }

func (r *userRecord) toModel() *model.User {
	return &model.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Name:         r.Name,
		CreatedAt:    r.CreatedAt,
	}
}

type contentRecord struct {
	ID        string     `gorm:"primaryKey;size:20"`
	OwnerID   string     `gorm:"size:20;not null;index:idx_contents_owner_created,priority:1"`
	Owner     userRecord `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Type      string     `gorm:"size:50;not null"`
	Title     string     `gorm:"size:200;not null"`
	Link      string     `gorm:"size:2048;not null"`
	Body      string     `gorm:"type:text;not null;default:''"`
	Category  string     `gorm:"size:16;not null;default:'resources'"`
	CreatedAt time.Time  `gorm:"not null;index:idx_contents_owner_created,priority:2"`
	UpdatedAt time.Time  `gorm:"not null"`
}

func (contentRecord) TableName() string { return "contents" }

func contentFromModel(c *model.Content) *contentRecord {
	return &contentRecord{
		ID:        c.ID,
		OwnerID:   c.OwnerID,
		Type:      c.Type,
		Title:     c.Title,
		Link:      c.Link,
		Body:      c.Body,
		Category:  string(c.Category),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (r *contentRecord) toModel() model.Content {
	return model.Content{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		Type:      r.Type,
		Title:     r.Title,
		Link:      r.Link,
		Body:      r.Body,
		Category:  model.Category(r.Category),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type shareLinkRecord struct {
	OwnerID   string     `gorm:"primaryKey;size:20"`
	Owner     userRecord `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Hash      string     `gorm:"size:64;not null;uniqueIndex"`
	CreatedAt time.Time  `gorm:"not null"`
}

func (shareLinkRecord) TableName() string { return "share_links" }

func (r *shareLinkRecord) toModel() *model.ShareLink {
	return &model.ShareLink{OwnerID: r.OwnerID, Hash: r.Hash, CreatedAt: r.CreatedAt}
}
