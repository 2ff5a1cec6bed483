package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CourseImage references the course cover stored in object storage.
type CourseImage struct {
	Key string `json:"key" gorm:"size:255"`
	URL string `json:"url" gorm:"size:1024"`
}

// Course is a purchasable catalog entry.
type Course struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string          `json:"title" gorm:"size:255;not null;index"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null;default:0"`
	Image       CourseImage     `json:"image" gorm:"embedded;embeddedPrefix:image_"`
	CreatorID   uuid.UUID       `json:"creatorId" gorm:"type:char(36);index"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CoursePatch carries the fields of a partial course update. Nil fields are left untouched.
type CoursePatch struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	Image       *CourseImage
}

// Empty reports whether the patch changes nothing.
func (p CoursePatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Price == nil && p.Image == nil
}
