package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Purchase grants a user access to a course. Records are append-only;
// buying the same course twice yields two records.
type Purchase struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:char(36);not null;index"`
	CourseID  uuid.UUID `json:"courseId" gorm:"type:char(36);not null;index"`
	CreatedAt time.Time `json:"createdAt"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
