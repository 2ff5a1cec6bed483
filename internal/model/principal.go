package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kind identifies which credential namespace a principal belongs to.
type Kind string

const (
	KindUser  Kind = "user"
	KindAdmin Kind = "admin"
)

// Table returns the table holding principals of this kind.
func (k Kind) Table() string {
	switch k {
	case KindAdmin:
		return "admins"
	default:
		return "users"
	}
}

// Label is the capitalised kind used in client-facing messages.
func (k Kind) Label() string {
	switch k {
	case KindAdmin:
		return "Admin"
	default:
		return "User"
	}
}

// Valid reports whether k is a known principal kind.
func (k Kind) Valid() bool {
	return k == KindUser || k == KindAdmin
}

// Principal holds the fields shared by users and admins.
type Principal struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	FirstName    string    `json:"firstName" gorm:"size:255;not null"`
	LastName     string    `json:"lastName" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;size:255;not null"` // Never expose in JSON
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Principal) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// User is an end user who browses and buys courses.
type User struct {
	Principal
}

// TableName pins the users table.
func (User) TableName() string { return KindUser.Table() }

// Admin manages the course catalog.
type Admin struct {
	Principal
}

// TableName pins the admins table.
func (Admin) TableName() string { return KindAdmin.Table() }
