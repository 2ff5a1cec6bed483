package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"coursehub/internal/model"
)

// PrincipalRepository persists principals of a single kind. Users and admins
// live in separate tables, so an email is unique only within its own kind.
type PrincipalRepository interface {
	Kind() model.Kind
	Create(ctx context.Context, principal *model.Principal) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Principal, error)
	FindByEmail(ctx context.Context, email string) (*model.Principal, error)
}

type principalRepository struct {
	db   *gorm.DB
	kind model.Kind
}

// NewPrincipalRepository creates a repository bound to kind's table.
func NewPrincipalRepository(db *gorm.DB, kind model.Kind) PrincipalRepository {
	return &principalRepository{db: db, kind: kind}
}

func (r *principalRepository) Kind() model.Kind {
	return r.kind
}

func (r *principalRepository) table(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.kind.Table())
}

// Create inserts a principal. A taken email surfaces as gorm.ErrDuplicatedKey.
func (r *principalRepository) Create(ctx context.Context, principal *model.Principal) error {
	return r.table(ctx).Create(principal).Error
}

func (r *principalRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Principal, error) {
	var principal model.Principal
	if err := r.table(ctx).Where("id = ?", id).First(&principal).Error; err != nil {
		return nil, err
	}
	return &principal, nil
}

// FindByEmail matches the stored email exactly.
func (r *principalRepository) FindByEmail(ctx context.Context, email string) (*model.Principal, error) {
	var principal model.Principal
	if err := r.table(ctx).Where("email = ?", email).First(&principal).Error; err != nil {
		return nil, err
	}
	return &principal, nil
}
