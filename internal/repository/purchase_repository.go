package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"coursehub/internal/model"
)

// PurchaseRepository defines purchase persistence operations.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *model.Purchase) error
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]model.Purchase, error)
}

type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository creates a new purchase repository.
func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

// Create records a purchase. No uniqueness is enforced on (user, course).
func (r *purchaseRepository) Create(ctx context.Context, purchase *model.Purchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

// FindByUserID lists a user's purchases in the order they were made.
func (r *purchaseRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]model.Purchase, error) {
	purchases := []model.Purchase{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}
