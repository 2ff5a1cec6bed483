package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	apperrors "coursehub/internal/errors"
	"coursehub/internal/model"
	"coursehub/internal/repository"
)

// UserPurchases pairs a user's purchase records with the courses they reference.
// Courses deleted after purchase are absent from CourseData.
type UserPurchases struct {
	Purchased  []model.Purchase `json:"purchased"`
	CourseData []model.Course   `json:"courseData"`
}

// PurchaseService records and lists course purchases.
type PurchaseService interface {
	Buy(ctx context.Context, userID, courseID uuid.UUID) (*model.Purchase, error)
	ListForUser(ctx context.Context, userID uuid.UUID) (*UserPurchases, error)
}

type purchaseService struct {
	courseRepo   repository.CourseRepository
	purchaseRepo repository.PurchaseRepository
}

// NewPurchaseService creates a new purchase service.
func NewPurchaseService(courseRepo repository.CourseRepository, purchaseRepo repository.PurchaseRepository) PurchaseService {
	return &purchaseService{
		courseRepo:   courseRepo,
		purchaseRepo: purchaseRepo,
	}
}

// Buy records that userID bought courseID. Repeat purchases create new records;
// payment capture happens outside this service.
func (s *purchaseService) Buy(ctx context.Context, userID, courseID uuid.UUID) (*model.Purchase, error) {
	exists, err := s.courseRepo.Exists(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("check course: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrCourseNotFound
	}

	purchase := &model.Purchase{
		UserID:   userID,
		CourseID: courseID,
	}
	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		return nil, fmt.Errorf("create purchase: %w", err)
	}
	return purchase, nil
}

// ListForUser returns the user's purchases and the distinct courses they cover.
func (s *purchaseService) ListForUser(ctx context.Context, userID uuid.UUID) (*UserPurchases, error) {
	purchases, err := s.purchaseRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(purchases))
	courseIDs := make([]uuid.UUID, 0, len(purchases))
	for _, p := range purchases {
		if _, ok := seen[p.CourseID]; ok {
			continue
		}
		seen[p.CourseID] = struct{}{}
		courseIDs = append(courseIDs, p.CourseID)
	}

	courses, err := s.courseRepo.FindByIDs(ctx, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("load purchased courses: %w", err)
	}

	return &UserPurchases{Purchased: purchases, CourseData: courses}, nil
}
