package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"coursehub/internal/model"
)

// CourseRepository defines course persistence operations.
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	Save(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Course, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Course, error)
	List(ctx context.Context) ([]model.Course, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

// Create creates a new course.
func (r *courseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

// Save inserts or fully updates a course.
func (r *courseRepository) Save(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

// Delete removes a course. It returns gorm.ErrRecordNotFound if nothing was deleted.
func (r *courseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Course{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID finds a course by ID.
func (r *courseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByIDs returns the courses whose id is in ids. Unknown ids are skipped.
func (r *courseRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Course, error) {
	courses := []model.Course{}
	if len(ids) == 0 {
		return courses, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// List returns every course in insertion order.
func (r *courseRepository) List(ctx context.Context) ([]model.Course, error) {
	courses := []model.Course{}
	if err := r.db.WithContext(ctx).Order("created_at").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// Exists reports whether a course with id is stored.
func (r *courseRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Course{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
