package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"coursehub/internal/cache"
	apperrors "coursehub/internal/errors"
	"coursehub/internal/model"
	"coursehub/internal/repository"
	"coursehub/internal/storage"
)

const courseCacheTTL = 5 * time.Minute

// ImageUpload is an image file received from a client.
type ImageUpload struct {
	Body        io.Reader
	Size        int64
	ContentType string
}

// CreateCourseInput holds the fields of a new course.
type CreateCourseInput struct {
	Title       string
	Description string
	Price       decimal.Decimal
	Image       *ImageUpload
}

// UpdateCourseInput holds a partial course update. Nil fields are left unchanged.
type UpdateCourseInput struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	Image       *ImageUpload
}

// CatalogService manages courses. Write operations expect the caller to be an authenticated admin.
type CatalogService interface {
	Create(ctx context.Context, adminID uuid.UUID, in CreateCourseInput) (*model.Course, error)
	Update(ctx context.Context, adminID, courseID uuid.UUID, in UpdateCourseInput) (*model.Course, error)
	Delete(ctx context.Context, adminID, courseID uuid.UUID) error
	List(ctx context.Context) ([]model.Course, error)
	Get(ctx context.Context, courseID uuid.UUID) (*model.Course, error)
	Seed(ctx context.Context, courses []model.Course) (int, error)
}

type catalogService struct {
	repo   repository.CourseRepository
	images storage.ImageStore
	cache  *cache.Client
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo repository.CourseRepository, images storage.ImageStore, cache *cache.Client, logger *slog.Logger) CatalogService {
	return &catalogService{
		repo:   repo,
		images: images,
		cache:  cache,
		logger: logger,
	}
}

func (s *catalogService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("course:%s", id.String())
}

// Create validates the course, uploads its image and stores it.
func (s *catalogService) Create(ctx context.Context, adminID uuid.UUID, in CreateCourseInput) (*model.Course, error) {
	var messages []string
	if strings.TrimSpace(in.Title) == "" {
		messages = append(messages, "Title is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		messages = append(messages, "Description is required")
	}
	if in.Price.IsNegative() {
		messages = append(messages, "Price must not be negative")
	}
	if in.Image == nil {
		messages = append(messages, "Image is required")
	}
	if len(messages) > 0 {
		return nil, apperrors.NewValidationError(messages...)
	}

	image, err := s.uploadImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	course := &model.Course{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Image:       image,
		CreatorID:   adminID,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		s.deleteImage(ctx, image.Key)
		return nil, fmt.Errorf("create course: %w", err)
	}

	s.logger.InfoContext(ctx, "course created", "course_id", course.ID, "admin_id", adminID)
	return course, nil
}

// Update applies a partial update to an existing course.
func (s *catalogService) Update(ctx context.Context, adminID, courseID uuid.UUID, in UpdateCourseInput) (*model.Course, error) {
	var messages []string
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		messages = append(messages, "Title is required")
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) == "" {
		messages = append(messages, "Description is required")
	}
	if in.Price != nil && in.Price.IsNegative() {
		messages = append(messages, "Price must not be negative")
	}
	if len(messages) > 0 {
		return nil, apperrors.NewValidationError(messages...)
	}

	course, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}

	patch := model.CoursePatch{Title: in.Title, Description: in.Description, Price: in.Price}
	if in.Image != nil {
		image, err := s.uploadImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		patch.Image = &image
	}
	if patch.Empty() {
		return course, nil
	}

	oldImageKey := course.Image.Key
	applyPatch(course, patch)

	if err := s.repo.Save(ctx, course); err != nil {
		if patch.Image != nil {
			s.deleteImage(ctx, patch.Image.Key)
		}
		return nil, fmt.Errorf("update course: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(courseID))
	if patch.Image != nil && oldImageKey != "" && oldImageKey != patch.Image.Key {
		s.deleteImage(ctx, oldImageKey)
	}

	s.logger.InfoContext(ctx, "course updated", "course_id", courseID, "admin_id", adminID)
	return course, nil
}

func applyPatch(course *model.Course, patch model.CoursePatch) {
	if patch.Title != nil {
		course.Title = *patch.Title
	}
	if patch.Description != nil {
		course.Description = *patch.Description
	}
	if patch.Price != nil {
		course.Price = *patch.Price
	}
	if patch.Image != nil {
		course.Image = *patch.Image
	}
}

// Delete removes a course and then its image. Purchases referencing the course are kept.
func (s *catalogService) Delete(ctx context.Context, adminID, courseID uuid.UUID) error {
	course, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("find course: %w", err)
	}

	if err := s.repo.Delete(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("delete course: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(courseID))
	s.deleteImage(ctx, course.Image.Key)

	s.logger.InfoContext(ctx, "course deleted", "course_id", courseID, "admin_id", adminID)
	return nil
}

// List returns every course. Filtering is left to the client.
func (s *catalogService) List(ctx context.Context) ([]model.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// Get retrieves a course by ID with caching.
func (s *catalogService) Get(ctx context.Context, courseID uuid.UUID) (*model.Course, error) {
	var cached model.Course
	if s.cache.GetJSON(ctx, s.cacheKey(courseID), &cached) {
		return &cached, nil
	}

	course, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}

	s.cache.SetJSON(ctx, s.cacheKey(courseID), course, courseCacheTTL)
	return course, nil
}

// Seed creates or updates courses by ID. Image references are stored as given.
func (s *catalogService) Seed(ctx context.Context, courses []model.Course) (int, error) {
	count := 0
	for i := range courses {
		course := courses[i]
		existing, err := s.repo.FindByID(ctx, course.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return count, fmt.Errorf("seed course %s: %w", course.ID, err)
		}

		if existing != nil {
			existing.Title = course.Title
			existing.Description = course.Description
			existing.Price = course.Price
			existing.Image = course.Image
			if err := s.repo.Save(ctx, existing); err != nil {
				return count, fmt.Errorf("update course %s: %w", course.ID, err)
			}
		} else {
			if err := s.repo.Create(ctx, &course); err != nil {
				return count, fmt.Errorf("create course %s: %w", course.ID, err)
			}
		}

		_ = s.cache.Delete(ctx, s.cacheKey(course.ID))
		count++
	}
	return count, nil
}

func (s *catalogService) uploadImage(ctx context.Context, upload *ImageUpload) (model.CourseImage, error) {
	ext, ok := storage.ImageExtension(upload.ContentType)
	if !ok {
		return model.CourseImage{}, apperrors.ErrInvalidImage
	}
	key := storage.NewImageKey(ext)
	url, err := s.images.Upload(ctx, key, upload.Body, upload.Size, upload.ContentType)
	if err != nil {
		return model.CourseImage{}, fmt.Errorf("upload image: %w", err)
	}
	return model.CourseImage{Key: key, URL: url}, nil
}

// deleteImage removes an image object; failures only leave an orphaned object behind.
func (s *catalogService) deleteImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "delete course image failed", "key", key, "error", err)
	}
}
