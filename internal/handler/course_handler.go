package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"coursehub/internal/auth"
	apperrors "coursehub/internal/errors"
	"coursehub/internal/model"
	"coursehub/internal/service"
)

// CourseHandler handles catalog endpoints.
type CourseHandler struct {
	catalogService service.CatalogService
}

// NewCourseHandler creates a new course handler.
func NewCourseHandler(catalogService service.CatalogService) *CourseHandler {
	return &CourseHandler{catalogService: catalogService}
}

// CreateCourseForm is the multipart form of a new course. The image travels as the "image" file part.
type CreateCourseForm struct {
	Title       string `form:"title" validate:"required" label:"Title"`
	Description string `form:"description" validate:"required" label:"Description"`
	Price       string `form:"price" validate:"required,numeric" label:"Price"`
}

// UpdateCourseForm holds the fields of a partial update. Absent fields are left unchanged.
type UpdateCourseForm struct {
	Title       *string `form:"title"`
	Description *string `form:"description"`
	Price       *string `form:"price" validate:"omitempty,numeric" label:"Price"`
}

// UpdateCourseRequest is the JSON form of a partial update. Price may be a number or a numeric string.
type UpdateCourseRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
}

// CourseResponse wraps one course with a message.
type CourseResponse struct {
	Message string        `json:"message,omitempty"`
	Course  *model.Course `json:"course"`
}

// CoursesResponse lists courses.
type CoursesResponse struct {
	Courses []model.Course `json:"courses"`
}

// Create godoc
// @Summary Create a course
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param price formData string true "Price"
// @Param image formData file true "PNG or JPEG image"
// @Success 201 {object} CourseResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /course/create [post]
func (h *CourseHandler) Create(c echo.Context) error {
	adminID, err := auth.PrincipalID(c, model.KindAdmin)
	if err != nil {
		return err
	}

	var form CreateCourseForm
	if err := c.Bind(&form); err != nil {
		return errInvalidBody
	}

	var messages []string
	if err := c.Validate(&form); err != nil {
		var validationErr *apperrors.ValidationError
		if !errors.As(err, &validationErr) {
			return err
		}
		messages = append(messages, validationErr.Messages...)
	}
	file, err := imageFile(c)
	if err != nil {
		return err
	}
	if file == nil {
		messages = append(messages, "Image is required")
	}
	if len(messages) > 0 {
		return apperrors.NewValidationError(messages...)
	}

	price, err := decimal.NewFromString(form.Price)
	if err != nil {
		return apperrors.NewValidationError("Price must be a number")
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer src.Close()

	course, err := h.catalogService.Create(c.Request().Context(), adminID, service.CreateCourseInput{
		Title:       form.Title,
		Description: form.Description,
		Price:       price,
		Image: &service.ImageUpload{
			Body:        src,
			Size:        file.Size,
			ContentType: file.Header.Get(echo.HeaderContentType),
		},
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, CourseResponse{Message: "Course created successfully", Course: course})
}

// Update godoc
// @Summary Update a course
// @Description Applies the supplied fields. A new image may be sent as the "image" file part.
// @Tags courses
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Param title formData string false "Title"
// @Param description formData string false "Description"
// @Param price formData string false "Price"
// @Param image formData file false "PNG or JPEG image"
// @Success 200 {object} CourseResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /course/update/{courseId} [put]
func (h *CourseHandler) Update(c echo.Context) error {
	adminID, err := auth.PrincipalID(c, model.KindAdmin)
	if err != nil {
		return err
	}
	courseID, err := courseIDParam(c)
	if err != nil {
		return err
	}

	form, err := bindUpdateForm(c)
	if err != nil {
		return err
	}
	if err := c.Validate(&form); err != nil {
		return err
	}

	in := service.UpdateCourseInput{
		Title:       form.Title,
		Description: form.Description,
	}
	if form.Price != nil {
		price, err := decimal.NewFromString(*form.Price)
		if err != nil {
			return apperrors.NewValidationError("Price must be a number")
		}
		in.Price = &price
	}

	file, err := imageFile(c)
	if err != nil {
		return err
	}
	if file != nil {
		src, err := file.Open()
		if err != nil {
			return fmt.Errorf("open image: %w", err)
		}
		defer src.Close()
		in.Image = &service.ImageUpload{
			Body:        src,
			Size:        file.Size,
			ContentType: file.Header.Get(echo.HeaderContentType),
		}
	}

	course, err := h.catalogService.Update(c.Request().Context(), adminID, courseID, in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, CourseResponse{Message: "Course updated successfully", Course: course})
}

// Delete godoc
// @Summary Delete a course
// @Description Purchases of the course are kept.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /course/delete/{courseId} [delete]
func (h *CourseHandler) Delete(c echo.Context) error {
	adminID, err := auth.PrincipalID(c, model.KindAdmin)
	if err != nil {
		return err
	}
	courseID, err := courseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.catalogService.Delete(c.Request().Context(), adminID, courseID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Course deleted successfully"})
}

// List godoc
// @Summary List courses
// @Tags courses
// @Produce json
// @Success 200 {object} CoursesResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /course/courses [get]
func (h *CourseHandler) List(c echo.Context) error {
	courses, err := h.catalogService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CoursesResponse{Courses: courses})
}

// Get godoc
// @Summary Get a course
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} CourseResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /course/{courseId} [get]
func (h *CourseHandler) Get(c echo.Context) error {
	courseID, err := courseIDParam(c)
	if err != nil {
		return err
	}

	course, err := h.catalogService.Get(c.Request().Context(), courseID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CourseResponse{Course: course})
}

// bindUpdateForm reads a partial update from a JSON body or from form fields.
// Only fields present in the request are set.
func bindUpdateForm(c echo.Context) (UpdateCourseForm, error) {
	var form UpdateCourseForm
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ctype, echo.MIMEMultipartForm) && !strings.HasPrefix(ctype, echo.MIMEApplicationForm) {
		if c.Request().ContentLength == 0 {
			return form, nil
		}
		var body UpdateCourseRequest
		if err := c.Bind(&body); err != nil {
			return form, errInvalidBody
		}
		form.Title = body.Title
		form.Description = body.Description
		if body.Price != nil {
			price := body.Price.String()
			form.Price = &price
		}
		return form, nil
	}

	params, err := c.FormParams()
	if err != nil {
		return form, errInvalidBody
	}
	form.Title = formValue(params, "title")
	form.Description = formValue(params, "description")
	form.Price = formValue(params, "price")
	return form, nil
}

func formValue(params url.Values, key string) *string {
	values, ok := params[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

// courseIDParam parses :courseId. A malformed id cannot name a course, so it reads as not found.
func courseIDParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		return uuid.Nil, apperrors.ErrCourseNotFound
	}
	return id, nil
}

// imageFile returns the "image" file part, or nil when the request carries none.
func imageFile(c echo.Context) (*multipart.FileHeader, error) {
	file, err := c.FormFile("image")
	switch {
	case err == nil:
		return file, nil
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return nil, nil
	default:
		return nil, errInvalidBody
	}
}
