package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"coursehub/internal/auth"
	"coursehub/internal/metrics"
	"coursehub/internal/model"
	"coursehub/internal/service"
)

// PurchaseHandler handles buying courses and listing a user's purchases.
type PurchaseHandler struct {
	purchaseService service.PurchaseService
	metrics         *metrics.Metrics
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(purchaseService service.PurchaseService, m *metrics.Metrics) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService, metrics: m}
}

// PurchaseResponse wraps a newly recorded purchase.
type PurchaseResponse struct {
	Message  string          `json:"message"`
	Purchase *model.Purchase `json:"purchase"`
}

// Buy godoc
// @Summary Buy a course
// @Description Records a purchase for the caller. Repeat purchases are recorded again.
// @Tags purchases
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} PurchaseResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /course/buy/{courseId} [post]
func (h *PurchaseHandler) Buy(c echo.Context) error {
	userID, err := auth.PrincipalID(c, model.KindUser)
	if err != nil {
		return err
	}
	courseID, err := courseIDParam(c)
	if err != nil {
		return err
	}

	purchase, err := h.purchaseService.Buy(c.Request().Context(), userID, courseID)
	if err != nil {
		return err
	}
	h.metrics.Purchase()

	return c.JSON(http.StatusOK, PurchaseResponse{Message: "Course purchased successfully", Purchase: purchase})
}

// Purchases godoc
// @Summary List the caller's purchases
// @Tags purchases
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.UserPurchases
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/purchases [get]
func (h *PurchaseHandler) Purchases(c echo.Context) error {
	userID, err := auth.PrincipalID(c, model.KindUser)
	if err != nil {
		return err
	}

	purchases, err := h.purchaseService.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, purchases)
}
