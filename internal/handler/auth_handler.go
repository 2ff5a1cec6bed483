package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"coursehub/internal/auth"
	"coursehub/internal/metrics"
	"coursehub/internal/model"
	"coursehub/internal/service"
)

// SessionCookieName is the cookie carrying the session token after login.
const SessionCookieName = "jwt"

// AuthHandler serves signup, login and logout for one principal kind.
type AuthHandler struct {
	authService  service.AuthService
	metrics      *metrics.Metrics
	secureCookie bool
}

// NewAuthHandler creates a new auth handler. secureCookie sets the Secure flag on the session cookie.
func NewAuthHandler(authService service.AuthService, m *metrics.Metrics, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		metrics:      m,
		secureCookie: secureCookie,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// PrincipalResponse is the shape of a signup response. The principal is keyed by its kind.
type PrincipalResponse struct {
	Message string           `json:"message"`
	User    *model.Principal `json:"user,omitempty"`
	Admin   *model.Principal `json:"admin,omitempty"`
}

// LoginResponse is the shape of a login response. The principal is keyed by its kind.
type LoginResponse struct {
	Message string           `json:"message"`
	User    *model.Principal `json:"user,omitempty"`
	Admin   *model.Principal `json:"admin,omitempty"`
	Token   string           `json:"token"`
}

// MessageResponse carries a single confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

func (h *AuthHandler) kind() model.Kind {
	return h.authService.Kind()
}

// loginStatus keeps the status codes clients already rely on: users get 201, admins 200.
func (h *AuthHandler) loginStatus() int {
	if h.kind() == model.KindUser {
		return http.StatusCreated
	}
	return http.StatusOK
}

func (h *AuthHandler) keyed(p *model.Principal) (user, admin *model.Principal) {
	if h.kind() == model.KindAdmin {
		return nil, p
	}
	return p, nil
}

// Signup godoc
// @Summary Sign up a principal
// @Description Creates a user at /user/signup or an admin at /admin/signup. Emails are unique per kind.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.SignupInput true "Signup data"
// @Success 201 {object} PrincipalResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/signup [post]
// @Router /admin/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req service.SignupInput
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}

	principal, err := h.authService.Signup(c.Request().Context(), req)
	h.metrics.AuthAttempt(string(h.kind()), "signup", err == nil)
	if err != nil {
		return err
	}

	user, admin := h.keyed(principal)
	return c.JSON(http.StatusCreated, PrincipalResponse{
		Message: "Signup successful",
		User:    user,
		Admin:   admin,
	})
}

// Login godoc
// @Summary Log in a principal
// @Description Returns a session token in the body and in an HTTP-only cookie. Users receive 201, admins 200.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Success 201 {object} LoginResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/login [post]
// @Router /admin/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}

	token, principal, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	h.metrics.AuthAttempt(string(h.kind()), "login", err == nil)
	if err != nil {
		return err
	}

	c.SetCookie(h.sessionCookie(token, auth.SessionTokenExpiry))

	user, admin := h.keyed(principal)
	return c.JSON(h.loginStatus(), LoginResponse{
		Message: "Login successful",
		User:    user,
		Admin:   admin,
		Token:   token,
	})
}

// Logout godoc
// @Summary Log out a principal
// @Description Clears the session cookie and revokes the presented token until it expires.
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/logout [get]
// @Router /admin/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	err := h.authService.Logout(c.Request().Context(), presentedToken(c))
	h.metrics.AuthAttempt(string(h.kind()), "logout", err == nil)
	if err != nil {
		return err
	}

	c.SetCookie(h.sessionCookie("", -1))
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// sessionCookie builds the session cookie. A negative ttl expires it immediately.
func (h *AuthHandler) sessionCookie(value string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
	if ttl < 0 {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
	} else {
		cookie.MaxAge = int(ttl.Seconds())
		cookie.Expires = time.Now().Add(ttl)
	}
	return cookie
}

// presentedToken returns the bearer token, falling back to the session cookie.
func presentedToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
		return token
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
