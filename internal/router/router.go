package router

import (
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"coursehub/internal/auth"
	"coursehub/internal/config"
	"coursehub/internal/handler"
	"coursehub/internal/logging"
	"coursehub/internal/metrics"
	"coursehub/internal/validation"
)

// Handlers groups the endpoint handlers mounted by Register.
type Handlers struct {
	UserAuth  *handler.AuthHandler
	AdminAuth *handler.AuthHandler
	Course    *handler.CourseHandler
	Purchase  *handler.PurchaseHandler
}

// Guards holds the access-control middleware for each principal kind.
type Guards struct {
	User  echo.MiddlewareFunc
	Admin echo.MiddlewareFunc
}

// NewGuards builds the user and admin access-control middleware.
func NewGuards(userTokens, adminTokens *auth.JWTService, store auth.TokenStoreInterface) Guards {
	return Guards{
		User:  auth.Middleware(userTokens, store),
		Admin: auth.Middleware(adminTokens, store),
	}
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *slog.Logger,
	m *metrics.Metrics,
	guards Guards,
	h Handlers,
) {
	e.HideBanner = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler(logger)
	e.Validator = validation.New()

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(m.Middleware())
	e.Use(logging.RequestLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")

	throttle := authThrottle(cfg.AuthRateLimit)

	user := api.Group("/user")
	user.POST("/signup", h.UserAuth.Signup, throttle)
	user.POST("/login", h.UserAuth.Login, throttle)
	user.GET("/logout", h.UserAuth.Logout)
	user.GET("/purchases", h.Purchase.Purchases, guards.User)

	admin := api.Group("/admin")
	admin.POST("/signup", h.AdminAuth.Signup, throttle)
	admin.POST("/login", h.AdminAuth.Login, throttle)
	admin.GET("/logout", h.AdminAuth.Logout)

	course := api.Group("/course")
	course.GET("/courses", h.Course.List)
	course.POST("/create", h.Course.Create, guards.Admin)
	course.PUT("/update/:courseId", h.Course.Update, guards.Admin)
	course.DELETE("/delete/:courseId", h.Course.Delete, guards.Admin)
	course.POST("/buy/:courseId", h.Purchase.Buy, guards.User)
	course.GET("/:courseId", h.Course.Get)
}

// authThrottle limits signup and login per client IP. A non-positive limit disables it.
func authThrottle(perSecond float64) echo.MiddlewareFunc {
	if perSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     int(math.Max(1, math.Ceil(perSecond))),
		ExpiresIn: 3 * time.Minute,
	})
	return middleware.RateLimiter(store)
}
