package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"coursehub/docs"
	"coursehub/internal/auth"
	"coursehub/internal/cache"
	"coursehub/internal/config"
	"coursehub/internal/db"
	"coursehub/internal/handler"
	"coursehub/internal/logging"
	"coursehub/internal/metrics"
	"coursehub/internal/model"
	"coursehub/internal/repository"
	"coursehub/internal/router"
	"coursehub/internal/service"
	"coursehub/internal/storage"
	"coursehub/internal/validation"
)

// @title Course Marketplace API
// @version 1.0
// @description Course catalog, purchases and separate user/admin authentication.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Open(cfg.DBDriver, cfg.MySQLDSN, cfg.SQLitePath)
	if err != nil {
		return err
	}

	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		db.Reset(gormDB, logger)
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, running without cache and revocation", "addr", cfg.RedisAddr, "error", err)
	}

	images, err := storage.NewS3ImageStore(ctx, storage.S3Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		return err
	}

	// Initialize repositories
	userRepo := repository.NewPrincipalRepository(gormDB, model.KindUser)
	adminRepo := repository.NewPrincipalRepository(gormDB, model.KindAdmin)
	courseRepo := repository.NewCourseRepository(gormDB)
	purchaseRepo := repository.NewPurchaseRepository(gormDB)

	// Initialize auth components
	userTokens := auth.NewJWTService(model.KindUser, cfg.JWTUserSecret)
	adminTokens := auth.NewJWTService(model.KindAdmin, cfg.JWTAdminSecret)
	tokenStore := auth.NewTokenStore(cacheClient)
	v := validation.New()

	// Initialize services
	userAuth := service.NewAuthService(service.PrincipalConfig{
		Repo:           userRepo,
		Tokens:         userTokens,
		IdentityClaims: true,
	}, tokenStore, v)
	adminAuth := service.NewAuthService(service.PrincipalConfig{
		Repo:   adminRepo,
		Tokens: adminTokens,
	}, tokenStore, v)
	catalogService := service.NewCatalogService(courseRepo, images, cacheClient, logger)
	purchaseService := service.NewPurchaseService(courseRepo, purchaseRepo)

	m := metrics.New()

	e := echo.New()
	router.Register(e, cfg, logger, m, router.NewGuards(userTokens, adminTokens, tokenStore), router.Handlers{
		UserAuth:  handler.NewAuthHandler(userAuth, m, cfg.IsProduction()),
		AdminAuth: handler.NewAuthHandler(adminAuth, m, cfg.IsProduction()),
		Course:    handler.NewCourseHandler(catalogService),
		Purchase:  handler.NewPurchaseHandler(purchaseService, m),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	logger.Info("swagger documentation available", "url", swaggerURL(cfg))

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("http server listening", "addr", addr, "env", cfg.Environment, "db", cfg.DBDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// swaggerURL returns where the API docs are served. SWAGGER_HOST may carry a scheme.
func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return strings.TrimRight(host, "/") + "/swagger/index.html"
}
