package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"coursehub/internal/auth"
	"coursehub/internal/config"
	"coursehub/internal/db"
	apperrors "coursehub/internal/errors"
	"coursehub/internal/logging"
	"coursehub/internal/model"
	"coursehub/internal/repository"
	"coursehub/internal/service"
	"coursehub/internal/validation"
)

// SeedCourseData is one course in the seed file.
type SeedCourseData struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Image       struct {
		Key string `json:"key"`
		URL string `json:"url"`
	} `json:"image"`
}

func main() {
	source := flag.String("courses", "seed/courses.json", "path or http(s) URL of a JSON array of courses")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel)

	if err := run(context.Background(), cfg, logger, *source); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, source string) error {
	gormDB, err := db.Open(cfg.DBDriver, cfg.MySQLDSN, cfg.SQLitePath)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}
	logger.Info("database ready", "driver", cfg.DBDriver)

	adminRepo := repository.NewPrincipalRepository(gormDB, model.KindAdmin)
	creatorID, err := ensureAdmin(ctx, cfg, adminRepo, logger)
	if err != nil {
		return err
	}

	data, err := readSource(ctx, source)
	if err != nil {
		return err
	}
	courses, skipped := toCourses(data, creatorID, logger)
	logger.Info("courses loaded", "source", source, "valid", len(courses), "skipped", skipped)

	catalog := service.NewCatalogService(repository.NewCourseRepository(gormDB), nil, nil, logger)
	n, err := catalog.Seed(ctx, courses)
	if err != nil {
		return err
	}

	logger.Info("seed completed", "upserted", n, "skipped", skipped)
	return nil
}

// ensureAdmin creates the bootstrap admin if SEED_ADMIN_EMAIL is set and returns its id.
func ensureAdmin(ctx context.Context, cfg *config.Config, repo repository.PrincipalRepository, logger *slog.Logger) (uuid.UUID, error) {
	if cfg.SeedAdminEmail == "" {
		logger.Info("SEED_ADMIN_EMAIL not set, skipping bootstrap admin")
		return uuid.Nil, nil
	}

	authService := service.NewAuthService(service.PrincipalConfig{
		Repo:   repo,
		Tokens: auth.NewJWTService(model.KindAdmin, cfg.JWTAdminSecret),
	}, auth.NewTokenStore(nil), validation.New())

	admin, err := authService.Signup(ctx, service.SignupInput{
		FirstName: "Admin",
		LastName:  "Bootstrap",
		Email:     cfg.SeedAdminEmail,
		Password:  cfg.SeedAdminPassword,
	})
	switch {
	case err == nil:
		logger.Info("bootstrap admin created", "email", admin.Email)
		return admin.ID, nil
	case errors.Is(err, apperrors.ErrDuplicatePrincipal):
		existing, err := repo.FindByEmail(ctx, cfg.SeedAdminEmail)
		if err != nil {
			return uuid.Nil, fmt.Errorf("load bootstrap admin: %w", err)
		}
		logger.Info("bootstrap admin already exists", "email", existing.Email)
		return existing.ID, nil
	default:
		return uuid.Nil, fmt.Errorf("create bootstrap admin: %w", err)
	}
}

// readSource decodes the course list from a local file or an http(s) URL.
func readSource(ctx context.Context, source string) ([]SeedCourseData, error) {
	var body io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		reqCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch courses: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch courses: unexpected status %d", resp.StatusCode)
		}
		body = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open courses file: %w", err)
		}
		body = f
	}
	defer body.Close()

	var data []SeedCourseData
	if err := json.NewDecoder(body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}
	return data, nil
}

// toCourses converts seed records, skipping those with a bad id or price.
func toCourses(data []SeedCourseData, creatorID uuid.UUID, logger *slog.Logger) ([]model.Course, int) {
	courses := make([]model.Course, 0, len(data))
	skipped := 0
	for _, item := range data {
		id, err := uuid.Parse(item.ID)
		if err != nil {
			logger.Warn("skipping course with invalid id", "id", item.ID)
			skipped++
			continue
		}
		price, err := decimal.NewFromString(item.Price)
		if err != nil || price.IsNegative() {
			logger.Warn("skipping course with invalid price", "id", item.ID, "price", item.Price)
			skipped++
			continue
		}
		if strings.TrimSpace(item.Title) == "" {
			logger.Warn("skipping course without title", "id", item.ID)
			skipped++
			continue
		}

		courses = append(courses, model.Course{
			ID:          id,
			Title:       item.Title,
			Description: item.Description,
			Price:       price,
			Image:       model.CourseImage{Key: item.Image.Key, URL: item.Image.URL},
			CreatorID:   creatorID,
		})
	}
	return courses, skipped
}
