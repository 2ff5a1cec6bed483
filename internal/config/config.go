package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	Environment string

	DBDriver   string
	MySQLDSN   string
	SQLitePath string
	ResetDB    bool

	RedisAddr string
	RedisDB   int
	RedisPass string

	JWTUserSecret  string
	JWTAdminSecret string

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string

	AllowedOrigins []string
	AuthRateLimit  float64
	LogLevel       string
	SwaggerHost    string

	// Bootstrap admin ensured by the seed command.
	SeedAdminEmail    string
	SeedAdminPassword string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("APP_ENV", "development"),

		DBDriver:   getEnv("DB_DRIVER", "mysql"),
		MySQLDSN:   getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/coursehub?charset=utf8mb4&parseTime=True&loc=Local"),
		SQLitePath: getEnv("SQLITE_PATH", "data/coursehub.db"),
		ResetDB:    getEnvBool("RESET_DB", false),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		RedisPass: os.Getenv("REDIS_PASSWORD"),

		JWTUserSecret:  getEnv("JWT_USER_SECRET", "change-me-user"),
		JWTAdminSecret: getEnv("JWT_ADMIN_SECRET", "change-me-admin"),

		S3Endpoint:  getEnv("S3_ENDPOINT", "http://localhost:9000"),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Bucket:    getEnv("S3_BUCKET", "course-images"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
			"http://localhost:3000",
		}),
		AuthRateLimit: getEnvFloat("AUTH_RATE_LIMIT", 5),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		SwaggerHost:   os.Getenv("SWAGGER_HOST"),

		SeedAdminEmail:    os.Getenv("SEED_ADMIN_EMAIL"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
	}
}

// Validate checks settings the server cannot run without.
func (c *Config) Validate() error {
	if c.JWTUserSecret == "" || c.JWTAdminSecret == "" {
		return errors.New("JWT_USER_SECRET and JWT_ADMIN_SECRET must be set")
	}
	if c.JWTUserSecret == c.JWTAdminSecret {
		return errors.New("JWT_USER_SECRET and JWT_ADMIN_SECRET must differ")
	}
	switch c.DBDriver {
	case "mysql", "sqlite":
	default:
		return errors.New("DB_DRIVER must be mysql or sqlite")
	}
	return nil
}

// IsProduction reports whether cookies should be marked Secure.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
