package db

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"coursehub/internal/model"
)

// models lists every table owned by the service, in drop-safe order.
func models() []interface{} {
	return append([]interface{}{
		&model.Purchase{},
		&model.Course{},
	}, principalModels()...)
}

// principalModels are the tables keyed by a unique, case-sensitive email.
func principalModels() []interface{} {
	return []interface{}{
		&model.Admin{},
		&model.User{},
	}
}

// principalTableOptions returns the CREATE TABLE options that make email
// comparison binary on dialect. MySQL's default utf8mb4 collation folds case;
// SQLite already compares TEXT bytewise.
func principalTableOptions(dialect string) string {
	if dialect == DriverMySQL {
		return "DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin"
	}
	return ""
}

// Reset drops all service tables. Missing tables are logged and skipped.
func Reset(gormDB *gorm.DB, logger *slog.Logger) {
	for _, table := range models() {
		if err := gormDB.Migrator().DropTable(table); err != nil {
			logger.Warn("drop table failed (may not exist)", "error", err)
		}
	}
}

// Migrate creates or updates the schema, including the per-kind unique email indexes.
// Table options only apply on create; a MySQL principal table made before them
// needs a one-off CONVERT TO ... COLLATE utf8mb4_bin.
func Migrate(gormDB *gorm.DB) error {
	principals := gormDB
	if opts := principalTableOptions(gormDB.Dialector.Name()); opts != "" {
		principals = gormDB.Set("gorm:table_options", opts)
	}
	if err := principals.AutoMigrate(principalModels()...); err != nil {
		return fmt.Errorf("auto-migrate principals: %w", err)
	}
	if err := gormDB.AutoMigrate(&model.Course{}, &model.Purchase{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
