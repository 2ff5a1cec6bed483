package db

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursehub/internal/model"
)

func TestMigrate_CreatesTables(t *testing.T) {
	gormDB, err := NewSQLite(MemoryDSN)
	require.NoError(t, err)
	require.NoError(t, Migrate(gormDB))

	for _, table := range []string{"users", "admins", "courses", "purchases"} {
		assert.True(t, gormDB.Migrator().HasTable(table), table)
	}
	assert.True(t, gormDB.Migrator().HasIndex(&model.User{}, "Email"))
	assert.True(t, gormDB.Migrator().HasIndex(&model.Admin{}, "Email"))
}

func TestMigrate_Idempotent(t *testing.T) {
	gormDB, err := NewSQLite(MemoryDSN)
	require.NoError(t, err)

	require.NoError(t, Migrate(gormDB))
	require.NoError(t, Migrate(gormDB))
}

func TestNewSQLite_FileCreatesParentDir(t *testing.T) {
	path := t.TempDir() + "/nested/app.db"

	gormDB, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, Migrate(gormDB))

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	assert.FileExists(t, path)
}

func TestOpen(t *testing.T) {
	gormDB, err := Open(DriverSQLite, "", MemoryDSN)
	require.NoError(t, err)
	assert.NoError(t, Migrate(gormDB))

	_, err = Open("mongo", "", "")
	assert.ErrorContains(t, err, "unsupported db driver")
}

func TestReset_DropsTables(t *testing.T) {
	gormDB, err := NewSQLite(MemoryDSN)
	require.NoError(t, err)
	require.NoError(t, Migrate(gormDB))

	Reset(gormDB, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.False(t, gormDB.Migrator().HasTable("courses"))
	assert.False(t, gormDB.Migrator().HasTable("users"))
}

func TestPrincipalTableOptions(t *testing.T) {
	tests := []struct {
		dialect string
		want    string
	}{
		{dialect: DriverMySQL, want: "DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin"},
		{dialect: DriverSQLite, want: ""},
		{dialect: "postgres", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			assert.Equal(t, tt.want, principalTableOptions(tt.dialect))
		})
	}
}

func TestMigrate_EmailUniquenessIsCaseSensitive(t *testing.T) {
	gormDB, err := NewSQLite(MemoryDSN)
	require.NoError(t, err)
	require.NoError(t, Migrate(gormDB))

	principal := func(email string) model.Principal {
		return model.Principal{FirstName: "Jane", LastName: "Doe", Email: email, PasswordHash: "hash"}
	}
	require.NoError(t, gormDB.Create(&model.User{Principal: principal("jane@x.com")}).Error)
	require.NoError(t, gormDB.Create(&model.User{Principal: principal("Jane@x.com")}).Error)
	assert.Error(t, gormDB.Create(&model.User{Principal: principal("jane@x.com")}).Error)

	var found []model.User
	require.NoError(t, gormDB.Where("email = ?", "JANE@x.com").Find(&found).Error)
	assert.Empty(t, found)
}
