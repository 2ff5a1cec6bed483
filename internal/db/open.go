package db

import (
	"fmt"

	"gorm.io/gorm"
)

// Supported values of DB_DRIVER.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Open connects using driver. mysqlDSN and sqlitePath are read only by their own driver.
func Open(driver, mysqlDSN, sqlitePath string) (*gorm.DB, error) {
	switch driver {
	case DriverMySQL:
		return NewMySQL(mysqlDSN)
	case DriverSQLite:
		return NewSQLite(sqlitePath)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}
