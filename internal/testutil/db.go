// Package testutil opens throwaway databases for repository and handler tests.
package testutil

import (
	"fmt"

	companyDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/company"
	employeeDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/employee"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB returns an in-memory SQLite database with every table migrated.
// The pool is pinned to one connection so transactions and plain queries see
// the same in-memory database.
func NewTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&companyDatamodel.Company{},
		&employeeDatamodel.Employee{},
		&employeeDatamodel.WorkedDay{},
		&employeeDatamodel.Event{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}
