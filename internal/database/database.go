package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resultboard/internal/config"
	"resultboard/internal/model"
)

// Open connects with the configured driver. It does not migrate.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.PostgresDSN())
	case "sqlite", "":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
	return gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
}

// Migrate creates or updates the report tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Report{}, &model.Result{}, &model.SubjectMark{})
}

func InitDB(cfg *config.Config) *gorm.DB {
	db, err := Open(cfg)
	if err != nil {
		log.Fatal("Failed to connect to the database:", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatal("Failed to auto-migrate the database:", err)
	}

	log.Printf("Connected to %s database", db.Dialector.Name())
	return db
}
