package database

import (
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite" // registers the CGO-free "sqlite" driver

	"studiobooking/internal/domain"
	"studiobooking/internal/pkg/logger"
)

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		logger.Get().Info("connecting to PostgreSQL")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	logger.Get().Sugar().Infow("using SQLite for local development", "dsn", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate creates the schema for local development and tests; production
// schemas are managed by SQL migrations.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Entity{},
		&domain.User{},
		&domain.Studio{},
		&domain.ServiceOffering{},
		&domain.Availability{},
		&domain.Holiday{},
		&domain.Booking{},
		&domain.ChangeLog{},
	)
}
