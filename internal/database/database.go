package database

import (
	"log"
	"strings"

	"sharehub/internal/domain"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	// registers the pure-Go "sqlite" database/sql driver
	_ "modernc.org/sqlite"
)

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate creates/updates the schema for every domain model. On PostgreSQL it
// additionally installs the exclusion constraint that rejects overlapping
// active reservations at commit time, so a race that slips past the
// application-level check still cannot persist two conflicting rows.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Place{},
		&domain.Book{},
		&domain.Reservation{},
	); err != nil {
		return err
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}

	return db.Exec(`
CREATE EXTENSION IF NOT EXISTS btree_gist;
DO $$
BEGIN
  IF NOT EXISTS (
    SELECT 1 FROM pg_constraint WHERE conname = 'idx_no_overbooking'
  ) THEN
    ALTER TABLE reservations ADD CONSTRAINT idx_no_overbooking
      EXCLUDE USING gist (
        place_id WITH =,
        tstzrange(start_time, end_time, '[)') WITH &&
      ) WHERE (status = 'active');
  END IF;
END $$;
`).Error
}
