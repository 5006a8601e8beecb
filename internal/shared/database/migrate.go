package database

import (
	"sortmyscene/internal/auth"
	"sortmyscene/internal/catalog"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&auth.UserRecord{},
		&catalog.EventRecord{},
		&catalog.VenueRecord{},
		&catalog.TicketTypeRecord{},
	)
}
