package database

import (
	"fmt"
	"log"

	"deluxetours/internal/bookings"
	"deluxetours/internal/contacts"
	"deluxetours/internal/reviews"
	"deluxetours/internal/tours"
	"deluxetours/internal/users"

	"gorm.io/gorm"
)

// Migrate runs all database migrations
func Migrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	if err := db.AutoMigrate(
		&users.User{},
		&tours.Tour{},
		&tours.TourAvailability{},
		&bookings.Booking{},
		&bookings.BookingNote{},
		&contacts.Contact{},
		&reviews.Review{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}
