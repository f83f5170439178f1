package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"deluxetours/internal/shared/config"
	"deluxetours/internal/shared/database"
	"deluxetours/internal/tours"
	"deluxetours/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Deluxe Tours Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"reviews",
		"booking_notes",
		"bookings",
		"contacts",
		"tour_availabilities",
		"tours",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll seeds users and tours with departure availability.
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	if err := s.SeedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	tourIDs, err := s.SeedTours()
	if err != nil {
		return fmt.Errorf("failed to seed tours: %w", err)
	}

	if err := s.SeedAvailability(tourIDs); err != nil {
		return fmt.Errorf("failed to seed availability: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedUsers creates an admin account and two customers.
func (s *Seeder) SeedUsers() error {
	fmt.Println("  👤 Seeding users...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		name  string
		email string
		phone string
		role  users.Role
	}{
		{"Admin User", "admin@deluxetours.co.ke", "254700000001", users.RoleAdmin},
		{"Amina Odhiambo", "amina.odhiambo@example.com", "254712345678", users.RoleUser},
		{"James Mwangi", "james.mwangi@example.com", "254722334455", users.RoleUser},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			Name:      userData.name,
			Email:     userData.email,
			Phone:     userData.phone,
			Password:  string(hashedPassword),
			Role:      userData.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}

	return nil
}

// SeedTours creates a sample catalog of packages.
func (s *Seeder) SeedTours() ([]uuid.UUID, error) {
	fmt.Println("  🏝️ Seeding tours...")

	var tourIDs []uuid.UUID

	discount := func(v float64) *float64 { return &v }

	toursData := []tours.Tour{
		{
			Title:          "Maasai Mara Classic Safari",
			Slug:           "maasai-mara-classic-safari",
			Description:    "Three days of game drives across the Mara plains with a stay at a tented camp overlooking the Talek river.",
			Category:       "safari",
			Destination:    "Maasai Mara",
			Country:        "Kenya",
			DurationDays:   3,
			DurationNights: 2,
			Price:          45000,
			MaxGroupSize:   12,
			MainImage:      "https://cdn.deluxetours.co.ke/tours/maasai-mara-classic.jpg",
			IsFeatured:     true,
			IsActive:       true,
		},
		{
			Title:          "Diani Beach Getaway",
			Slug:           "diani-beach-getaway",
			Description:    "Four nights at a beachfront resort on Diani with snorkeling at Kisite-Mpunguti and a dhow sunset cruise.",
			Category:       "beach",
			Destination:    "Diani",
			Country:        "Kenya",
			DurationDays:   5,
			DurationNights: 4,
			Price:          62000,
			DiscountPrice:  discount(54000),
			MaxGroupSize:   20,
			MainImage:      "https://cdn.deluxetours.co.ke/tours/diani-beach.jpg",
			IsFeatured:     true,
			IsActive:       true,
		},
		{
			Title:          "Mount Kenya Sirimon Trek",
			Slug:           "mount-kenya-sirimon-trek",
			Description:    "A guided five-day ascent of Point Lenana via the Sirimon route with full porter support.",
			Category:       "trekking",
			Destination:    "Mount Kenya",
			Country:        "Kenya",
			DurationDays:   5,
			DurationNights: 4,
			Price:          78000,
			MaxGroupSize:   8,
			MainImage:      "https://cdn.deluxetours.co.ke/tours/mount-kenya-sirimon.jpg",
			IsActive:       true,
		},
		{
			Title:          "Amboseli & Tsavo Explorer",
			Slug:           "amboseli-tsavo-explorer",
			Description:    "Elephants under Kilimanjaro and the red dust of Tsavo East in a single six-day circuit.",
			Category:       "safari",
			Destination:    "Amboseli",
			Country:        "Kenya",
			DurationDays:   6,
			DurationNights: 5,
			Price:          95000,
			DiscountPrice:  discount(86000),
			MaxGroupSize:   10,
			MainImage:      "https://cdn.deluxetours.co.ke/tours/amboseli-tsavo.jpg",
			IsActive:       true,
		},
		{
			Title:          "Zanzibar Spice & Stone Town",
			Slug:           "zanzibar-spice-stone-town",
			Description:    "Stone Town walking tours, a spice farm visit and three nights on Nungwi beach.",
			Category:       "beach",
			Destination:    "Zanzibar",
			Country:        "Tanzania",
			DurationDays:   5,
			DurationNights: 4,
			Price:          88000,
			MaxGroupSize:   16,
			MainImage:      "https://cdn.deluxetours.co.ke/tours/zanzibar-spice.jpg",
			IsFeatured:     true,
			IsActive:       true,
		},
		{
			Title:          "Nairobi City Day Tour",
			Slug:           "nairobi-city-day-tour",
			Description:    "Giraffe Centre, the elephant orphanage and a Karen Blixen museum visit in one day.",
			Category:       "city",
			Destination:    "Nairobi",
			Country:        "Kenya",
			DurationDays:   1,
			DurationNights: 0,
			Price:          8500,
			MaxGroupSize:   25,
			MainImage:      "https://cdn.deluxetours.co.ke/tours/nairobi-day.jpg",
			IsActive:       true,
		},
	}

	for i := range toursData {
		tour := &toursData[i]
		tour.ID = uuid.New()
		tour.CreatedAt = time.Now()
		tour.UpdatedAt = time.Now()

		if err := s.db.PostgreSQL.Create(tour).Error; err != nil {
			return nil, fmt.Errorf("failed to create tour %s: %w", tour.Title, err)
		}

		tourIDs = append(tourIDs, tour.ID)
		fmt.Printf("    ✅ Created tour: %s\n", tour.Title)
	}

	return tourIDs, nil
}

// SeedAvailability creates weekly departures for the next three months.
func (s *Seeder) SeedAvailability(tourIDs []uuid.UUID) error {
	fmt.Println("  📅 Seeding availability...")

	spots := []int{12, 20, 8, 10, 16, 25}

	for i, tourID := range tourIDs {
		count := 0
		for week := 1; week <= 12; week++ {
			date := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, week*7)

			availability := tours.TourAvailability{
				ID:             uuid.New(),
				TourID:         tourID,
				Date:           date,
				SpotsAvailable: spots[i%len(spots)],
				CreatedAt:      time.Now(),
				UpdatedAt:      time.Now(),
			}

			if err := s.db.PostgreSQL.Create(&availability).Error; err != nil {
				return fmt.Errorf("failed to create availability: %w", err)
			}
			count++
		}
		fmt.Printf("    ✅ Created %d departure dates for tour %s\n", count, tourID)
	}

	return nil
}
