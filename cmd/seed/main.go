package main

import (
	"fmt"
	"log"

	"sortmyscene/internal/catalog"
	"sortmyscene/internal/shared/config"
	"sortmyscene/internal/shared/database"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting SortMyScene Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates the catalog tables. The users table is left alone:
// accounts survive a reseed.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"ticket_types",
		"events",
		"venues",
	}

	pg := s.db.GetPostgreSQL()
	for _, table := range tables {
		if err := pg.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

// SeedAll loads the curated catalog into postgres.
func (s *Seeder) SeedAll() error {
	events, venues, catalogs := catalog.SampleData()
	pg := s.db.GetPostgreSQL()

	for _, event := range events {
		record := event.ToRecord()
		if err := pg.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to seed event %s: %w", event.ID, err)
		}
	}
	fmt.Printf("   seeded %d events\n", len(events))

	for _, venue := range venues {
		record := venue.ToRecord()
		if err := pg.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to seed venue %s: %w", venue.ID, err)
		}
	}
	fmt.Printf("   seeded %d venues\n", len(venues))

	var ticketRows int
	for _, tc := range catalogs {
		for _, record := range tc.ToRecords() {
			if err := pg.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to seed ticket type %s: %w", record.ID, err)
			}
			ticketRows++
		}
	}
	fmt.Printf("   seeded %d ticket types\n", ticketRows)

	return nil
}
