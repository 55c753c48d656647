package main

import (
	"fmt"
	"strings"

	"github.com/JoshCrouch/uq-program-planner/config"
	"github.com/JoshCrouch/uq-program-planner/database"
	"github.com/gofiber/fiber/v2/log"
)

func main() {
	// Load environment variables
	if err := config.LoadENV(); err != nil {
		log.Warnf("Failed to load .env: %v", err)
	}

	// Initialize database connection using GORM
	store, err := database.StartGORM()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	separator := strings.Repeat("=", 60)
	fmt.Println(separator)
	fmt.Println("UQ Program Planner - Database Seeding")
	fmt.Println(separator)

	if err := database.RunSeeds(store.GetDB()); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	fmt.Println(separator)
	fmt.Printf("Seeded %d starter courses and the sample program.\n", len(database.StarterCatalog()))
	fmt.Println(separator)
}
