package main

import (
	"flag"
	"log"

	"github.com/boostcart/config"
	"github.com/boostcart/database"
)

func main() {
	migrate := flag.Bool("migrate", false, "Run migration before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := database.Initialize(&cfg.Database); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	if *migrate {
		if err := database.AutoMigrate(database.DB); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	if err := database.SeedData(database.DB); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	log.Println("Seed completed successfully")
}
