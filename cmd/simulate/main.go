// Command simulate generates realistic upsell event traffic for a store so
// the dashboard and analytics endpoints can be exercised without a live
// storefront.
package main

import (
	"flag"
	"log"
	"math/rand"
	"time"

	"github.com/boostcart/config"
	"github.com/boostcart/database"
	"github.com/boostcart/models"
)

func main() {
	var (
		storeHash = flag.String("store", "demohash1", "Store hash to generate events for")
		days      = flag.Int("days", 30, "Number of days to backfill")
		perDay    = flag.Int("per-day", 40, "Average impressions per day")
		clear     = flag.Bool("clear", false, "Delete existing events for the store first")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := database.InitializeWithOptions(&cfg.Database, true); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	db := database.GetDB()

	var store models.Store
	if err := db.Where("store_hash = ?", *storeHash).First(&store).Error; err != nil {
		log.Fatalf("Store %s not found (seed first?): %v", *storeHash, err)
	}

	var offers []models.Offer
	if err := db.Where("store_id = ?", store.ID).Find(&offers).Error; err != nil || len(offers) == 0 {
		log.Fatalf("Store %s has no offers to simulate against", *storeHash)
	}

	if *clear {
		log.Println("Clearing existing events...")
		if err := db.Where("store_id = ?", store.ID).Delete(&models.UpsellEvent{}).Error; err != nil {
			log.Fatalf("Failed to clear events: %v", err)
		}
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	total := 0

	for day := *days; day > 0; day-- {
		date := time.Now().UTC().AddDate(0, 0, -day)
		// Jitter the day's volume a bit
		impressions := *perDay/2 + rng.Intn(*perDay)

		for i := 0; i < impressions; i++ {
			offer := offers[rng.Intn(len(offers))]
			orderID := 100000 + rng.Intn(900000)
			at := date.Add(time.Duration(rng.Intn(86400)) * time.Second)

			if err := writeEvent(&store, &offer, orderID, models.ActionShown, nil, at); err != nil {
				log.Fatalf("Failed to write event: %v", err)
			}
			total++

			// Roughly: 12% accept, 70% decline, rest time out
			roll := rng.Float64()
			switch {
			case roll < 0.12:
				revenue := 10 + rng.Float64()*60
				if err := writeEvent(&store, &offer, orderID, models.ActionAccepted, &revenue, at.Add(20*time.Second)); err != nil {
					log.Fatalf("Failed to write event: %v", err)
				}
				total++
			case roll < 0.82:
				if err := writeEvent(&store, &offer, orderID, models.ActionDeclined, nil, at.Add(15*time.Second)); err != nil {
					log.Fatalf("Failed to write event: %v", err)
				}
				total++
			default:
				if err := writeEvent(&store, &offer, orderID, models.ActionTimeout, nil, at.Add(5*time.Minute)); err != nil {
					log.Fatalf("Failed to write event: %v", err)
				}
				total++
			}
		}
	}

	log.Printf("Wrote %d events across %d days for store %s", total, *days, *storeHash)
}

// writeEvent inserts one event with a backdated timestamp. The recorder
// always stamps now, so the insert goes through the model directly.
func writeEvent(store *models.Store, offer *models.Offer, orderID int, action string, revenue *float64, at time.Time) error {
	event := models.UpsellEvent{
		StoreID:   store.ID,
		OfferID:   offer.ID,
		OrderID:   orderID,
		Action:    action,
		Revenue:   revenue,
		CreatedAt: at,
	}
	return database.GetDB().Create(&event).Error
}
