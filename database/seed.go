package database

import (
	"fmt"
	"log"

	"github.com/boostcart/models"
	"gorm.io/gorm"
)

// SeedData seeds a demo store with a couple of offers into an empty
// database so the dashboard and widget endpoints have something to serve
// during local development.
func SeedData(db *gorm.DB) error {
	log.Println("Checking if database needs seeding...")

	var count int64
	db.Model(&models.Store{}).Count(&count)
	if count > 0 {
		log.Println("Database already has data. Skipping seed.")
		return nil
	}

	log.Println("Database is empty. Starting seed process...")

	return db.Transaction(func(tx *gorm.DB) error {
		store, err := seedDemoStore(tx)
		if err != nil {
			return fmt.Errorf("failed to seed store: %w", err)
		}

		if err := seedDemoOffers(tx, store); err != nil {
			return fmt.Errorf("failed to seed offers: %w", err)
		}

		log.Println("Seed completed")
		return nil
	})
}

func seedDemoStore(tx *gorm.DB) (*models.Store, error) {
	name := "BoostCart Demo Store"
	url := "https://demo-store.mybigcommerce.com"
	email := "owner@demo-store.example"

	store := &models.Store{
		StoreHash:   "demohash1",
		AccessToken: "demo-access-token",
		StoreName:   &name,
		StoreURL:    &url,
		OwnerEmail:  &email,
		Plan:        "free_trial",
		IsActive:    true,
	}

	if err := tx.Create(store).Error; err != nil {
		return nil, err
	}

	log.Printf("  Seeded store: %s", store.StoreHash)
	return store, nil
}

func seedDemoOffers(tx *gorm.DB, store *models.Store) error {
	pct := models.DiscountPercentage
	pctValue := 15.0
	fixed := models.DiscountFixed
	fixedValue := 5.0
	desc := "Customers who bought a coffee maker usually want these."

	offers := []models.Offer{
		{
			StoreID:         store.ID,
			Name:            "Filter pack after coffee maker",
			Type:            models.OfferTypePostPurchase,
			Status:          models.OfferStatusActive,
			TriggerType:     models.TriggerProduct,
			TriggerIDs:      []string{"101", "102"},
			UpsellProductID: 250,
			DiscountType:    &pct,
			DiscountValue:   &pctValue,
			Title:           "Add a filter pack: 15% off",
			Description:     &desc,
			Priority:        10,
		},
		{
			StoreID:         store.ID,
			Name:            "Catch-all gift card",
			Type:            models.OfferTypeThankYou,
			Status:          models.OfferStatusActive,
			TriggerType:     models.TriggerAny,
			UpsellProductID: 300,
			DiscountType:    &fixed,
			DiscountValue:   &fixedValue,
			Title:           "Thanks for your order: $5 off a gift card",
			Priority:        0,
		},
	}

	for i := range offers {
		if err := tx.Create(&offers[i]).Error; err != nil {
			return err
		}
		log.Printf("  Seeded offer: %s", offers[i].Name)
	}

	return nil
}
