package database

import (
	"fmt"
	"log"

	"github.com/boostcart/models"
	"gorm.io/gorm"
)

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	log.Println("Starting GORM AutoMigrate...")

	for _, model := range models.AllModels() {
		stmt := &gorm.Statement{DB: db}
		tableName := "?"
		if err := stmt.Parse(model); err == nil {
			tableName = stmt.Schema.Table
		}

		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", tableName, err)
		}
		log.Printf("  Migrated table: %s", tableName)
	}

	// Composite indexes AutoMigrate doesn't cover: the widget's
	// per-store active-offer scan and the analytics date-range queries.
	if err := CreateIndexes(db); err != nil {
		log.Printf("Warning: some indexes could not be created: %v", err)
	}

	log.Println("GORM AutoMigrate completed successfully")
	return nil
}

// CreateIndexes creates composite indexes used by the hot query paths
func CreateIndexes(db *gorm.DB) error {
	indexes := []struct {
		name  string
		table string
		def   string
	}{
		{"idx_offers_store_status_type", "offers", "(store_id, status, type)"},
		{"idx_offers_priority_created", "offers", "(priority DESC, created_at DESC)"},
		{"idx_events_store_created", "upsell_events", "(store_id, created_at)"},
		{"idx_events_offer_action", "upsell_events", "(offer_id, action)"},
	}

	for _, idx := range indexes {
		query := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s %s", idx.name, idx.table, idx.def)
		if err := db.Exec(query).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
