package models

// AllModels returns all models in dependency order for migration
func AllModels() []interface{} {
	return []interface{}{
		// 1. Independent tables (no foreign keys)
		&Store{},

		// 2. Tables with single dependencies
		&Offer{}, // depends on: Store

		// 3. Fact tables
		&UpsellEvent{}, // depends on: Store, Offer
	}
}
