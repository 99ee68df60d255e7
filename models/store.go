package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store represents stores table, one connected BigCommerce merchant account.
// Uninstalls deactivate the row instead of deleting it so a reinstall
// picks the tenant back up with its offers intact.
type Store struct {
	ID            string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	StoreHash     string     `gorm:"type:varchar(32);not null;uniqueIndex" json:"store_hash"`
	AccessToken   string     `gorm:"type:varchar(255);not null" json:"-"`
	StoreName     *string    `gorm:"type:varchar(200)" json:"store_name,omitempty"`
	StoreURL      *string    `gorm:"type:varchar(255)" json:"store_url,omitempty"`
	OwnerEmail    *string    `gorm:"type:varchar(255)" json:"owner_email,omitempty"`
	Plan          string     `gorm:"type:varchar(30);default:free_trial" json:"plan"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`
	InstalledAt   time.Time  `gorm:"autoCreateTime" json:"installed_at"`
	UninstalledAt *time.Time `json:"uninstalled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Relationships
	Offers []Offer       `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE" json:"offers,omitempty"`
	Events []UpsellEvent `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE" json:"events,omitempty"`
}

// TableName specifies the table name for Store
func (Store) TableName() string {
	return "stores"
}

// BeforeCreate assigns a UUID primary key
func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
