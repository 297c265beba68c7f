package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// TasteProfile holds optional, customer-declared coffee preferences.
// FlavorPreferences is ordered by importance.
type TasteProfile struct {
	ID                uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID        uuid.UUID      `gorm:"column:customer_id;type:uuid;not null;uniqueIndex"`
	FavoriteRoast     string         `gorm:"column:favorite_roast;not null;default:''"`
	FlavorPreferences pq.StringArray `gorm:"column:flavor_preferences;type:text[];not null;default:'{}'"`
}
