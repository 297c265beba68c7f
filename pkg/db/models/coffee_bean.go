package models

import (
	"github.com/google/uuid"
)

// CoffeeBean describes a green/roasted bean offering. ProductID links the bean
// to the catalog product customers actually order.
type CoffeeBean struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	ProductID        *uuid.UUID `gorm:"column:product_id;type:uuid"`
	Name             string     `gorm:"column:name;not null"`
	OriginCountry    string     `gorm:"column:origin_country;not null"`
	Region           string     `gorm:"column:region;not null;default:''"`
	ProcessingMethod string     `gorm:"column:processing_method;not null;default:''"`
	TastingNotes     string     `gorm:"column:tasting_notes;not null;default:''"`
	Elevation        string     `gorm:"column:elevation;not null;default:''"`
	IsFeatured       bool       `gorm:"column:is_featured;not null;default:false"`
	StockQuantity    int        `gorm:"column:stock_quantity;not null;default:0"`
}
