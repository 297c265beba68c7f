package recommendations

import (
	"github.com/angelmondragon/brewlytics/internal/gateway"
	"github.com/angelmondragon/brewlytics/pkg/db/models"
	"github.com/google/uuid"
)

// MaxCandidates caps every strategy and the merged list.
const MaxCandidates = 20

// ProductRecommendation is a ranked catalog product with the reasons and
// strategies that contributed to its score.
type ProductRecommendation struct {
	Product gateway.CatalogProduct `json:"product"`
	Score   float64                `json:"score"`
	Reasons []string               `json:"reasons"`
	Sources []string               `json:"sources"`
}

// Bean is the public view of a coffee bean.
type Bean struct {
	ID               uuid.UUID  `json:"id"`
	ProductID        *uuid.UUID `json:"product_id,omitempty"`
	Name             string     `json:"name"`
	OriginCountry    string     `json:"origin_country"`
	Region           string     `json:"region"`
	ProcessingMethod string     `json:"processing_method"`
	TastingNotes     string     `json:"tasting_notes"`
	Elevation        string     `json:"elevation"`
	IsFeatured       bool       `json:"is_featured"`
	StockQuantity    int        `json:"stock_quantity"`
}

// BeanRecommendation is a coffee bean with its rule score.
type BeanRecommendation struct {
	Bean    Bean     `json:"bean"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

func beanView(b models.CoffeeBean) Bean {
	return Bean{
		ID:               b.ID,
		ProductID:        b.ProductID,
		Name:             b.Name,
		OriginCountry:    b.OriginCountry,
		Region:           b.Region,
		ProcessingMethod: b.ProcessingMethod,
		TastingNotes:     b.TastingNotes,
		Elevation:        b.Elevation,
		IsFeatured:       b.IsFeatured,
		StockQuantity:    b.StockQuantity,
	}
}
