package ports

import (
	"context"

	"VetNutrition/internal/domain"
)

// CatalogSource provides the two food tables. Implementations return the
// same immutable data on every call.
type CatalogSource interface {
	LegacyFoods(ctx context.Context) ([]domain.LegacyFood, error)
	CommercialFoods(ctx context.Context) ([]domain.CommercialFood, error)
}

// FactorSource provides the physiological-state multiplier rows per species.
type FactorSource interface {
	Factors(ctx context.Context) (map[domain.Species][]domain.StateFactor, error)
}

// GuaranteeImporter drafts a commercial food from a retailer product page.
type GuaranteeImporter interface {
	Import(ctx context.Context, pageURL string) (domain.CommercialFood, error)
}
