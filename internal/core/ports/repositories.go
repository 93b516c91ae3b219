package ports

import (
	"context"

	"github.com/samirrijal/dayroute/internal/core/domain"
)

// FuelPriceRepository persists reference fuel prices per region.
type FuelPriceRepository interface {
	// Latest returns domain.ErrNotFound when the region has no price.
	Latest(ctx context.Context, region string) (domain.FuelPrice, error)
	Upsert(ctx context.Context, price domain.FuelPrice) error
	List(ctx context.Context) ([]domain.FuelPrice, error)
}
