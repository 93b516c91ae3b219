package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/dayroute/internal/core/domain"
)

// FuelPriceRepo implements ports.FuelPriceRepository.
type FuelPriceRepo struct {
	db *DB
}

func NewFuelPriceRepo(db *DB) *FuelPriceRepo {
	return &FuelPriceRepo{db: db}
}

func (r *FuelPriceRepo) Latest(ctx context.Context, region string) (domain.FuelPrice, error) {
	var p domain.FuelPrice
	err := r.db.Pool.QueryRow(ctx, `
		SELECT region, price_per_liter, currency, updated_at
		FROM fuel_prices WHERE region = $1
	`, region).Scan(&p.Region, &p.PricePerLiter, &p.Currency, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.FuelPrice{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.FuelPrice{}, fmt.Errorf("query fuel price: %w", err)
	}
	return p, nil
}

func (r *FuelPriceRepo) Upsert(ctx context.Context, p domain.FuelPrice) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO fuel_prices (region, price_per_liter, currency, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (region) DO UPDATE SET
			price_per_liter = EXCLUDED.price_per_liter,
			currency = EXCLUDED.currency,
			updated_at = EXCLUDED.updated_at
	`, p.Region, p.PricePerLiter, p.Currency, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert fuel price: %w", err)
	}
	return nil
}

func (r *FuelPriceRepo) List(ctx context.Context) ([]domain.FuelPrice, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT region, price_per_liter, currency, updated_at
		FROM fuel_prices ORDER BY region
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prices := []domain.FuelPrice{}
	for rows.Next() {
		var p domain.FuelPrice
		if err := rows.Scan(&p.Region, &p.PricePerLiter, &p.Currency, &p.UpdatedAt); err != nil {
			return nil, err
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}
