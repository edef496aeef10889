// Package assumptions reads the valuation model's fixed terms from the
// service_rates and rate_config tables.
package assumptions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Simplici0/automation-roi/internal/roi"
)

// Load returns the stored assumption set. Every complexity tier must have a rate.
func Load(ctx context.Context, db *sql.DB) (roi.Assumptions, error) {
	var a roi.Assumptions
	err := db.QueryRowContext(ctx, `
		SELECT upfront_fee, post_automation_scrap_percent, labor_efficiency_gain, material_cost_multiplier
		FROM rate_config
		WHERE id = 1
	`).Scan(&a.UpfrontFee, &a.PostAutomationScrap, &a.LaborEfficiencyGain, &a.MaterialCostMultiplier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return roi.Assumptions{}, fmt.Errorf("rate_config singleton not found")
		}
		return roi.Assumptions{}, fmt.Errorf("query rate_config: %w", err)
	}

	a.PricingTable, err = loadServiceRates(ctx, db)
	if err != nil {
		return roi.Assumptions{}, err
	}

	for _, c := range roi.Complexities {
		if _, ok := a.PricingTable[c]; !ok {
			return roi.Assumptions{}, fmt.Errorf("service rate for %s complexity not found", c)
		}
	}

	return a, nil
}

func loadServiceRates(ctx context.Context, db *sql.DB) (map[roi.Complexity]float64, error) {
	rows, err := db.QueryContext(ctx, `SELECT complexity, price_per_part FROM service_rates`)
	if err != nil {
		return nil, fmt.Errorf("query service rates: %w", err)
	}
	defer rows.Close()

	rates := make(map[roi.Complexity]float64, len(roi.Complexities))
	for rows.Next() {
		var (
			tier  string
			price float64
		)
		if err := rows.Scan(&tier, &price); err != nil {
			return nil, fmt.Errorf("scan service rate: %w", err)
		}
		c, err := roi.ParseComplexity(tier)
		if err != nil {
			return nil, fmt.Errorf("service rate: %w", err)
		}
		rates[c] = price
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service rates: %w", err)
	}

	return rates, nil
}

// UpdateServiceRate sets the price per part for one tier.
func UpdateServiceRate(ctx context.Context, db *sql.DB, c roi.Complexity, price float64) error {
	result, err := db.ExecContext(ctx, `
		UPDATE service_rates
		SET
			price_per_part = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE complexity = ?
	`, price, string(c))
	if err != nil {
		return fmt.Errorf("update service rate %s: %w", c, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update service rate %s: %w", c, err)
	}
	if affected == 0 {
		return fmt.Errorf("service rate for %s complexity not found", c)
	}
	return nil
}
