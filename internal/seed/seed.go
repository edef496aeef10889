package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Simplici0/automation-roi/internal/roi"
)

const defaultCurrency = "INR"

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run inserts the given assumption set where rows are missing. Existing
// rows are left untouched, so running it repeatedly is safe.
func Run(ctx context.Context, db *sql.DB, a roi.Assumptions) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	for _, c := range roi.Complexities {
		if err := ensureServiceRate(ctx, tx, c, a.Price(c), &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}
	if err := ensureRateConfig(ctx, tx, a, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureServiceRate(ctx context.Context, tx *sql.Tx, c roi.Complexity, price float64, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM service_rates WHERE complexity = ?)`, string(c)).Scan(&exists); err != nil {
		return fmt.Errorf("check service rate %s existence: %w", c, err)
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO service_rates (complexity, price_per_part)
		VALUES (?, ?)
	`, string(c), price); err != nil {
		return fmt.Errorf("insert service rate %s: %w", c, err)
	}
	stats.Inserts++
	return nil
}

func ensureRateConfig(ctx context.Context, tx *sql.Tx, a roi.Assumptions, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM rate_config WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check rate config existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO rate_config (
			id,
			upfront_fee,
			post_automation_scrap_percent,
			labor_efficiency_gain,
			material_cost_multiplier,
			currency
		)
		VALUES (1, ?, ?, ?, ?, ?)
	`, a.UpfrontFee, a.PostAutomationScrap, a.LaborEfficiencyGain, a.MaterialCostMultiplier, defaultCurrency); err != nil {
		return fmt.Errorf("insert rate config singleton: %w", err)
	}
	stats.Inserts++
	return nil
}
