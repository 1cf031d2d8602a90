package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Migrate creates the result-store schema if it does not exist.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TIMESTAMPTZ,
			finished_at TIMESTAMPTZ,
			sims INTEGER NOT NULL,
			draws INTEGER NOT NULL,
			scenarios INTEGER NOT NULL,
			uncertainty_flags TEXT[] NOT NULL DEFAULT '{}'
		)`,
		`CREATE TABLE IF NOT EXISTS metric_tables (
			id BIGSERIAL PRIMARY KEY,
			run_id TEXT NOT NULL REFERENCES runs(id),
			scenario_id INTEGER NOT NULL,
			arm TEXT NOT NULL,
			transform TEXT NOT NULL,
			row_count INTEGER NOT NULL,
			sim_count INTEGER NOT NULL,
			mean_value DOUBLE PRECISION NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS cost_ledgers (
			id BIGSERIAL PRIMARY KEY,
			run_id TEXT NOT NULL REFERENCES runs(id),
			scenario_id INTEGER NOT NULL,
			year INTEGER NOT NULL,
			component INTEGER NOT NULL CHECK (component BETWEEN 1 AND 11),
			draws DOUBLE PRECISION[] NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cost_ledgers_run_scenario
			ON cost_ledgers (run_id, scenario_id)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
