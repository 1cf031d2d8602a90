package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"gonum.org/v1/gonum/mat"

	"reefmetrics/domain/core"
	"reefmetrics/domain/cost"
	"reefmetrics/internal/econ"
	"reefmetrics/internal/runner"
)

// Store persists run manifests, metric table summaries and cost ledgers.
// It implements runner.Sink for the table/ledger half.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a store over an open connection pool.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Connect opens a postgres pool.
func Connect(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}

// RunRecord is the stored run manifest row.
type RunRecord struct {
	ID         string         `db:"id"`
	StartedAt  sql.NullTime   `db:"started_at"`
	FinishedAt sql.NullTime   `db:"finished_at"`
	Sims       int            `db:"sims"`
	Draws      int            `db:"draws"`
	Scenarios  int            `db:"scenarios"`
	Flags      pq.StringArray `db:"uncertainty_flags"`
}

// SaveRun inserts or updates a run manifest.
func (s *Store) SaveRun(ctx context.Context, m *runner.Manifest) error {
	flags := []string{}
	if m.Uncertainty.EcologicalReplicates {
		flags = append(flags, "ecological_replicates")
	}
	if m.Uncertainty.ShelterVolumeModel {
		flags = append(flags, "shelter_volume_model")
	}
	if m.Uncertainty.ExpertThresholds {
		flags = append(flags, "expert_thresholds")
	}
	if m.Uncertainty.RTIIntercept {
		flags = append(flags, "rti_intercept")
	}
	if m.Uncertainty.RFIIntercepts {
		flags = append(flags, "rfi_intercepts")
	}

	query := `INSERT INTO runs (id, started_at, finished_at, sims, draws, scenarios, uncertainty_flags)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET finished_at = EXCLUDED.finished_at`
	_, err := s.db.ExecContext(ctx, query,
		m.RunID.String(), m.StartedAt, m.FinishedAt, m.Sims, m.Draws, m.Scenarios, pq.Array(flags))
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// SaveTable stores a per-transform summary row rather than the full
// long-form block; the CSV writer owns the full tables.
func (s *Store) SaveTable(runID core.RunID, scenarioID int, arm runner.Arm, transform string, table *econ.BaseTable, values *mat.Dense) error {
	rows, sims := values.Dims()
	sum := 0.0
	for r := 0; r < rows; r++ {
		for c := 0; c < sims; c++ {
			sum += values.At(r, c)
		}
	}
	mean := 0.0
	if rows*sims > 0 {
		mean = sum / float64(rows*sims)
	}

	query := `INSERT INTO metric_tables (run_id, scenario_id, arm, transform, row_count, sim_count, mean_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.db.Exec(query, runID.String(), scenarioID, string(arm), transform, rows, sims, mean)
	if err != nil {
		return fmt.Errorf("failed to save metric table %s: %w", transform, err)
	}
	return nil
}

// SaveLedger stores every ledger row with its draw vector.
func (s *Store) SaveLedger(runID core.RunID, ledger *cost.Ledger) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin ledger tx: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO cost_ledgers (run_id, scenario_id, year, component, draws)
		VALUES ($1, $2, $3, $4, $5)`
	err = ledger.EachRow(func(year int, c cost.Component, draws []float64) error {
		_, err := tx.Exec(query, runID.String(), ledger.ScenarioID, year, int(c), pq.Array(draws))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save ledger rows: %w", err)
	}
	return tx.Commit()
}

// ListRuns returns stored run manifests, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunRecord, error) {
	var out []RunRecord
	err := s.db.SelectContext(ctx, &out,
		`SELECT id, started_at, finished_at, sims, draws, scenarios, uncertainty_flags FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return out, nil
}

// LedgerRow is one stored cost row.
type LedgerRow struct {
	ScenarioID int             `db:"scenario_id"`
	Year       int             `db:"year"`
	Component  int             `db:"component"`
	Draws      pq.Float64Array `db:"draws"`
}

// LedgerRows returns the cost rows for a run, optionally filtered by
// scenario.
func (s *Store) LedgerRows(ctx context.Context, runID string, scenarioID int) ([]LedgerRow, error) {
	query := `SELECT scenario_id, year, component, draws FROM cost_ledgers WHERE run_id = $1`
	args := []interface{}{runID}
	if scenarioID >= 0 {
		query += ` AND scenario_id = $2`
		args = append(args, scenarioID)
	}
	query += ` ORDER BY scenario_id, year, component`

	var out []LedgerRow
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("failed to load ledger rows: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, runID)
	}
	return out, nil
}
