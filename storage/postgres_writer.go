package storage

import (
	"database/sql"
	"fmt"
	"time"

	"airbnb-fee-simulator/models"
	"airbnb-fee-simulator/utils"

	_ "github.com/lib/pq"
)

// PostgresWriter persists simulation runs in PostgreSQL
type PostgresWriter struct {
	db     *sql.DB
	logger *utils.Logger
}

// NewPostgresWriter creates a new PostgresWriter and pings the DB
func NewPostgresWriter(connStr string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Minute * 5)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.Info("Connected to PostgreSQL successfully")
	return &PostgresWriter{db: db, logger: logger}, nil
}

// CreateTables creates the run and per-listing result tables if absent
func (w *PostgresWriter) CreateTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS simulation_runs (
		id                 SERIAL PRIMARY KEY,
		fee_high           NUMERIC(6,4) NOT NULL,
		fee_mid            NUMERIC(6,4) NOT NULL,
		fee_low            NUMERIC(6,4) NOT NULL,
		original_total     NUMERIC(16,2) NOT NULL,
		simulated_total    NUMERIC(16,2) NOT NULL,
		revenue_change_pct NUMERIC(8,3) NOT NULL,
		created_at         TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS simulation_listings (
		run_id          INTEGER REFERENCES simulation_runs(id) ON DELETE CASCADE,
		listing_id      BIGINT       NOT NULL,
		booked_group    VARCHAR(8)   NOT NULL,
		fee_before      NUMERIC(6,4) NOT NULL,
		fee_after       NUMERIC(6,4) NOT NULL,
		booked          NUMERIC(6,1) NOT NULL,
		booked_new      NUMERIC(10,4) NOT NULL,
		booked_new_days INTEGER      NOT NULL,
		sales           NUMERIC(14,2) NOT NULL,
		PRIMARY KEY (run_id, listing_id)
	);

	CREATE INDEX IF NOT EXISTS idx_sim_listings_group ON simulation_listings (booked_group);
	CREATE INDEX IF NOT EXISTS idx_sim_runs_created   ON simulation_runs (created_at);
	`
	_, err := w.db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	w.logger.Info("Simulation tables are ready")
	return nil
}

// SaveRun stores the run summary and its per-listing results in a single
// transaction.
func (w *PostgresWriter) SaveRun(run *models.SimulationRun) error {
	if run == nil || len(run.Listings) == 0 {
		return nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var runID int64
	err = tx.QueryRow(`
		INSERT INTO simulation_runs (fee_high, fee_mid, fee_low, original_total, simulated_total, revenue_change_pct, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, run.Schedule.High, run.Schedule.Mid, run.Schedule.Low,
		run.Summary.OriginalTotal, run.Summary.SimulatedTotal, run.Summary.RevenueChangePct,
		createdAt).Scan(&runID)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO simulation_listings (run_id, listing_id, booked_group, fee_before, fee_after, booked, booked_new, booked_new_days, sales)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (run_id, listing_id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, l := range run.Listings {
		_, err = stmt.Exec(
			runID,
			l.ID,
			string(l.BookedGroup),
			l.FeeBefore,
			l.FeeAfter,
			l.Booked,
			l.BookedNew,
			l.BookedNewDays(),
			l.Sales,
		)
		if err != nil {
			w.logger.Warn("Skipping insert for listing %d: %v", l.ID, err)
			continue
		}
		inserted++
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.logger.Info("Stored run %d with %d/%d listings in PostgreSQL", runID, inserted, len(run.Listings))
	return nil
}

// Close closes the database connection
func (w *PostgresWriter) Close() error {
	if w.db != nil {
		return w.db.Close()
	}
	return nil
}
