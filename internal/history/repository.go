package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/authlens/authlens-core/internal/checker"
	"github.com/authlens/authlens-core/internal/infrastructure/database"
)

// DefaultListLimit caps run listings when the caller does not specify one.
const DefaultListLimit = 20

// Repository defines storage operations for check runs.
type Repository interface {
	// SaveRun persists a run and all its results atomically.
	SaveRun(ctx context.Context, run Run) error

	// GetRun returns a run with its full results, or ErrRunNotFound.
	GetRun(ctx context.Context, id string) (Run, error)

	// ListRuns returns up to limit run summaries, newest first.
	// Results are not loaded. limit <= 0 uses DefaultListLimit.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

// SQLiteRepository implements Repository on the embedded SQLite store.
type SQLiteRepository struct {
	db *database.DB
}

// NewSQLiteRepository creates a repository backed by db.
func NewSQLiteRepository(db *database.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// SaveRun inserts the run row and its result rows in one transaction.
func (r *SQLiteRepository) SaveRun(ctx context.Context, run Run) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO check_runs (id, service, started_at, finished_at,
			profile_count, success_count, authorized_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Service,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.Profiles, run.Succeeded, run.Authorized)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO check_results (run_id, position, profile_id, label,
			success, authorized, display_name, profile_serial, error,
			started_at, finished_at, raw_variables)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing result insert: %w", err)
	}
	defer stmt.Close()

	for pos, res := range run.Results {
		authorized := false
		var displayName, profileSerial *string
		rawVariables := "{}"
		if res.Details != nil {
			authorized = res.Details.Authorized
			displayName = res.Details.DisplayName
			profileSerial = res.Details.ProfileSerial
			if encoded, err := json.Marshal(res.Details.RawVariables); err == nil {
				rawVariables = string(encoded)
			}
		}

		_, err = stmt.ExecContext(ctx,
			run.ID, pos, res.ProfileID, res.Label,
			res.Success, authorized, displayName, profileSerial, res.Error,
			res.StartedAt.UTC().Format(time.RFC3339Nano),
			res.FinishedAt.UTC().Format(time.RFC3339Nano),
			rawVariables)
		if err != nil {
			return fmt.Errorf("inserting result %d of run %s: %w", pos, run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run %s: %w", run.ID, err)
	}
	return nil
}

// GetRun loads a run and its results, ordered by input position.
func (r *SQLiteRepository) GetRun(ctx context.Context, id string) (Run, error) {
	var run Run
	var startedAt, finishedAt string

	err := r.db.QueryRowContext(ctx, `
		SELECT id, service, started_at, finished_at,
			profile_count, success_count, authorized_count
		FROM check_runs WHERE id = ?`, id).Scan(
		&run.ID, &run.Service, &startedAt, &finishedAt,
		&run.Profiles, &run.Succeeded, &run.Authorized)
	if err == sql.ErrNoRows {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("querying run %s: %w", id, err)
	}

	if run.StartedAt, err = parseStoredTime(startedAt); err != nil {
		return Run{}, fmt.Errorf("run %s started_at: %w", id, err)
	}
	if run.FinishedAt, err = parseStoredTime(finishedAt); err != nil {
		return Run{}, fmt.Errorf("run %s finished_at: %w", id, err)
	}

	run.Results, err = r.loadResults(ctx, id)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// ListRuns returns run summaries without results, newest first.
func (r *SQLiteRepository) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, service, started_at, finished_at,
			profile_count, success_count, authorized_count
		FROM check_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var startedAt, finishedAt string
		if err := rows.Scan(&run.ID, &run.Service, &startedAt, &finishedAt,
			&run.Profiles, &run.Succeeded, &run.Authorized); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		if run.StartedAt, err = parseStoredTime(startedAt); err != nil {
			return nil, fmt.Errorf("run %s started_at: %w", run.ID, err)
		}
		if run.FinishedAt, err = parseStoredTime(finishedAt); err != nil {
			return nil, fmt.Errorf("run %s finished_at: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// loadResults reads all result rows for a run in position order.
func (r *SQLiteRepository) loadResults(ctx context.Context, runID string) ([]checker.ProfileCheckResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT profile_id, label, success, authorized,
			display_name, profile_serial, error,
			started_at, finished_at, raw_variables
		FROM check_results WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying results of run %s: %w", runID, err)
	}
	defer rows.Close()

	var results []checker.ProfileCheckResult
	for rows.Next() {
		var res checker.ProfileCheckResult
		var authorized bool
		var displayName, profileSerial sql.NullString
		var startedAt, finishedAt, rawVariables string

		if err := rows.Scan(&res.ProfileID, &res.Label, &res.Success,
			&authorized, &displayName, &profileSerial, &res.Error,
			&startedAt, &finishedAt, &rawVariables); err != nil {
			return nil, fmt.Errorf("scanning result row: %w", err)
		}

		if res.StartedAt, err = parseStoredTime(startedAt); err != nil {
			return nil, fmt.Errorf("result started_at: %w", err)
		}
		if res.FinishedAt, err = parseStoredTime(finishedAt); err != nil {
			return nil, fmt.Errorf("result finished_at: %w", err)
		}

		if res.Success {
			details := &checker.AuthorizationDetails{Authorized: authorized}
			if displayName.Valid {
				details.DisplayName = &displayName.String
			}
			if profileSerial.Valid {
				details.ProfileSerial = &profileSerial.String
			}
			if err := json.Unmarshal([]byte(rawVariables), &details.RawVariables); err != nil {
				details.RawVariables = map[string]any{}
			}
			res.Details = details
		}

		results = append(results, res)
	}
	return results, rows.Err()
}

// parseStoredTime decodes a timestamp stored as RFC 3339 text.
func parseStoredTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", value, err)
	}
	return t.UTC(), nil
}
