package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/roach88/valvegear/internal/codec"
	"github.com/roach88/valvegear/internal/param"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// Value kinds stored in run_values.kind.
const (
	kindInput  = "input"
	kindOutput = "output"
)

// Run is one recorded calculation.
type Run struct {
	ID         string        `json:"id"`
	Seq        int64         `json:"seq"`
	InputsHash string        `json:"inputs_hash"`
	Inputs     param.Inputs  `json:"-"`
	Outputs    param.Outputs `json:"-"`
	Sane       bool          `json:"sane"`
}

// WriteRun appends a calculation to the history.
// The run is assigned a new ID and the next seq in a single transaction.
func (s *Store) WriteRun(ctx context.Context, in param.Inputs, out param.Outputs, sane bool) (Run, error) {
	hash, err := InputsHash(in)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}
	run := Run{
		ID:         s.idGen.Generate(),
		InputsHash: hash,
		Inputs:     in,
		Outputs:    out,
		Sane:       sane,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&run.Seq); err != nil {
		return Run{}, fmt.Errorf("write run: next seq: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, seq, inputs_hash, sane)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.Seq, run.InputsHash, boolToInt(run.Sane)); err != nil {
		return Run{}, fmt.Errorf("write run: insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_values (run_id, kind, idx, name, value)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return Run{}, fmt.Errorf("write run: prepare values: %w", err)
	}
	defer stmt.Close()

	for i, v := range in {
		id := param.InputID(i + 1)
		if _, err := stmt.ExecContext(ctx, run.ID, kindInput, int(id), id.Name(), codec.FormatValue(v)); err != nil {
			return Run{}, fmt.Errorf("write run: insert input %d: %w", id, err)
		}
	}
	for i, v := range out {
		id := param.OutputID(i + 1)
		if _, err := stmt.ExecContext(ctx, run.ID, kindOutput, int(id), id.Name(), codec.FormatValue(v)); err != nil {
			return Run{}, fmt.Errorf("write run: insert output %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("write run: commit: %w", err)
	}
	return run, nil
}

// ReadRun returns the run with the given ID.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	var run Run
	var sane int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, seq, inputs_hash, sane FROM runs WHERE id = ?
	`, id).Scan(&run.ID, &run.Seq, &run.InputsHash, &sane)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	run.Sane = sane != 0

	if err := s.loadValues(ctx, &run); err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, oldest first.
// A limit <= 0 returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, seq, inputs_hash, sane FROM runs ORDER BY seq ASC, id ASC COLLATE BINARY`
	args := []any{}
	if limit > 0 {
		query = `
			SELECT id, seq, inputs_hash, sane FROM runs
			WHERE seq > (SELECT COALESCE(MAX(seq), 0) FROM runs) - ?
			ORDER BY seq ASC, id ASC COLLATE BINARY`
		args = append(args, limit)
	}
	return s.queryRuns(ctx, query, args...)
}

// RunsWithInputs returns every run whose inputs hash matches, oldest first.
func (s *Store) RunsWithInputs(ctx context.Context, hash string) ([]Run, error) {
	return s.queryRuns(ctx, `
		SELECT id, seq, inputs_hash, sane FROM runs
		WHERE inputs_hash = ?
		ORDER BY seq ASC, id ASC COLLATE BINARY
	`, hash)
}

func (s *Store) queryRuns(ctx context.Context, query string, args ...any) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	var runs []Run
	for rows.Next() {
		var run Run
		var sane int
		if err := rows.Scan(&run.ID, &run.Seq, &run.InputsHash, &sane); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Sane = sane != 0
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	// Release the single connection before loading values.
	rows.Close()

	for i := range runs {
		if err := s.loadValues(ctx, &runs[i]); err != nil {
			return nil, fmt.Errorf("query runs: %w", err)
		}
	}
	return runs, nil
}

// loadValues fills run.Inputs and run.Outputs from run_values.
func (s *Store) loadValues(ctx context.Context, run *Run) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, idx, value FROM run_values
		WHERE run_id = ?
		ORDER BY kind ASC, idx ASC
	`, run.ID)
	if err != nil {
		return fmt.Errorf("load values: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind, text string
		var idx int
		if err := rows.Scan(&kind, &idx, &text); err != nil {
			return fmt.Errorf("load values: scan: %w", err)
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return fmt.Errorf("load values: %s %d: %w", kind, idx, err)
		}
		switch {
		case kind == kindInput && param.InputID(idx).Valid():
			run.Inputs[idx-1] = v
		case kind == kindOutput && param.OutputID(idx).Valid():
			run.Outputs[idx-1] = v
		default:
			return fmt.Errorf("load values: unexpected %s index %d", kind, idx)
		}
	}
	return rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
