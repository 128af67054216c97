package trace

import (
	"context"
	"database/sql"
	"fmt"
)

// ListRuns returns every recorded run, newest last (insertion order).
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, scenario, created_at FROM runs ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Scenario, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ReadRun returns a run's events ordered by sequence number.
func (s *Store) ReadRun(ctx context.Context, runID string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, seq, type, phase, hook, step_text, outcome, detail
		 FROM events WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to read run %s: %w", runID, err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// scanEvent scans one events row.
func scanEvent(rows *sql.Rows) (Event, error) {
	var e Event
	var typ string
	if err := rows.Scan(&e.RunID, &e.Seq, &typ, &e.Phase, &e.Hook, &e.StepText, &e.Outcome, &e.Detail); err != nil {
		return Event{}, fmt.Errorf("failed to scan event: %w", err)
	}
	e.Type = EventType(typ)
	return e, nil
}
