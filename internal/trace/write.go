package trace

import (
	"context"
	"fmt"
	"time"
)

// CreateRun inserts a run row. The caller supplies the id (UUIDv7 in
// production, fixed in tests).
func (s *Store) CreateRun(ctx context.Context, id, scenario string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, scenario, created_at) VALUES (?, ?, ?)`,
		id, scenario, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to create run %s: %w", id, err)
	}
	return nil
}

// WriteEvent appends one event to a run's log. seq must be unique within
// the run; the harness guarantees this by sourcing seq from a Sequencer.
func (s *Store) WriteEvent(ctx context.Context, e Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (run_id, seq, type, phase, hook, step_text, outcome, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Seq, string(e.Type), e.Phase, e.Hook, e.StepText, e.Outcome, e.Detail,
	)
	if err != nil {
		return fmt.Errorf("failed to write event seq=%d for run %s: %w", e.Seq, e.RunID, err)
	}
	return nil
}
