package store

import (
	"context"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

const logSequenceTable = "attempt_log_sequence"

// logSequence numbers attempts in the order they enter the log. Attempt
// dates come from the host clock and may repeat or run backwards, so the
// log is ordered by this number instead. Save takes a number only for new
// ids: re-saving an existing attempt keeps the number it was first given,
// and with it its place in the log.
type logSequence struct {
	mu  sync.Mutex
	drv *entsql.Driver
}

// newLogSequence ensures the single counter row exists.
func newLogSequence(ctx context.Context, drv *entsql.Driver) (*logSequence, error) {
	create := `CREATE TABLE IF NOT EXISTS ` + logSequenceTable + ` (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		counter INTEGER NOT NULL
	)`
	if err := drv.Exec(ctx, create, []any{}, nil); err != nil {
		return nil, fmt.Errorf("create log sequence: %w", err)
	}

	query, args := entsql.Dialect(drv.Dialect()).
		Insert(logSequenceTable).
		Columns("id", "counter").
		Values(1, 0).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()).
		Query()
	if err := drv.Exec(ctx, query, args, nil); err != nil {
		return nil, fmt.Errorf("seed log sequence: %w", err)
	}
	return &logSequence{drv: drv}, nil
}

// Next bumps the counter and returns the new value. Values start at 1.
func (s *logSequence) Next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query, args := entsql.Dialect(s.drv.Dialect()).
		Update(logSequenceTable).
		Add("counter", 1).
		Where(entsql.EQ("id", 1)).
		Returning("counter").
		Query()

	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return 0, fmt.Errorf("next log sequence: %w", err)
	}
	defer rows.Close()

	n, err := entsql.ScanInt64(rows)
	if err != nil {
		return 0, fmt.Errorf("next log sequence: %w", err)
	}
	return n, nil
}
