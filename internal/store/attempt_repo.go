package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/ccprep/internal/attempt"
)

const attemptsTable = "attempts"

// dateLayout is fixed width so stored dates compare lexically.
const dateLayout = "2006-01-02T15:04:05.000000000Z"

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// attemptRepo implements AttemptRepo with the ent SQL builder. The full
// attempt is stored as JSON; the remaining columns serve filtering.
type attemptRepo struct {
	drv *entsql.Driver
	seq *logSequence
}

func (r *attemptRepo) builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *attemptRepo) Save(ctx context.Context, a attempt.Attempt) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal attempt: %w", err)
	}
	// On conflict the sequence column is left alone.
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	query, args := r.builder().Insert(attemptsTable).
		Columns("id", "sequence", "date", "mode", "score", "passed", "data").
		Values(a.ID, seq, formatDate(a.Date), string(a.Mode), a.Score, a.Passed, string(data)).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("date")
				u.SetExcluded("mode")
				u.SetExcluded("score")
				u.SetExcluded("passed")
				u.SetExcluded("data")
			}),
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save attempt %s: %w", a.ID, err)
	}
	return nil
}

func (r *attemptRepo) List(ctx context.Context, opts QueryOpts) ([]attempt.Attempt, error) {
	sel := r.builder().Select("data").From(entsql.Table(attemptsTable))
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("date", formatDate(opts.From)))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("date", formatDate(opts.To)))
	}
	if opts.Limit > 0 {
		sel.OrderBy(entsql.Desc("sequence")).Limit(opts.Limit)
	} else {
		sel.OrderBy(entsql.Asc("sequence"))
	}

	attempts, err := r.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	if opts.Limit > 0 {
		slices.Reverse(attempts)
	}
	return attempts, nil
}

func (r *attemptRepo) Get(ctx context.Context, id string) (attempt.Attempt, error) {
	sel := r.builder().Select("data").From(entsql.Table(attemptsTable)).
		Where(entsql.EQ("id", id)).
		Limit(1)
	attempts, err := r.query(ctx, sel)
	if err != nil {
		return attempt.Attempt{}, fmt.Errorf("get attempt %s: %w", id, err)
	}
	if len(attempts) == 0 {
		return attempt.Attempt{}, fmt.Errorf("attempt %s: %w", id, ErrNotFound)
	}
	return attempts[0], nil
}

func (r *attemptRepo) Delete(ctx context.Context, id string) error {
	query, args := r.builder().Delete(attemptsTable).Where(entsql.EQ("id", id)).Query()
	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("delete attempt %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete attempt %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("attempt %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *attemptRepo) Clear(ctx context.Context) error {
	query, args := r.builder().Delete(attemptsTable).Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("clear attempts: %w", err)
	}
	return nil
}

func (r *attemptRepo) Count(ctx context.Context) (int, error) {
	query, args := r.builder().Select(entsql.Count("*")).From(entsql.Table(attemptsTable)).Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}
	defer rows.Close()

	n, err := entsql.ScanInt(rows)
	if err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}
	return n, nil
}

// query runs sel and decodes the data column of every row.
func (r *attemptRepo) query(ctx context.Context, sel *entsql.Selector) ([]attempt.Attempt, error) {
	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []attempt.Attempt
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var a attempt.Attempt
		if err := json.Unmarshal([]byte(data), &a); err != nil {
			return nil, fmt.Errorf("decode attempt: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
