package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/ccprep/internal/attempt"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures attempt queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // most recent N attempts (0 = unlimited)
	From  time.Time // date >= From
	To    time.Time // date <= To
}

// AttemptRepo persists completed exam attempts.
type AttemptRepo interface {
	// Save stores an attempt. Saving an existing id replaces its record but
	// keeps its position in the log.
	Save(ctx context.Context, a attempt.Attempt) error

	// List returns attempts in the order they were first saved.
	List(ctx context.Context, opts QueryOpts) ([]attempt.Attempt, error)

	// Get returns one attempt, or ErrNotFound.
	Get(ctx context.Context, id string) (attempt.Attempt, error)

	// Delete removes one attempt, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Clear removes every attempt.
	Clear(ctx context.Context) error

	// Count returns the number of stored attempts.
	Count(ctx context.Context) (int, error)
}

// Goal is the learner's target for the real exam.
type Goal struct {
	TargetScore int        `json:"targetScore"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// SettingsRepo stores user preferences as key/value pairs.
type SettingsRepo interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Goal returns the saved goal, or nil if none was set.
	Goal(ctx context.Context) (*Goal, error)

	// SetGoal saves the goal.
	SetGoal(ctx context.Context, g Goal) error
}
