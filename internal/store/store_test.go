package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/ccprep/internal/attempt"
	"github.com/abhisek/ccprep/internal/catalog"
	"github.com/abhisek/ccprep/internal/exam"
	"github.com/abhisek/ccprep/internal/scoring"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var baseDate = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func testAttempt(id string, day int, score int) attempt.Attempt {
	return attempt.Attempt{
		ID:             id,
		Date:           baseDate.AddDate(0, 0, day),
		Mode:           exam.ModeOfficial,
		Score:          score,
		Passed:         scoring.IsPassing(score),
		Duration:       600,
		TotalQuestions: 1,
		CorrectAnswers: 1,
		Answers: []attempt.AnswerRecord{
			{QuestionID: "q1", Selected: []catalog.OptionID{"A"}, Correct: true, TimeSpent: 30},
		},
		DomainScores: scoring.DomainScores{
			catalog.Domain1: {Correct: 1, Total: 1, Percentage: 100},
			catalog.Domain2: {},
			catalog.Domain3: {},
			catalog.Domain4: {},
		},
		QuestionsUsed: []string{"q1"},
	}
}

func listIDs(t *testing.T, repo AttemptRepo, opts QueryOpts) []string {
	t.Helper()
	got, err := repo.List(context.Background(), opts)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	ids := make([]string, len(got))
	for i, a := range got {
		ids[i] = a.ID
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"attempts", "settings", "attempt_log_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "again.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := s.AttemptRepo().Save(ctx, testAttempt("a1", 0, 800)); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer s.Close()

	n, err := s.AttemptRepo().Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("count after reopen = %d, want 1", n)
	}
}

func TestAttemptSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.AttemptRepo()
	ctx := context.Background()

	want := testAttempt("exam-1", 0, 730)
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Get(ctx, "exam-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != want.ID || got.Score != 730 || !got.Passed || got.Mode != exam.ModeOfficial {
		t.Errorf("got %+v", got)
	}
	if !got.Date.Equal(want.Date) {
		t.Errorf("date = %v, want %v", got.Date, want.Date)
	}
	if len(got.Answers) != 1 || got.Answers[0].Selected[0] != "A" || got.Answers[0].TimeSpent != 30 {
		t.Errorf("answers = %+v", got.Answers)
	}
	if got.DomainScores[catalog.Domain1].Correct != 1 {
		t.Errorf("domain scores = %+v", got.DomainScores)
	}
}

func TestAttemptListOrder(t *testing.T) {
	s := openTestStore(t)
	repo := s.AttemptRepo()
	ctx := context.Background()

	// Saved out of date order; the log keeps save order.
	for _, a := range []attempt.Attempt{
		testAttempt("b", 2, 700),
		testAttempt("a", 1, 650),
		testAttempt("c", 3, 900),
	} {
		if err := repo.Save(ctx, a); err != nil {
			t.Fatalf("save %s: %v", a.ID, err)
		}
	}

	if got := listIDs(t, repo, QueryOpts{}); !equalIDs(got, []string{"b", "a", "c"}) {
		t.Errorf("list = %v", got)
	}
	if got := listIDs(t, repo, QueryOpts{Limit: 2}); !equalIDs(got, []string{"a", "c"}) {
		t.Errorf("list limit 2 = %v", got)
	}
	if got := listIDs(t, repo, QueryOpts{From: baseDate.AddDate(0, 0, 2)}); !equalIDs(got, []string{"b", "c"}) {
		t.Errorf("list from = %v", got)
	}
	if got := listIDs(t, repo, QueryOpts{To: baseDate.AddDate(0, 0, 2)}); !equalIDs(got, []string{"b", "a"}) {
		t.Errorf("list to = %v", got)
	}
}

func TestAttemptSaveReplacesInPlace(t *testing.T) {
	s := openTestStore(t)
	repo := s.AttemptRepo()
	ctx := context.Background()

	for _, a := range []attempt.Attempt{testAttempt("a", 0, 500), testAttempt("b", 1, 600)} {
		if err := repo.Save(ctx, a); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	if err := repo.Save(ctx, testAttempt("a", 0, 950)); err != nil {
		t.Fatalf("resave: %v", err)
	}

	if got := listIDs(t, repo, QueryOpts{}); !equalIDs(got, []string{"a", "b"}) {
		t.Errorf("list = %v", got)
	}
	got, err := repo.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Score != 950 {
		t.Errorf("score = %d, want 950", got.Score)
	}
}

func TestAttemptNotFound(t *testing.T) {
	s := openTestStore(t)
	repo := s.AttemptRepo()
	ctx := context.Background()

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("get missing: err = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete missing: err = %v, want ErrNotFound", err)
	}
}

func TestAttemptDeleteAndClear(t *testing.T) {
	s := openTestStore(t)
	repo := s.AttemptRepo()
	ctx := context.Background()

	for i, id := range []string{"a", "b", "c"} {
		if err := repo.Save(ctx, testAttempt(id, i, 700)); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	if err := repo.Delete(ctx, "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := listIDs(t, repo, QueryOpts{}); !equalIDs(got, []string{"a", "c"}) {
		t.Errorf("after delete = %v", got)
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("count after clear = %d, want 0", n)
	}
}

func TestSettings(t *testing.T) {
	s := openTestStore(t)
	repo := s.SettingsRepo()
	ctx := context.Background()

	if _, err := repo.Get(ctx, "theme"); !errors.Is(err, ErrNotFound) {
		t.Errorf("get unset: err = %v, want ErrNotFound", err)
	}

	if err := repo.Set(ctx, "theme", "dark"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(ctx, "theme", "light"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := repo.Get(ctx, "theme")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "light" {
		t.Errorf("theme = %q, want light", got)
	}
}

func TestGoal(t *testing.T) {
	s := openTestStore(t)
	repo := s.SettingsRepo()
	ctx := context.Background()

	g, err := repo.Goal(ctx)
	if err != nil {
		t.Fatalf("goal (unset): %v", err)
	}
	if g != nil {
		t.Fatalf("expected nil goal, got %+v", g)
	}

	deadline := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	if err := repo.SetGoal(ctx, Goal{TargetScore: 850, Deadline: &deadline}); err != nil {
		t.Fatalf("set goal: %v", err)
	}

	g, err = repo.Goal(ctx)
	if err != nil {
		t.Fatalf("goal: %v", err)
	}
	if g == nil || g.TargetScore != 850 || g.Deadline == nil || !g.Deadline.Equal(deadline) {
		t.Errorf("goal = %+v", g)
	}
}

func TestLogSequence(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Open already handed the store its own counter; a second handle
	// shares the same row and must not reseed it.
	seq, err := newLogSequence(ctx, s.drv)
	if err != nil {
		t.Fatalf("new log sequence: %v", err)
	}

	for i := 1; i <= 5; i++ {
		got, err := seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if got != int64(i) {
			t.Errorf("next = %d, want %d", got, i)
		}
	}

	if _, err := newLogSequence(ctx, s.drv); err != nil {
		t.Fatalf("reopen log sequence: %v", err)
	}
	got, err := seq.Next(ctx)
	if err != nil {
		t.Fatalf("next after reopen: %v", err)
	}
	if got != 6 {
		t.Errorf("next after reopen = %d, want 6", got)
	}
}

func TestResavedAttemptKeepsLogPosition(t *testing.T) {
	s := openTestStore(t)
	repo := s.AttemptRepo()
	ctx := context.Background()

	// Dates run backwards relative to save order.
	for _, a := range []attempt.Attempt{
		testAttempt("late", 5, 500),
		testAttempt("early", 1, 600),
		testAttempt("mid", 3, 700),
	} {
		if err := repo.Save(ctx, a); err != nil {
			t.Fatalf("save %s: %v", a.ID, err)
		}
	}
	// Re-saving the first attempt, even with a new date, keeps it first.
	if err := repo.Save(ctx, testAttempt("late", 9, 900)); err != nil {
		t.Fatalf("resave: %v", err)
	}

	want := []string{"late", "early", "mid"}
	if got := listIDs(t, repo, QueryOpts{}); !equalIDs(got, want) {
		t.Errorf("list = %v, want %v", got, want)
	}
	if got := listIDs(t, repo, QueryOpts{Limit: 1}); !equalIDs(got, []string{"mid"}) {
		t.Errorf("most recent = %v, want [mid]", got)
	}
}

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "ccprep.db")
	if err := EnsureDir(path); err != nil {
		t.Fatalf("ensure dir: %v", err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open in created dir: %v", err)
	}
	s.Close()
}

func TestDefaultDBPathFromEnv(t *testing.T) {
	want := filepath.Join(t.TempDir(), "env", "custom.db")
	t.Setenv("CCPREP_DB", want)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}
