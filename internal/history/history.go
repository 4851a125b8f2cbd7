// Package history keeps the attempt log and derives the inputs future exams
// and the dashboard need: recent questions, missed questions, weak domains
// and summary statistics.
//
// Every analytic is recomputed from the attempt list; the only cached value is
// Stats, which is invalidated by every mutation. A History is not safe for
// concurrent use; the host serializes writes.
package history

import (
	"slices"
	"sort"

	"github.com/abhisek/ccprep/internal/attempt"
	"github.com/abhisek/ccprep/internal/catalog"
)

// DomainLookup resolves a question id to its domain. *catalog.Repository
// satisfies it.
type DomainLookup interface {
	DomainOf(questionID string) (catalog.DomainKey, bool)
}

// DefaultRecentWindow is how many recent attempts feed the anti-repetition set.
const DefaultRecentWindow = 3

// History is the ordered attempt log. Insertion order is chronological order.
type History struct {
	lookup   DomainLookup
	attempts []attempt.Attempt

	generation  uint64
	statsGen    uint64
	statsCached *Stats
}

// New returns a History over attempts, oldest first.
func New(lookup DomainLookup, attempts ...attempt.Attempt) *History {
	return &History{
		lookup:     lookup,
		attempts:   slices.Clone(attempts),
		generation: 1,
	}
}

// Add appends a completed attempt.
func (h *History) Add(a attempt.Attempt) {
	h.attempts = append(h.attempts, a)
	h.generation++
}

// Delete removes the attempt with id and reports whether one was found.
func (h *History) Delete(id string) bool {
	n := len(h.attempts)
	h.attempts = slices.DeleteFunc(h.attempts, func(a attempt.Attempt) bool { return a.ID == id })
	if len(h.attempts) == n {
		return false
	}
	h.generation++
	return true
}

// Clear removes every attempt.
func (h *History) Clear() {
	h.attempts = nil
	h.generation++
}

// Len returns the number of attempts.
func (h *History) Len() int { return len(h.attempts) }

// Attempts returns a copy of the log in insertion order.
func (h *History) Attempts() []attempt.Attempt {
	return slices.Clone(h.attempts)
}

// Get returns the attempt with id.
func (h *History) Get(id string) (attempt.Attempt, bool) {
	for _, a := range h.attempts {
		if a.ID == id {
			return a, true
		}
	}
	return attempt.Attempt{}, false
}

// byDateDesc returns a copy of the log, newest first. Among attempts with the
// same date the later insertion counts as newer.
func (h *History) byDateDesc() []attempt.Attempt {
	out := slices.Clone(h.attempts)
	slices.Reverse(out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// byDateAsc returns a copy of the log, oldest first.
func (h *History) byDateAsc() []attempt.Attempt {
	out := slices.Clone(h.attempts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// RecentAttempts returns the n most recently dated attempts, newest first.
func (h *History) RecentAttempts(n int) []attempt.Attempt {
	if n <= 0 {
		return nil
	}
	sorted := h.byDateDesc()
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// RecentQuestionIDs returns the union of questions used by the n most recent
// attempts.
func (h *History) RecentQuestionIDs(n int) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, a := range h.RecentAttempts(n) {
		for _, id := range a.QuestionsUsed {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func (h *History) domainOf(id string) (catalog.DomainKey, bool) {
	if h.lookup == nil {
		return "", false
	}
	return h.lookup.DomainOf(id)
}
