package history

import (
	"fmt"
	"slices"
	"sort"

	"github.com/abhisek/ccprep/internal/catalog"
)

// SortOrder orders missed questions for review.
type SortOrder string

const (
	// SortRecent puts questions missed in the latest attempts first.
	SortRecent SortOrder = "recent"
	// SortFrequent puts the most often missed questions first.
	SortFrequent SortOrder = "frequent"
)

// ParseSortOrder converts a user-supplied string into a SortOrder.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case SortRecent, SortFrequent:
		return SortOrder(s), nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// DefaultTopMissedLimit is the TopMissedQuestions limit used when none is given.
const DefaultTopMissedLimit = 10

// WrongFilter selects and orders previously missed questions.
type WrongFilter struct {
	// Domains limits the result. Empty means every domain.
	Domains []catalog.DomainKey
	SortBy  SortOrder
}

// MissedQuestion is a question with its total miss count.
type MissedQuestion struct {
	QuestionID string
	Count      int
	// Domain is empty when the question is no longer in the catalog.
	Domain catalog.DomainKey
}

// missTally counts misses per question. ids are in first-miss order; last
// holds the index of the latest attempt with a miss.
type missTally struct {
	ids   []string
	count map[string]int
	last  map[string]int
}

func (h *History) tallyMisses() missTally {
	t := missTally{count: make(map[string]int), last: make(map[string]int)}
	for i, a := range h.attempts {
		for _, r := range a.Answers {
			if r.Correct {
				continue
			}
			if _, ok := t.count[r.QuestionID]; !ok {
				t.ids = append(t.ids, r.QuestionID)
			}
			t.count[r.QuestionID]++
			t.last[r.QuestionID] = i
		}
	}
	return t
}

// WrongQuestionIDs returns every question answered incorrectly in any attempt,
// deduplicated, in first-miss order.
func (h *History) WrongQuestionIDs() []string {
	return h.tallyMisses().ids
}

// FilteredWrongQuestionIDs returns missed questions restricted to f.Domains and
// ordered by f.SortBy. Questions whose domain cannot be resolved are dropped.
// Ties keep first-miss order.
func (h *History) FilteredWrongQuestionIDs(f WrongFilter) []string {
	t := h.tallyMisses()

	ids := make([]string, 0, len(t.ids))
	for _, id := range t.ids {
		d, ok := h.domainOf(id)
		if !ok {
			continue
		}
		if len(f.Domains) > 0 && !slices.Contains(f.Domains, d) {
			continue
		}
		ids = append(ids, id)
	}

	if f.SortBy == SortFrequent {
		sort.SliceStable(ids, func(i, j int) bool { return t.count[ids[i]] > t.count[ids[j]] })
	} else {
		sort.SliceStable(ids, func(i, j int) bool { return t.last[ids[i]] > t.last[ids[j]] })
	}
	return ids
}

// TopMissedQuestions returns the most often missed questions, highest count
// first, truncated to limit. A non-positive limit uses DefaultTopMissedLimit.
func (h *History) TopMissedQuestions(limit int) []MissedQuestion {
	if limit <= 0 {
		limit = DefaultTopMissedLimit
	}

	t := h.tallyMisses()
	out := make([]MissedQuestion, 0, len(t.ids))
	for _, id := range t.ids {
		d, _ := h.domainOf(id)
		out = append(out, MissedQuestion{QuestionID: id, Count: t.count[id], Domain: d})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// MissedQuestionsByDomain returns every missed question of one domain, highest
// count first.
func (h *History) MissedQuestionsByDomain(key catalog.DomainKey) []MissedQuestion {
	t := h.tallyMisses()
	var out []MissedQuestion
	for _, id := range t.ids {
		d, ok := h.domainOf(id)
		if !ok || d != key {
			continue
		}
		out = append(out, MissedQuestion{QuestionID: id, Count: t.count[id], Domain: d})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
