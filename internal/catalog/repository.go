package catalog

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

//go:embed data/*.json
var sampleData embed.FS

// Repository is the read-only question catalog with precomputed indices.
type Repository struct {
	questions []Question
	byID      map[string]int
	byDomain  map[DomainKey][]Question
}

// New builds a repository from already-normalized questions.
// Duplicate ids are rejected.
func New(questions []Question) (*Repository, error) {
	r := &Repository{
		questions: slices.Clone(questions),
		byID:      make(map[string]int, len(questions)),
		byDomain:  make(map[DomainKey][]Question, len(domains)),
	}

	for i, q := range r.questions {
		if _, dup := r.byID[q.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, q.ID)
		}
		if _, ok := byKey[q.Domain]; !ok {
			return nil, &LoadError{Index: i, ID: q.ID, Err: fmt.Errorf("unknown domain: %q", q.Domain)}
		}
		r.byID[q.ID] = i
		r.byDomain[q.Domain] = append(r.byDomain[q.Domain], q)
	}
	return r, nil
}

// Default builds a repository from the embedded sample catalog.
func Default() (*Repository, error) {
	qs, err := LoadFS(sampleData, "data/*.json")
	if err != nil {
		return nil, fmt.Errorf("load sample catalog: %w", err)
	}
	return New(qs)
}

// Open loads a catalog from a single JSON file or from every *.json file in a directory.
func Open(path string) (*Repository, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat catalog: %w", err)
	}

	var qs []Question
	if info.IsDir() {
		qs, err = LoadFS(os.DirFS(path), "*.json")
	} else {
		qs, err = LoadFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	}
	if err != nil {
		return nil, err
	}
	return New(qs)
}

// All returns every question in load order.
func (r *Repository) All() []Question {
	return slices.Clone(r.questions)
}

// ByDomain returns the questions of one domain in load order.
func (r *Repository) ByDomain(key DomainKey) []Question {
	return slices.Clone(r.byDomain[key])
}

// Counts returns the number of questions per domain. Every domain is present.
func (r *Repository) Counts() map[DomainKey]int {
	counts := make(map[DomainKey]int, len(domains))
	for _, d := range domains {
		counts[d.Key] = len(r.byDomain[d.Key])
	}
	return counts
}

// Total returns the number of questions in the catalog.
func (r *Repository) Total() int {
	return len(r.questions)
}

// Get returns a question by id.
func (r *Repository) Get(id string) (Question, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Question{}, false
	}
	return r.questions[i], true
}

// Lookup maps ids to questions, preserving order and skipping unknown ids.
func (r *Repository) Lookup(ids []string) []Question {
	out := make([]Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := r.Get(id); ok {
			out = append(out, q)
		}
	}
	return out
}

// DomainOf returns the domain of a question id.
func (r *Repository) DomainOf(id string) (DomainKey, bool) {
	q, ok := r.Get(id)
	if !ok {
		return "", false
	}
	return q.Domain, true
}

// GroupByDomain partitions questions by domain, keeping input order.
func GroupByDomain(questions []Question) map[DomainKey][]Question {
	grouped := make(map[DomainKey][]Question, len(domains))
	for _, q := range questions {
		grouped[q.Domain] = append(grouped[q.Domain], q)
	}
	return grouped
}

// FilterDomains keeps the questions whose domain is in keys.
// An empty key list keeps everything.
func FilterDomains(questions []Question, keys []DomainKey) []Question {
	if len(keys) == 0 {
		return slices.Clone(questions)
	}
	out := make([]Question, 0, len(questions))
	for _, q := range questions {
		if slices.Contains(keys, q.Domain) {
			out = append(out, q)
		}
	}
	return out
}
