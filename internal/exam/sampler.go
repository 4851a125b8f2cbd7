package exam

import (
	"math"
	"math/rand/v2"

	"github.com/abhisek/ccprep/internal/catalog"
)

// Shortfall records a domain whose pool could not satisfy its target.
type Shortfall struct {
	Domain    catalog.DomainKey
	Requested int
	Delivered int
}

// Selection is the outcome of sampling: the chosen questions in delivery order
// plus any domains that came up short. A shortfall is not an error.
type Selection struct {
	Questions  []catalog.Question
	Shortfalls []Shortfall
}

// Short reports whether any target was not met.
func (s Selection) Short() bool {
	return len(s.Shortfalls) > 0
}

// IDs returns the selected question ids in delivery order.
func (s Selection) IDs() []string {
	ids := make([]string, len(s.Questions))
	for i, q := range s.Questions {
		ids[i] = q.ID
	}
	return ids
}

// Sampler draws exam questions. The zero value uses the global generator; a
// seeded Sampler is deterministic.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler returns a Sampler drawing from rng. A nil rng uses the global
// generator.
func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// NewSeededSampler returns a deterministic Sampler.
func NewSeededSampler(seed uint64) *Sampler {
	return NewSampler(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func (s *Sampler) intN(n int) int {
	if s == nil || s.rng == nil {
		return rand.IntN(n)
	}
	return s.rng.IntN(n)
}

// Shuffle returns a uniformly shuffled copy of items.
func Shuffle[T any](items []T) []T {
	return shuffleWith(nil, items)
}

func shuffleWith[T any](s *Sampler, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := s.intN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Select draws up to dist[d] questions per domain from pool. Questions whose id
// is in recent are used only after every fresh question of that domain. The
// combined result is shuffled so domains interleave.
func (s *Sampler) Select(pool []catalog.Question, dist Distribution, recent []string) Selection {
	recentSet := make(map[string]struct{}, len(recent))
	for _, id := range recent {
		recentSet[id] = struct{}{}
	}

	grouped := catalog.GroupByDomain(pool)
	var sel Selection
	for _, key := range catalog.DomainKeys() {
		want := dist[key]
		if want <= 0 {
			continue
		}

		var fresh, used []catalog.Question
		for _, q := range grouped[key] {
			if _, ok := recentSet[q.ID]; ok {
				used = append(used, q)
			} else {
				fresh = append(fresh, q)
			}
		}

		available := append(shuffleWith(s, fresh), shuffleWith(s, used)...)
		n := min(want, len(available))
		sel.Questions = append(sel.Questions, available[:n]...)
		if n < want {
			sel.Shortfalls = append(sel.Shortfalls, Shortfall{Domain: key, Requested: want, Delivered: n})
		}
	}

	sel.Questions = shuffleWith(s, sel.Questions)
	return sel
}

// SelectFiltered is Select restricted to the given domains. An empty domain
// list applies no restriction.
func (s *Sampler) SelectFiltered(pool []catalog.Question, domains []catalog.DomainKey, dist Distribution, recent []string) Selection {
	return s.Select(catalog.FilterDomains(pool, domains), dist, recent)
}

// SelectByIDs resolves ids against repo in the given order, skipping unknown
// ids and truncating to limit (0 means no limit). Order is preserved; nothing
// is shuffled.
func SelectByIDs(repo *catalog.Repository, ids []string, limit int) Selection {
	requested := len(ids)
	if limit > 0 && requested > limit {
		requested = limit
	}

	qs := repo.Lookup(ids)
	if limit > 0 && len(qs) > limit {
		qs = qs[:limit]
	}

	sel := Selection{Questions: qs}
	if len(qs) < requested {
		sel.Shortfalls = []Shortfall{{Requested: requested, Delivered: len(qs)}}
	}
	return sel
}

// WeakFocusDistribution spreads total evenly across domains and boosts each
// weak domain by a tenth of total shared among them, rescaled back to total.
// With no weak domains it returns the default distribution.
func WeakFocusDistribution(weak []catalog.DomainKey, total int) Distribution {
	if len(weak) == 0 {
		return DefaultDistribution()
	}

	base := total / 4
	boost := int(math.Floor(float64(total) * 0.1 / float64(len(weak))))

	dist := make(Distribution, 4)
	for _, key := range catalog.DomainKeys() {
		dist[key] = base
	}
	for _, key := range weak {
		if _, ok := dist[key]; ok {
			dist[key] += boost
		}
	}

	sum := dist.Total()
	if sum == 0 {
		return dist
	}
	scale := float64(total) / float64(sum)
	for key, n := range dist {
		dist[key] = int(math.Round(float64(n) * scale))
	}
	return dist
}

// SelectWeakFocus samples total questions with weak domains over-represented.
func (s *Sampler) SelectWeakFocus(pool []catalog.Question, weak []catalog.DomainKey, total int, recent []string) Selection {
	return s.Select(pool, WeakFocusDistribution(weak, total), recent)
}
