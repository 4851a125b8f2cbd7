package history

import (
	"math"
	"sort"
	"time"

	"github.com/abhisek/ccprep/internal/catalog"
	"github.com/abhisek/ccprep/internal/exam"
	"github.com/abhisek/ccprep/internal/scoring"
)

// DefaultWeakThreshold is the domain average percentage below which a domain
// counts as weak.
const DefaultWeakThreshold = 70

// Stats summarizes the whole attempt log.
type Stats struct {
	TotalExams      int
	PassRate        int // percent of attempts passed
	AverageScore    int
	BestScore       int
	AverageDuration int // seconds
	// DomainAverages is the mean domain percentage over the attempts that
	// included the domain. Domains never attempted average 0.
	DomainAverages map[catalog.DomainKey]float64
}

// Stats returns summary statistics. The result is cached until the next
// mutation.
func (h *History) Stats() Stats {
	if h.statsCached != nil && h.statsGen == h.generation {
		return cloneStats(*h.statsCached)
	}
	s := computeStats(h)
	h.statsCached = &s
	h.statsGen = h.generation
	return cloneStats(s)
}

func cloneStats(s Stats) Stats {
	avgs := make(map[catalog.DomainKey]float64, len(s.DomainAverages))
	for k, v := range s.DomainAverages {
		avgs[k] = v
	}
	s.DomainAverages = avgs
	return s
}

func computeStats(h *History) Stats {
	s := Stats{DomainAverages: make(map[catalog.DomainKey]float64, 4)}
	for _, key := range catalog.DomainKeys() {
		s.DomainAverages[key] = 0
	}
	if len(h.attempts) == 0 {
		return s
	}

	type acc struct {
		sum   float64
		count int
	}
	domainAcc := make(map[catalog.DomainKey]*acc, 4)
	for _, key := range catalog.DomainKeys() {
		domainAcc[key] = &acc{}
	}

	var passed, totalScore, totalDuration int
	for _, a := range h.attempts {
		if a.Passed {
			passed++
		}
		totalScore += a.Score
		totalDuration += a.Duration
		s.BestScore = max(s.BestScore, a.Score)

		for key, ds := range a.DomainScores {
			da, ok := domainAcc[key]
			if !ok || ds.Total == 0 {
				continue
			}
			da.sum += float64(ds.Percentage)
			da.count++
		}
	}

	n := float64(len(h.attempts))
	s.TotalExams = len(h.attempts)
	s.PassRate = int(math.Round(float64(passed) / n * 100))
	s.AverageScore = int(math.Round(float64(totalScore) / n))
	s.AverageDuration = int(math.Round(float64(totalDuration) / n))
	for key, da := range domainAcc {
		if da.count > 0 {
			s.DomainAverages[key] = da.sum / float64(da.count)
		}
	}
	return s
}

// WeakDomains returns domains whose average is above 0 and below threshold,
// weakest first. A domain never attempted is not weak.
func (h *History) WeakDomains(threshold float64) []catalog.DomainKey {
	avgs := h.Stats().DomainAverages

	var weak []catalog.DomainKey
	for _, key := range catalog.DomainKeys() {
		if avg := avgs[key]; avg > 0 && avg < threshold {
			weak = append(weak, key)
		}
	}
	sort.SliceStable(weak, func(i, j int) bool { return avgs[weak[i]] < avgs[weak[j]] })
	return weak
}

// LastExamTrend returns the percent change of the latest score against the one
// before it. ok is false with fewer than two attempts.
func (h *History) LastExamTrend() (trend int, ok bool) {
	if len(h.attempts) < 2 {
		return 0, false
	}
	sorted := h.byDateDesc()
	last, prev := sorted[0].Score, sorted[1].Score
	if prev == 0 {
		return 0, false
	}
	return int(math.Round(float64(last-prev) / float64(prev) * 100)), true
}

// ScorePoint is one attempt on the score evolution chart.
type ScorePoint struct {
	ID     string
	Date   time.Time
	Mode   exam.Mode
	Score  int
	Passed bool
}

// Evolution returns every attempt's score, oldest first.
func (h *History) Evolution() []ScorePoint {
	sorted := h.byDateAsc()
	out := make([]ScorePoint, len(sorted))
	for i, a := range sorted {
		out[i] = ScorePoint{ID: a.ID, Date: a.Date, Mode: a.Mode, Score: a.Score, Passed: a.Passed}
	}
	return out
}

// DomainPerformance is the correctness of one domain summed over all attempts.
type DomainPerformance struct {
	Domain     catalog.DomainKey
	Correct    int
	Total      int
	Percentage int
}

// DomainPerformance sums correct and total answers per domain across the log.
// Domains with no questions answered are omitted.
func (h *History) DomainPerformance() []DomainPerformance {
	var out []DomainPerformance
	for _, key := range catalog.DomainKeys() {
		var correct, total int
		for _, a := range h.attempts {
			ds := a.DomainScores[key]
			correct += ds.Correct
			total += ds.Total
		}
		if total == 0 {
			continue
		}
		out = append(out, DomainPerformance{
			Domain:     key,
			Correct:    correct,
			Total:      total,
			Percentage: scoring.Percentage(correct, total),
		})
	}
	return out
}

// WeakPoint is a domain whose overall accuracy is below the weak threshold.
type WeakPoint struct {
	Domain         catalog.DomainKey
	Accuracy       int
	QuestionsWrong int
}

// WeakPoints returns at most limit domains with accuracy below threshold,
// weakest first.
func (h *History) WeakPoints(threshold, limit int) []WeakPoint {
	var out []WeakPoint
	for _, dp := range h.DomainPerformance() {
		if dp.Percentage >= threshold {
			continue
		}
		out = append(out, WeakPoint{
			Domain:         dp.Domain,
			Accuracy:       dp.Percentage,
			QuestionsWrong: dp.Total - dp.Correct,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Accuracy < out[j].Accuracy })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// DomainPoint is one attempt's percentage in a single domain.
type DomainPoint struct {
	Date       time.Time
	Percentage int
	Passed     bool
}

// DomainHistory returns one domain's percentage per attempt, oldest first.
func (h *History) DomainHistory(key catalog.DomainKey) []DomainPoint {
	sorted := h.byDateAsc()
	out := make([]DomainPoint, len(sorted))
	for i, a := range sorted {
		out[i] = DomainPoint{Date: a.Date, Percentage: a.DomainScores[key].Percentage, Passed: a.Passed}
	}
	return out
}
