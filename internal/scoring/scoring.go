// Package scoring grades answers and converts them into the 100 to 1000 exam scale.
//
// Every function here is pure: the same questions and answers always produce
// the same result, so historical attempts can be re-scored.
package scoring

import (
	"math"
	"slices"

	"github.com/abhisek/ccprep/internal/catalog"
)

// Score range and pass mark of the exam scale.
const (
	MinScore     = 100
	MaxScore     = 1000
	PassingScore = 700
)

// passingPercent approximates the raw correctness needed to reach PassingScore.
const passingPercent = 70

// difficultyMultipliers fine-tune a question's weight by difficulty.
var difficultyMultipliers = map[catalog.Difficulty]float64{
	catalog.DifficultyEasy:   0.8,
	catalog.DifficultyMedium: 1.0,
	catalog.DifficultyHard:   1.2,
}

// DifficultyMultiplier returns the weight multiplier for a difficulty.
// Unknown difficulties count as medium.
func DifficultyMultiplier(d catalog.Difficulty) float64 {
	if m, ok := difficultyMultipliers[d]; ok {
		return m
	}
	return 1.0
}

// Answer is the response given to one question.
type Answer struct {
	QuestionID string             `json:"questionId"`
	Selected   []catalog.OptionID `json:"selected"`
	TimeSpent  int                `json:"timeSpent"` // seconds
}

// Answers maps question id to its answer.
type Answers map[string]Answer

// DomainScore is the correctness of one domain within an exam.
type DomainScore struct {
	Correct    int `json:"correct"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// DomainScores holds one DomainScore per domain; all four keys are present.
type DomainScores map[catalog.DomainKey]DomainScore

// Result bundles the derived outputs of grading an answer set.
type Result struct {
	Score        int
	Passed       bool
	Correct      int
	Total        int
	DomainScores DomainScores
}

// IsCorrect grades one answer. Multiple-choice answers must match the correct
// set exactly, in any order; there is no partial credit.
func IsCorrect(q catalog.Question, a Answer) bool {
	if q.Type == catalog.TypeSingleChoice {
		return len(a.Selected) == 1 && len(q.Correct) == 1 && a.Selected[0] == q.Correct[0]
	}

	if len(a.Selected) != len(q.Correct) {
		return false
	}
	selected := slices.Clone(a.Selected)
	correct := slices.Clone(q.Correct)
	slices.Sort(selected)
	slices.Sort(correct)
	return slices.Equal(selected, correct)
}

// isAnsweredCorrectly grades the answer for q in answers, treating a missing
// answer as incorrect.
func isAnsweredCorrectly(q catalog.Question, answers Answers) bool {
	a, ok := answers[q.ID]
	return ok && IsCorrect(q, a)
}

// DomainScoresFor aggregates correctness per domain.
func DomainScoresFor(questions []catalog.Question, answers Answers) DomainScores {
	type tally struct{ correct, total int }
	stats := make(map[catalog.DomainKey]*tally, 4)
	for _, key := range catalog.DomainKeys() {
		stats[key] = &tally{}
	}

	for _, q := range questions {
		t, ok := stats[q.Domain]
		if !ok {
			continue
		}
		t.total++
		if isAnsweredCorrectly(q, answers) {
			t.correct++
		}
	}

	scores := make(DomainScores, len(stats))
	for key, t := range stats {
		scores[key] = DomainScore{
			Correct:    t.correct,
			Total:      t.total,
			Percentage: Percentage(t.correct, t.total),
		}
	}
	return scores
}

// Percentage returns round(correct/total*100), or 0 when total is 0.
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// ComputeScore returns the weighted exam score in [MinScore, MaxScore].
//
// Each question weighs domain weight × difficulty multiplier. The weighted
// correct ratio maps linearly onto the scale: round(100 + ratio × 900).
// An empty exam scores MinScore.
func ComputeScore(questions []catalog.Question, answers Answers) int {
	if len(questions) == 0 {
		return MinScore
	}

	var weightedCorrect, weightedTotal float64
	for _, q := range questions {
		w := catalog.Weight(q.Domain) * DifficultyMultiplier(q.Difficulty)
		weightedTotal += w
		if isAnsweredCorrectly(q, answers) {
			weightedCorrect += w
		}
	}

	var raw float64
	if weightedTotal > 0 {
		raw = weightedCorrect / weightedTotal
	}

	score := int(math.Round(MinScore + raw*(MaxScore-MinScore)))
	return max(MinScore, min(MaxScore, score))
}

// IsPassing reports whether score meets the pass mark.
func IsPassing(score int) bool {
	return score >= PassingScore
}

// CountCorrect returns how many questions were answered correctly.
func CountCorrect(questions []catalog.Question, answers Answers) int {
	n := 0
	for _, q := range questions {
		if isAnsweredCorrectly(q, answers) {
			n++
		}
	}
	return n
}

// Evaluate grades a full answer set.
func Evaluate(questions []catalog.Question, answers Answers) Result {
	score := ComputeScore(questions, answers)
	return Result{
		Score:        score,
		Passed:       IsPassing(score),
		Correct:      CountCorrect(questions, answers),
		Total:        len(questions),
		DomainScores: DomainScoresFor(questions, answers),
	}
}

// Label returns a short description of a score band.
func Label(score int) string {
	switch {
	case score >= 900:
		return "Exceptional"
	case score >= 800:
		return "Excellent"
	case score >= PassingScore:
		return "Passed"
	case score >= 600:
		return "Close"
	case score >= 500:
		return "Needs Improvement"
	default:
		return "Keep Studying"
	}
}

// QuestionsToPass estimates how many more correct answers are needed to pass.
func QuestionsToPass(correct, total int) int {
	required := (total*passingPercent + 99) / 100
	return max(0, required-correct)
}
