package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/ccprep/internal/catalog"
)

func single(id string, domain catalog.DomainKey, diff catalog.Difficulty) catalog.Question {
	return catalog.Question{
		ID:         id,
		Domain:     domain,
		Difficulty: diff,
		Type:       catalog.TypeSingleChoice,
		Prompt:     "q " + id,
		Options:    []catalog.Option{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}},
		Correct:    []catalog.OptionID{"A"},
	}
}

func multiple(id string, correct ...catalog.OptionID) catalog.Question {
	return catalog.Question{
		ID:         id,
		Domain:     catalog.Domain3,
		Difficulty: catalog.DifficultyMedium,
		Type:       catalog.TypeMultipleChoice,
		Prompt:     "q " + id,
		Options:    []catalog.Option{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}, {ID: "E"}},
		Correct:    correct,
	}
}

func answer(id string, selected ...catalog.OptionID) Answer {
	return Answer{QuestionID: id, Selected: selected}
}

func TestIsCorrect_SingleChoice(t *testing.T) {
	q := single("s", catalog.Domain1, catalog.DifficultyMedium)

	tests := []struct {
		name     string
		selected []catalog.OptionID
		want     bool
	}{
		{"correct option", []catalog.OptionID{"A"}, true},
		{"wrong option", []catalog.OptionID{"B"}, false},
		{"nothing selected", nil, false},
		{"two selected including correct", []catalog.OptionID{"A", "B"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCorrect(q, answer("s", tt.selected...)))
		})
	}
}

func TestIsCorrect_MultipleChoiceExactness(t *testing.T) {
	q := multiple("m", "A", "C", "E")

	assert.False(t, IsCorrect(q, answer("m", "A", "C")), "2 of 3 correct must not get credit")
	assert.True(t, IsCorrect(q, answer("m", "E", "A", "C")), "order must not matter")
	assert.False(t, IsCorrect(q, answer("m", "A", "C", "E", "B")), "extra selection is wrong")
	assert.False(t, IsCorrect(q, answer("m", "A", "C", "B")), "same size, different set")
}

func TestIsCorrect_DoesNotReorderInput(t *testing.T) {
	q := multiple("m", "C", "A")
	a := answer("m", "C", "A")
	require.True(t, IsCorrect(q, a))
	assert.Equal(t, []catalog.OptionID{"C", "A"}, a.Selected)
	assert.Equal(t, []catalog.OptionID{"C", "A"}, q.Correct)
}

// One question per domain, all medium, domain2 wrong: 1.00 total weight,
// 0.70 correct weight, 730 points.
func TestComputeScore_FourDomainScenario(t *testing.T) {
	questions := []catalog.Question{
		single("q1", catalog.Domain1, catalog.DifficultyMedium),
		single("q2", catalog.Domain2, catalog.DifficultyMedium),
		single("q3", catalog.Domain3, catalog.DifficultyMedium),
		single("q4", catalog.Domain4, catalog.DifficultyMedium),
	}
	answers := Answers{
		"q1": answer("q1", "A"),
		"q2": answer("q2", "B"),
		"q3": answer("q3", "A"),
		"q4": answer("q4", "A"),
	}

	res := Evaluate(questions, answers)
	assert.Equal(t, 730, res.Score)
	assert.True(t, res.Passed)
	assert.Equal(t, 3, res.Correct)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, DomainScore{Correct: 0, Total: 1, Percentage: 0}, res.DomainScores[catalog.Domain2])
	assert.Equal(t, DomainScore{Correct: 1, Total: 1, Percentage: 100}, res.DomainScores[catalog.Domain1])
}

func fullExam() []catalog.Question {
	var qs []catalog.Question
	diffs := []catalog.Difficulty{catalog.DifficultyEasy, catalog.DifficultyMedium, catalog.DifficultyHard}
	dist := map[catalog.DomainKey]int{catalog.Domain1: 16, catalog.Domain2: 19, catalog.Domain3: 22, catalog.Domain4: 8}
	for _, key := range catalog.DomainKeys() {
		for i := 0; i < dist[key]; i++ {
			qs = append(qs, single(fmt.Sprintf("%s-%02d", key, i), key, diffs[i%len(diffs)]))
		}
	}
	return qs
}

func TestComputeScore_Boundaries(t *testing.T) {
	questions := fullExam()

	allRight := Answers{}
	allWrong := Answers{}
	for _, q := range questions {
		allRight[q.ID] = answer(q.ID, "A")
		allWrong[q.ID] = answer(q.ID, "D")
	}

	assert.Equal(t, MaxScore, ComputeScore(questions, allRight))
	assert.Equal(t, MinScore, ComputeScore(questions, allWrong))
	assert.Equal(t, MinScore, ComputeScore(questions, Answers{}), "unanswered exam scores the floor")
}

func TestComputeScore_EmptyExam(t *testing.T) {
	assert.Equal(t, MinScore, ComputeScore(nil, nil))
	assert.False(t, IsPassing(ComputeScore(nil, nil)))
}

func TestComputeScore_SeventyPercentPasses(t *testing.T) {
	var questions []catalog.Question
	answers := Answers{}
	for i := 0; i < 10; i++ {
		q := single(fmt.Sprintf("q%d", i), catalog.Domain1, catalog.DifficultyMedium)
		questions = append(questions, q)
		if i < 7 {
			answers[q.ID] = answer(q.ID, "A")
		}
	}

	score := ComputeScore(questions, answers)
	assert.GreaterOrEqual(t, score, PassingScore)
	assert.Equal(t, 730, score)
}

func TestComputeScore_DifficultyWeighting(t *testing.T) {
	easy := single("e", catalog.Domain1, catalog.DifficultyEasy)
	hard := single("h", catalog.Domain1, catalog.DifficultyHard)
	questions := []catalog.Question{easy, hard}

	// weights 0.192 and 0.288: hard alone is 60%, easy alone 40%.
	assert.Equal(t, 640, ComputeScore(questions, Answers{"h": answer("h", "A")}))
	assert.Equal(t, 460, ComputeScore(questions, Answers{"e": answer("e", "A")}))
}

func TestComputeScore_Idempotent(t *testing.T) {
	questions := fullExam()
	answers := Answers{}
	for i, q := range questions {
		if i%3 != 0 {
			answers[q.ID] = answer(q.ID, "A")
		}
	}

	first := ComputeScore(questions, answers)
	second := ComputeScore(questions, answers)
	assert.Equal(t, first, second)
}

func TestDomainScoresFor_AllDomainsPresent(t *testing.T) {
	scores := DomainScoresFor([]catalog.Question{single("a", catalog.Domain2, catalog.DifficultyEasy)}, nil)
	require.Len(t, scores, 4)
	assert.Equal(t, DomainScore{}, scores[catalog.Domain1])
	assert.Equal(t, DomainScore{Correct: 0, Total: 1, Percentage: 0}, scores[catalog.Domain2])
}

func TestPercentage_Rounds(t *testing.T) {
	assert.Equal(t, 67, Percentage(2, 3))
	assert.Equal(t, 33, Percentage(1, 3))
	assert.Equal(t, 0, Percentage(0, 0))
}

func TestLabel(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{1000, "Exceptional"},
		{850, "Excellent"},
		{700, "Passed"},
		{699, "Close"},
		{500, "Needs Improvement"},
		{100, "Keep Studying"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Label(tt.score), "score %d", tt.score)
	}
}

func TestQuestionsToPass(t *testing.T) {
	assert.Equal(t, 46, QuestionsToPass(0, 65))
	assert.Equal(t, 6, QuestionsToPass(40, 65))
	assert.Equal(t, 0, QuestionsToPass(60, 65))
}
