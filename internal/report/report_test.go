package report

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/ccprep/internal/attempt"
	"github.com/abhisek/ccprep/internal/catalog"
	"github.com/abhisek/ccprep/internal/exam"
	"github.com/abhisek/ccprep/internal/history"
	"github.com/abhisek/ccprep/internal/scoring"
)

func plain(s string) string { return ansi.Strip(s) }

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{602, "10:02"},
		{3725, "1:02:05"},
		{-5, "0:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.secs))
	}
}

func TestBarWidth(t *testing.T) {
	for _, pct := range []int{0, 35, 100, 140, -10} {
		assert.Equal(t, 10, ansi.StringWidth(Bar(pct, 10, false)), "pct %d", pct)
	}
	assert.Equal(t, 4, ansi.StringWidth(Bar(50, 1, true)))
}

func TestScoreCard(t *testing.T) {
	a := attempt.Attempt{
		ID:             "exam-1",
		Mode:           exam.ModeQuick,
		Score:          640,
		Passed:         false,
		Duration:       602,
		TotalQuestions: 20,
		CorrectAnswers: 12,
		DomainScores: scoring.DomainScores{
			catalog.Domain1: {Correct: 4, Total: 5, Percentage: 80},
			catalog.Domain2: {Correct: 3, Total: 6, Percentage: 50},
			catalog.Domain3: {},
			catalog.Domain4: {Correct: 5, Total: 9, Percentage: 56},
		},
	}

	out := plain(ScoreCard(a))
	assert.Contains(t, out, "640 / 1000")
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "12 / 20")
	assert.Contains(t, out, "10:02")
	assert.Contains(t, out, "Security")
	assert.NotContains(t, out, "Technology")
	assert.Contains(t, out, "2 more correct answers")
}

func TestScoreCardPassed(t *testing.T) {
	out := plain(ScoreCard(attempt.Attempt{Score: 850, Passed: true, TotalQuestions: 10, CorrectAnswers: 9}))
	assert.Contains(t, out, "PASSED")
	assert.Contains(t, out, "Excellent")
	assert.NotContains(t, out, "needed to pass")
}

func TestAttemptTable(t *testing.T) {
	assert.Contains(t, plain(AttemptTable(nil)), "No exams")

	date := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	out := plain(AttemptTable([]attempt.Attempt{
		{ID: "exam-a", Date: date, Mode: exam.ModeOfficial, Score: 720, Passed: true, Duration: 3600},
		{ID: "exam-b", Date: date.Add(time.Hour), Mode: exam.ModePractice, Score: 500, Duration: 90},
	}))
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "exam-a")
	assert.Contains(t, lines[1], "pass")
	assert.Contains(t, lines[1], "1:00:00")
	assert.Contains(t, lines[2], "practice")
	assert.Contains(t, lines[2], "fail")
}

func TestStatsEmpty(t *testing.T) {
	assert.Contains(t, plain(Stats(Dashboard{})), "No exams taken yet")
}

func TestStatsDashboard(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	deadline := now.AddDate(0, 0, 10)
	d := Dashboard{
		Stats: history.Stats{
			TotalExams:      3,
			PassRate:        67,
			AverageScore:    734,
			BestScore:       801,
			AverageDuration: 200,
			DomainAverages: map[catalog.DomainKey]float64{
				catalog.Domain1: 80, catalog.Domain2: 75, catalog.Domain3: 65, catalog.Domain4: 90,
			},
		},
		Trend:      -15,
		HasTrend:   true,
		WeakPoints:  []history.WeakPoint{{Domain: catalog.Domain3, Accuracy: 65, QuestionsWrong: 7}},
		WeakDomains: []catalog.DomainKey{catalog.Domain3, catalog.Domain2},
		TopMissed: []history.MissedQuestion{
			{QuestionID: "q-17", Count: 3, Domain: catalog.Domain3},
			{QuestionID: "retired", Count: 2},
		},
		Threshold: history.DefaultWeakThreshold,
		Goal:      Goal{TargetScore: 800, Deadline: &deadline},
		Now:       now,
	}

	out := plain(Stats(d))
	for _, want := range []string{
		"67%", "734", "801", "3:20", "-15%", "800 in 10 days",
		"Cloud Technology and Services: 65% accuracy, 7 answers wrong",
		"q-17", "x3", "unknown",
		"Below target",
		"Cloud Technology and Services, Security and Compliance",
	} {
		assert.Contains(t, out, want)
	}

	d.WeakDomains = nil
	assert.NotContains(t, plain(Stats(d)), "Below target")
}

func TestGoalLine(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -2)

	assert.Contains(t, plain(goalLine(Goal{TargetScore: 750}, 700, now)), "750")
	assert.Contains(t, plain(goalLine(Goal{TargetScore: 750, Deadline: &now}, 700, now)), "today")
	assert.Contains(t, plain(goalLine(Goal{TargetScore: 750, Deadline: &past}, 700, now)), "deadline passed")
}

func TestCatalog(t *testing.T) {
	repo, err := catalog.Default()
	require.NoError(t, err)

	out := plain(Catalog(repo))
	assert.Contains(t, out, "domain1")
	assert.Contains(t, out, "Billing, Pricing, and Support (12%)")
	assert.Contains(t, out, "25")
}

func TestQuestionView(t *testing.T) {
	q := catalog.Question{
		ID:      "q1",
		Type:    catalog.TypeMultipleChoice,
		Prompt:  "Which are global services?",
		Options: []catalog.Option{{ID: "A", Text: "IAM"}, {ID: "B", Text: "EC2"}, {ID: "C", Text: "Route 53"}},
		Correct: []catalog.OptionID{"A", "C"},
		Table:   &catalog.Table{Headers: []string{"Service", "Scope"}, Rows: [][]string{{"IAM", "Global"}}},
	}
	out := plain(Question(QuestionView{
		Number: 2, Total: 20, Question: q,
		Selected: []catalog.OptionID{"C"}, Marked: true, Remaining: 90 * time.Second,
	}))

	assert.Contains(t, out, "Question 2 of 20")
	assert.Contains(t, out, "[marked]")
	assert.Contains(t, out, "1:30 left")
	assert.Contains(t, out, "Select 2.")
	assert.Contains(t, out, "Service | Scope")
	assert.Contains(t, out, "( ) A. IAM")
	assert.Contains(t, out, "(x) C. Route 53")

	header := plain(QuestionHeader(QuestionView{Number: 2, Total: 20, Question: q, Overtime: true, Remaining: time.Minute}))
	assert.Contains(t, header, "overtime")
	assert.NotContains(t, header, "left")
	assert.NotContains(t, header, "A. IAM")
}
