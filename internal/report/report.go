// Package report renders exam results, history and statistics for the
// terminal.
package report

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/ccprep/internal/attempt"
	"github.com/abhisek/ccprep/internal/catalog"
	"github.com/abhisek/ccprep/internal/history"
	"github.com/abhisek/ccprep/internal/scoring"
	"github.com/abhisek/ccprep/internal/ui/theme"
)

// BarWidth is the width of domain bars in cells.
const BarWidth = 20

// Bar renders a horizontal bar for a percentage in [0, 100]. Weak bars use
// the error color.
func Bar(percent, width int, weak bool) string {
	if width < 4 {
		width = 4
	}
	filled := width * percent / 100
	filled = min(max(filled, 0), width)

	fill := theme.ProgressFilled
	if weak {
		fill = theme.ProgressWeak
	}
	return fill.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", width-filled))
}

// FormatDuration renders seconds as m:ss, or h:mm:ss past an hour.
func FormatDuration(secs int) string {
	d := time.Duration(max(secs, 0)) * time.Second
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func row(label, value string) string {
	return theme.Label.Render(label) + theme.Body.Render(value)
}

func domainLine(key catalog.DomainKey, pct int, detail string, threshold int) string {
	name := catalog.DisplayName(key)
	if info, ok := catalog.Info(key); ok {
		name = info.ShortName
	}
	return fmt.Sprintf("%s %s %3d%%  %s",
		theme.Label.Render(name), Bar(pct, BarWidth, pct < threshold), pct, theme.Hint.Render(detail))
}

// ScoreCard renders the result of one attempt.
func ScoreCard(a attempt.Attempt) string {
	verdict := "FAILED"
	if a.Passed {
		verdict = "PASSED"
	}

	lines := []string{
		theme.Title.Render("Exam Result"),
		"",
		row("Score", fmt.Sprintf("%d / %d", a.Score, scoring.MaxScore)) + "  " +
			theme.Verdict(a.Passed).Render(verdict) + "  " + theme.Hint.Render(scoring.Label(a.Score)),
		row("Correct", fmt.Sprintf("%d / %d", a.CorrectAnswers, a.TotalQuestions)),
		row("Time", FormatDuration(a.Duration)),
		row("Mode", string(a.Mode)),
		"",
	}
	for _, key := range catalog.DomainKeys() {
		ds, ok := a.DomainScores[key]
		if !ok || ds.Total == 0 {
			continue
		}
		lines = append(lines, domainLine(key, ds.Percentage,
			fmt.Sprintf("%d/%d", ds.Correct, ds.Total), history.DefaultWeakThreshold))
	}
	if !a.Passed && a.TotalQuestions > 0 {
		need := scoring.QuestionsToPass(a.CorrectAnswers, a.TotalQuestions)
		lines = append(lines, "", theme.Hint.Render(
			fmt.Sprintf("About %d more correct answers needed to pass.", need)))
	}
	return theme.Card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// AttemptTable renders one line per attempt, in the order given.
func AttemptTable(attempts []attempt.Attempt) string {
	if len(attempts) == 0 {
		return theme.Hint.Render("No exams taken yet.")
	}
	lines := []string{theme.Subtitle.Render(fmt.Sprintf("%-44s %-16s %-13s %5s  %-6s %8s",
		"ID", "DATE", "MODE", "SCORE", "RESULT", "TIME"))}
	for _, a := range attempts {
		result := "fail"
		if a.Passed {
			result = "pass"
		}
		lines = append(lines, fmt.Sprintf("%-44s %-16s %-13s %5d  %s %8s",
			a.ID,
			a.Date.Local().Format("2006-01-02 15:04"),
			a.Mode,
			a.Score,
			theme.Verdict(a.Passed).Render(fmt.Sprintf("%-6s", result)),
			FormatDuration(a.Duration),
		))
	}
	return strings.Join(lines, "\n")
}

// Goal is the learner's target as shown on the dashboard.
type Goal struct {
	TargetScore int
	Deadline    *time.Time
}

// Dashboard is everything the stats view shows.
type Dashboard struct {
	Stats      history.Stats
	Trend      int
	HasTrend   bool
	WeakPoints []history.WeakPoint
	// WeakDomains are the domains whose per-exam average is under
	// Threshold, weakest first.
	WeakDomains []catalog.DomainKey
	TopMissed   []history.MissedQuestion
	Threshold   int
	Goal        Goal
	Now         time.Time
}

// Stats renders the dashboard.
func Stats(d Dashboard) string {
	s := d.Stats
	if s.TotalExams == 0 {
		return theme.Hint.Render("No exams taken yet. Run `ccprep exam` to start.")
	}

	lines := []string{
		theme.Title.Render("Progress"),
		"",
		row("Exams", fmt.Sprintf("%d", s.TotalExams)),
		row("Pass rate", fmt.Sprintf("%d%%", s.PassRate)),
		row("Average score", fmt.Sprintf("%d", s.AverageScore)),
		row("Best score", fmt.Sprintf("%d", s.BestScore)),
		row("Average time", FormatDuration(s.AverageDuration)),
	}
	if d.HasTrend {
		trend := fmt.Sprintf("%+d%%", d.Trend)
		style := theme.Correct
		if d.Trend < 0 {
			style = theme.Incorrect
		}
		lines = append(lines, theme.Label.Render("Last exam")+style.Render(trend))
	}
	lines = append(lines, goalLine(d.Goal, s.AverageScore, d.Now), "", theme.Subtitle.Render("Domain averages"))

	for _, key := range catalog.DomainKeys() {
		avg := int(s.DomainAverages[key] + 0.5)
		lines = append(lines, domainLine(key, avg, "", d.Threshold))
	}

	if len(d.WeakDomains) > 0 {
		names := make([]string, len(d.WeakDomains))
		for i, key := range d.WeakDomains {
			names[i] = catalog.DisplayName(key)
		}
		lines = append(lines, theme.Label.Render("Below target")+theme.Warning.Render(strings.Join(names, ", ")))
	}

	if len(d.WeakPoints) > 0 {
		lines = append(lines, "", theme.Subtitle.Render("Weak domains"))
		for _, wp := range d.WeakPoints {
			lines = append(lines, theme.Warning.Render(fmt.Sprintf("  %s: %d%% accuracy, %d answers wrong",
				catalog.DisplayName(wp.Domain), wp.Accuracy, wp.QuestionsWrong)))
		}
	}

	if len(d.TopMissed) > 0 {
		lines = append(lines, "", theme.Subtitle.Render("Most missed questions"))
		for _, m := range d.TopMissed {
			domain := "unknown"
			if m.Domain != "" {
				domain = string(m.Domain)
			}
			lines = append(lines, fmt.Sprintf("  %-24s x%d  %s", m.QuestionID, m.Count, theme.Hint.Render(domain)))
		}
	}
	return theme.Card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func goalLine(g Goal, average int, now time.Time) string {
	target := fmt.Sprintf("%d", g.TargetScore)
	if g.Deadline != nil {
		days := int(g.Deadline.Sub(now).Hours() / 24)
		switch {
		case days > 0:
			target += fmt.Sprintf(" in %d days", days)
		case days == 0:
			target += " today"
		default:
			target += " (deadline passed)"
		}
	}
	style := theme.Body
	if average >= g.TargetScore {
		style = theme.Correct
	}
	return theme.Label.Render("Target") + style.Render(target)
}

// Catalog renders question counts per domain.
func Catalog(repo *catalog.Repository) string {
	counts := repo.Counts()
	lines := []string{theme.Title.Render("Question catalog"), ""}
	for _, d := range catalog.Domains() {
		lines = append(lines, fmt.Sprintf("%s %4d  %s",
			theme.Label.Render(string(d.Key)), counts[d.Key],
			theme.Hint.Render(fmt.Sprintf("%s (%.0f%%)", d.Name, d.Weight*100))))
	}
	lines = append(lines, row("Total", fmt.Sprintf("%d", repo.Total())))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// QuestionView is one question as shown during an exam.
type QuestionView struct {
	Number    int
	Total     int
	Question  catalog.Question
	Selected  []catalog.OptionID
	Marked    bool
	Remaining time.Duration // zero hides the timer
	Overtime  bool
}

// QuestionHeader renders the question number, prompt and any data table.
func QuestionHeader(v QuestionView) string {
	q := v.Question
	header := fmt.Sprintf("Question %d of %d", v.Number, v.Total)
	if v.Marked {
		header += " " + theme.Marked.Render("[marked]")
	}
	switch {
	case v.Overtime:
		header += "  " + theme.Warning.Render("overtime")
	case v.Remaining > 0:
		header += "  " + theme.Hint.Render(FormatDuration(int(v.Remaining.Seconds()))+" left")
	}

	lines := []string{theme.Title.Render(header), theme.Body.Render(q.Prompt)}
	if q.Table != nil {
		lines = append(lines, "", renderTable(*q.Table))
	}
	if q.IsMultiple() {
		lines = append(lines, theme.Hint.Render(fmt.Sprintf("Select %d.", len(q.Correct))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Question renders a question with its options and the selection.
func Question(v QuestionView) string {
	lines := []string{QuestionHeader(v), ""}
	for _, o := range v.Question.Options {
		mark := "( )"
		if slices.Contains(v.Selected, o.ID) {
			mark = "(x)"
		}
		lines = append(lines, fmt.Sprintf("%s %s. %s", mark, o.ID, o.Text))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderTable(t catalog.Table) string {
	rows := make([]string, 0, len(t.Rows)+1)
	rows = append(rows, theme.Subtitle.Render(strings.Join(t.Headers, " | ")))
	for _, r := range t.Rows {
		rows = append(rows, strings.Join(r, " | "))
	}
	return strings.Join(rows, "\n")
}
