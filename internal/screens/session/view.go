package session

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ccprep/internal/report"
	"github.com/abhisek/ccprep/internal/ui/theme"
)

func (m *Screen) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m *Screen) render() string {
	if m.session.Finished() {
		return ""
	}
	if m.mode == modeConfirm {
		return m.renderConfirm()
	}

	q, ok := m.session.Current()
	if !ok {
		return theme.Hint.Render("No questions.")
	}

	now := m.now()
	view := report.QuestionView{
		Number:   m.session.Index() + 1,
		Total:    m.session.Len(),
		Question: q,
		Marked:   m.session.IsMarked(q.ID),
	}
	if m.session.Config().ShowTimer {
		view.Remaining = max(m.session.TimeRemaining(now), 0)
		view.Overtime = m.session.Expired(now)
	}

	lines := []string{report.QuestionHeader(view), "", m.picker.View()}
	if m.mode == modeJump {
		lines = append(lines, m.jump.View())
	}
	if m.notice != "" {
		lines = append(lines, theme.Warning.Render(m.notice))
	}
	lines = append(lines,
		theme.Subtitle.Render(fmt.Sprintf("Answered %d of %d, %d marked",
			m.session.AnsweredCount(), m.session.Len(), m.session.MarkedCount())),
		"",
		renderHints(m.hints()),
	)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Screen) renderConfirm() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render("Submit exam?"),
		"",
		theme.Body.Render(fmt.Sprintf("Answered %d of %d, %d marked for review.",
			m.session.AnsweredCount(), m.session.Len(), m.session.MarkedCount())),
	)
	return lipgloss.JoinVertical(lipgloss.Left, theme.Card.Render(body), "", renderHints(m.hints()))
}

func (m *Screen) hints() []key.Binding {
	switch m.mode {
	case modeConfirm:
		return []key.Binding{keys.Yes, keys.No}
	case modeJump:
		return []key.Binding{keys.Accept, keys.Cancel}
	}
	return []key.Binding{keys.Next, keys.Prev, keys.Mark, keys.Jump, keys.Submit, keys.Abort}
}

func renderHints(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings)+1)
	if len(bindings) > 2 {
		parts = append(parts, theme.Hint.Render("A-E/Space pick"))
	}
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Primary).Render(h.Key)+" "+theme.Hint.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}
