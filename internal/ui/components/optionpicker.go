package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ccprep/internal/catalog"
	"github.com/abhisek/ccprep/internal/ui/theme"
)

// OptionPicker selects one option, or several for a multiple-response
// question.
type OptionPicker struct {
	Options  []catalog.Option
	Multiple bool
	Cursor   int
	chosen   map[catalog.OptionID]bool
}

// NewOptionPicker creates a picker for q with the given options preselected.
func NewOptionPicker(q catalog.Question, selected []catalog.OptionID) OptionPicker {
	p := OptionPicker{
		Options:  q.Options,
		Multiple: q.IsMultiple(),
		chosen:   make(map[catalog.OptionID]bool, len(selected)),
	}
	for _, id := range selected {
		p.chosen[id] = true
	}
	for i, o := range q.Options {
		if p.chosen[o.ID] {
			p.Cursor = i
			break
		}
	}
	return p
}

// Update moves the cursor and picks options. Letter keys pick an option
// directly; space or x picks the one under the cursor. changed reports
// whether the selection is different afterwards.
func (p OptionPicker) Update(msg tea.Msg) (_ OptionPicker, changed bool) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return p, false
	}

	switch k := strings.ToLower(kmsg.String()); k {
	case "up", "k":
		if p.Cursor > 0 {
			p.Cursor--
		}
	case "down", "j":
		if p.Cursor < len(p.Options)-1 {
			p.Cursor++
		}
	case "space", " ", "x":
		if len(p.Options) > 0 {
			p.pick(p.Cursor)
			return p, true
		}
	default:
		for i, o := range p.Options {
			if strings.EqualFold(string(o.ID), k) {
				p.Cursor = i
				p.pick(i)
				return p, true
			}
		}
	}
	return p, false
}

// pick toggles option i. A single-choice picker keeps at most one option.
func (p *OptionPicker) pick(i int) {
	id := p.Options[i].ID
	if p.chosen == nil {
		p.chosen = make(map[catalog.OptionID]bool)
	}
	if p.Multiple {
		if p.chosen[id] {
			delete(p.chosen, id)
		} else {
			p.chosen[id] = true
		}
		return
	}
	clear(p.chosen)
	p.chosen[id] = true
}

// Selected returns the picked options in display order.
func (p OptionPicker) Selected() []catalog.OptionID {
	var out []catalog.OptionID
	for _, o := range p.Options {
		if p.chosen[o.ID] {
			out = append(out, o.ID)
		}
	}
	return out
}

// View renders the options with the cursor and the current picks.
func (p OptionPicker) View() string {
	var b strings.Builder
	for i, o := range p.Options {
		prefix := "  "
		if i == p.Cursor {
			prefix = "▸ "
		}
		box := "( )"
		if p.Multiple {
			box = "[ ]"
		}
		if p.chosen[o.ID] {
			box = strings.Replace(box, " ", "x", 1)
		}

		line := fmt.Sprintf("%s%s %s. %s", prefix, box, o.ID, o.Text)
		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case i == p.Cursor:
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		case p.chosen[o.ID]:
			style = lipgloss.NewStyle().Foreground(theme.Secondary)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
