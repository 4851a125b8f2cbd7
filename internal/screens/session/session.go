// Package session is the interactive exam screen. It drives an
// exam.Session from key presses and a one-second timer.
package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/ccprep/internal/exam"
	"github.com/abhisek/ccprep/internal/ui/components"
)

type mode int

const (
	modeAnswer mode = iota
	modeConfirm
	modeJump
)

type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Mark   key.Binding
	Jump   key.Binding
	Submit key.Binding
	Abort  key.Binding
	Yes    key.Binding
	No     key.Binding
	Accept key.Binding
	Cancel key.Binding
}

var keys = keyMap{
	Next:   key.NewBinding(key.WithKeys("enter", "n", "right"), key.WithHelp("Enter", "Next")),
	Prev:   key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("P", "Previous")),
	Mark:   key.NewBinding(key.WithKeys("m"), key.WithHelp("M", "Mark")),
	Jump:   key.NewBinding(key.WithKeys("g"), key.WithHelp("G", "Go to")),
	Submit: key.NewBinding(key.WithKeys("f", "esc"), key.WithHelp("F", "Finish")),
	Abort:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("Ctrl+C", "Abandon")),
	Yes:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("Y", "Submit")),
	No:     key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("N", "Keep going")),
	Accept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Go")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Cancel")),
}

// Screen is the tea.Model for a running exam.
type Screen struct {
	session *exam.Session
	now     func() time.Time

	mode   mode
	picker components.OptionPicker
	jump   textinput.Model
	notice string

	overtimeNoted bool
	timedOut      bool
	aborted       bool
}

var _ tea.Model = (*Screen)(nil)

// New creates the screen for s. now is the clock used for every session
// call.
func New(s *exam.Session, now func() time.Time) *Screen {
	jump := textinput.New()
	jump.Placeholder = "number"
	jump.CharLimit = 3
	jump.Prompt = "Go to question: "

	m := &Screen{session: s, now: now, jump: jump}
	m.syncPicker()
	return m
}

// TimedOut reports whether time ran out on an exam without overtime.
func (m *Screen) TimedOut() bool { return m.timedOut }

// Aborted reports whether the learner abandoned the exam.
func (m *Screen) Aborted() bool { return m.aborted }

func (m *Screen) Init() tea.Cmd {
	if m.session.Config().Timed() {
		return tickCmd()
	}
	return nil
}

func (m *Screen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.session.Finished() || m.aborted {
		return m, nil
	}

	switch msg := msg.(type) {
	case timerTickMsg:
		return m.handleTick()
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Screen) handleTick() (tea.Model, tea.Cmd) {
	now := m.now()
	if m.session.MustFinish(now) {
		return m.finishAtDeadline()
	}
	if m.session.Expired(now) && !m.overtimeNoted {
		m.overtimeNoted = true
		m.notice = "Time is up. You may keep going in overtime."
	}
	return m, tickCmd()
}

func (m *Screen) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Abort) {
		m.aborted = true
		return m, tea.Quit
	}

	// Input that arrives after the deadline is not applied.
	now := m.now()
	if m.session.MustFinish(now) {
		return m.finishAtDeadline()
	}

	switch m.mode {
	case modeConfirm:
		return m.handleConfirmKey(msg, now)
	case modeJump:
		return m.handleJumpKey(msg, now)
	}

	q, ok := m.session.Current()
	if !ok {
		return m.finish(now)
	}

	switch {
	case key.Matches(msg, keys.Next):
		m.notice = ""
		return m.advance(now)
	case key.Matches(msg, keys.Prev):
		m.notice = ""
		if m.session.Prev(now) {
			m.syncPicker()
		}
	case key.Matches(msg, keys.Mark):
		if err := m.session.ToggleMark(q.ID); err != nil {
			m.notice = err.Error()
		}
	case key.Matches(msg, keys.Jump):
		m.mode = modeJump
		m.jump.Reset()
		return m, m.jump.Focus()
	case key.Matches(msg, keys.Submit):
		m.mode = modeConfirm
	default:
		picker, changed := m.picker.Update(msg)
		m.picker = picker
		if changed {
			if err := m.session.Answer(q.ID, m.picker.Selected(), now); err != nil {
				m.notice = err.Error()
			} else {
				m.notice = ""
			}
		}
	}
	return m, nil
}

func (m *Screen) handleConfirmKey(msg tea.KeyPressMsg, now time.Time) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Yes):
		return m.finish(now)
	case key.Matches(msg, keys.No):
		m.mode = modeAnswer
		m.reviewNext(now)
	}
	return m, nil
}

func (m *Screen) handleJumpKey(msg tea.KeyPressMsg, now time.Time) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		m.mode = modeAnswer
		m.jump.Blur()
		return m, nil
	case key.Matches(msg, keys.Accept):
		m.mode = modeAnswer
		m.jump.Blur()
		raw := strings.TrimSpace(m.jump.Value())
		n, err := strconv.Atoi(raw)
		if err != nil || !m.session.GoTo(n-1, now) {
			m.notice = fmt.Sprintf("No question %q.", raw)
			return m, nil
		}
		m.notice = ""
		m.syncPicker()
		return m, nil
	}

	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(msg)
	return m, cmd
}

// advance moves to the next question, or asks to submit on the last one.
func (m *Screen) advance(now time.Time) (tea.Model, tea.Cmd) {
	if m.session.Index() < m.session.Len()-1 {
		m.session.Next(now)
		m.syncPicker()
		return m, nil
	}
	m.mode = modeConfirm
	return m, nil
}

// reviewNext shows the first marked question, or else the first
// unanswered one, after the learner declines to submit.
func (m *Screen) reviewNext(now time.Time) {
	if marked := m.session.MarkedIndices(); len(marked) > 0 {
		m.session.GoTo(marked[0], now)
		m.syncPicker()
		return
	}
	for i, q := range m.session.Questions() {
		if _, answered := m.session.Selected(q.ID); !answered {
			m.session.GoTo(i, now)
			m.syncPicker()
			return
		}
	}
}

func (m *Screen) finish(now time.Time) (tea.Model, tea.Cmd) {
	if err := m.session.Finish(now); err != nil {
		m.notice = err.Error()
		return m, nil
	}
	return m, tea.Quit
}

// finishAtDeadline ends a strict exam at the moment time ran out.
func (m *Screen) finishAtDeadline() (tea.Model, tea.Cmd) {
	m.timedOut = true
	deadline := m.session.StartTime().Add(m.session.Config().Duration())
	return m.finish(deadline)
}

// syncPicker rebuilds the option picker for the question on screen.
func (m *Screen) syncPicker() {
	q, ok := m.session.Current()
	if !ok {
		m.picker = components.OptionPicker{}
		return
	}
	selected, _ := m.session.Selected(q.ID)
	m.picker = components.NewOptionPicker(q, selected)
}
