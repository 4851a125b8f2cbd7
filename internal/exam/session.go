package exam

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/abhisek/ccprep/internal/catalog"
	"github.com/abhisek/ccprep/internal/scoring"
)

var (
	ErrUnknownQuestion = errors.New("question is not part of this exam")
	ErrInvalidOption   = errors.New("invalid option for question")
	ErrNotInProgress   = errors.New("exam is not in progress")
)

// Phase is the lifecycle stage of a Session.
type Phase int

const (
	PhaseInProgress Phase = iota
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseInProgress:
		return "in-progress"
	case PhaseFinished:
		return "finished"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Session is the state of one exam being taken. Time spent is charged to
// whichever question is current. A Session is not safe for concurrent use.
type Session struct {
	id        string
	config    Config
	questions []catalog.Question
	index     map[string]int

	current   int
	viewStart time.Time
	answers   map[string][]catalog.OptionID
	spent     map[string]time.Duration
	marked    map[string]bool

	phase Phase
	start time.Time
	end   time.Time
}

// NewSession starts the exam described by plan at start.
func NewSession(plan *Plan, start time.Time) *Session {
	questions := slices.Clone(plan.Questions)
	index := make(map[string]int, len(questions))
	for i, q := range questions {
		index[q.ID] = i
	}
	return &Session{
		id:        plan.ExamID,
		config:    plan.Config,
		questions: questions,
		index:     index,
		viewStart: start,
		answers:   make(map[string][]catalog.OptionID),
		spent:     make(map[string]time.Duration),
		marked:    make(map[string]bool),
		phase:     PhaseInProgress,
		start:     start,
	}
}

func (s *Session) ID() string                      { return s.id }
func (s *Session) Config() Config                  { return s.config }
func (s *Session) Phase() Phase                    { return s.phase }
func (s *Session) Finished() bool                  { return s.phase == PhaseFinished }
func (s *Session) StartTime() time.Time            { return s.start }
func (s *Session) EndTime() time.Time              { return s.end }
func (s *Session) Len() int                        { return len(s.questions) }
func (s *Session) Index() int                      { return s.current }
func (s *Session) Questions() []catalog.Question   { return slices.Clone(s.questions) }
func (s *Session) IsMarked(questionID string) bool { return s.marked[questionID] }
func (s *Session) MarkedCount() int                { return len(s.marked) }
func (s *Session) AnsweredCount() int              { return len(s.answers) }

// Current returns the question on screen, or false for an empty exam.
func (s *Session) Current() (catalog.Question, bool) {
	if s.current < 0 || s.current >= len(s.questions) {
		return catalog.Question{}, false
	}
	return s.questions[s.current], true
}

// GoTo moves to question i. Out-of-range indices are ignored.
func (s *Session) GoTo(i int, now time.Time) bool {
	if s.phase != PhaseInProgress || i < 0 || i >= len(s.questions) {
		return false
	}
	s.charge(now)
	s.current = i
	return true
}

// Next moves forward one question, stopping at the last.
func (s *Session) Next(now time.Time) bool {
	return s.GoTo(s.current+1, now)
}

// Prev moves back one question, stopping at the first.
func (s *Session) Prev(now time.Time) bool {
	return s.GoTo(s.current-1, now)
}

// charge adds the time since viewStart to the current question.
func (s *Session) charge(now time.Time) {
	if len(s.questions) == 0 {
		return
	}
	if d := now.Sub(s.viewStart); d > 0 {
		s.spent[s.questions[s.current].ID] += d
	}
	s.viewStart = now
}

// Answer records the options selected for a question, replacing any earlier
// selection. An empty selection clears the answer.
func (s *Session) Answer(questionID string, selected []catalog.OptionID, now time.Time) error {
	if s.phase != PhaseInProgress {
		return ErrNotInProgress
	}
	i, ok := s.index[questionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}
	q := s.questions[i]

	if len(selected) == 0 {
		delete(s.answers, questionID)
		return nil
	}

	seen := make(map[catalog.OptionID]bool, len(selected))
	clean := make([]catalog.OptionID, 0, len(selected))
	for _, id := range selected {
		if !q.HasOption(id) {
			return fmt.Errorf("%w: %s has no option %s", ErrInvalidOption, questionID, id)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		clean = append(clean, id)
	}
	if !q.IsMultiple() && len(clean) > 1 {
		return fmt.Errorf("%w: %s accepts a single option", ErrInvalidOption, questionID)
	}

	s.charge(now)
	s.answers[questionID] = clean
	return nil
}

// Selected returns the options chosen for a question.
func (s *Session) Selected(questionID string) ([]catalog.OptionID, bool) {
	sel, ok := s.answers[questionID]
	return slices.Clone(sel), ok
}

// ToggleMark flags or unflags a question for review.
func (s *Session) ToggleMark(questionID string) error {
	if _, ok := s.index[questionID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}
	if s.marked[questionID] {
		delete(s.marked, questionID)
	} else {
		s.marked[questionID] = true
	}
	return nil
}

// MarkedIndices returns the positions of flagged questions in exam order.
func (s *Session) MarkedIndices() []int {
	var out []int
	for i, q := range s.questions {
		if s.marked[q.ID] {
			out = append(out, i)
		}
	}
	return out
}

// Elapsed returns the time since the exam started, or its total duration once
// finished.
func (s *Session) Elapsed(now time.Time) time.Duration {
	if s.phase == PhaseFinished {
		return s.end.Sub(s.start)
	}
	return now.Sub(s.start)
}

// TimeRemaining returns the time left on a timed exam. It is negative in
// overtime and always 0 for an untimed exam.
func (s *Session) TimeRemaining(now time.Time) time.Duration {
	if !s.config.Timed() {
		return 0
	}
	return s.config.Duration() - s.Elapsed(now)
}

// Expired reports whether a timed exam has run out of time.
func (s *Session) Expired(now time.Time) bool {
	return s.config.Timed() && s.TimeRemaining(now) <= 0
}

// MustFinish reports whether the exam has expired and overtime is not allowed.
func (s *Session) MustFinish(now time.Time) bool {
	return s.Expired(now) && !s.config.AllowOvertime
}

// Finish ends the exam at now.
func (s *Session) Finish(now time.Time) error {
	if s.phase != PhaseInProgress {
		return ErrNotInProgress
	}
	s.charge(now)
	s.end = now
	s.phase = PhaseFinished
	return nil
}

// Answers returns a copy of the recorded answers with time spent per question
// in whole seconds. Only answered questions are included.
func (s *Session) Answers() scoring.Answers {
	out := make(scoring.Answers, len(s.answers))
	for id, sel := range s.answers {
		out[id] = scoring.Answer{
			QuestionID: id,
			Selected:   slices.Clone(sel),
			TimeSpent:  int(math.Round(s.spent[id].Seconds())),
		}
	}
	return out
}

// Result grades the answers recorded so far.
func (s *Session) Result() scoring.Result {
	return scoring.Evaluate(s.questions, s.Answers())
}
