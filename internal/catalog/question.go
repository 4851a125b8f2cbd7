package catalog

import "slices"

// Difficulty is the question difficulty level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// QuestionType distinguishes single-answer from multi-answer questions.
type QuestionType string

const (
	TypeSingleChoice   QuestionType = "single-choice"
	TypeMultipleChoice QuestionType = "multiple-choice"
)

// OptionID is a single-letter option identifier (A-E).
type OptionID string

// Option is one selectable answer.
type Option struct {
	ID   OptionID `json:"id" validate:"oneof=A B C D E"`
	Text string   `json:"text"`
}

// Diagram is an optional mermaid diagram attached to a question.
type Diagram struct {
	Type string `json:"type"`
	Code string `json:"code"`
}

// Table is optional tabular data attached to a question.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Question is an immutable catalog entry.
type Question struct {
	ID          string       `json:"id" validate:"required"`
	Domain      DomainKey    `json:"domain" validate:"oneof=domain1 domain2 domain3 domain4"`
	Subdomain   string       `json:"subdomain"`
	Difficulty  Difficulty   `json:"difficulty" validate:"oneof=easy medium hard"`
	Type        QuestionType `json:"type" validate:"oneof=single-choice multiple-choice"`
	Prompt      string       `json:"question" validate:"required"`
	Diagram     *Diagram     `json:"diagram,omitempty"`
	Table       *Table       `json:"table,omitempty"`
	Options     []Option     `json:"options" validate:"min=1,dive"`
	Correct     []OptionID   `json:"correct" validate:"min=1"`
	Explanation string       `json:"explanation"`
	References  []string     `json:"references"`
	Tags        []string     `json:"tags"`
	CourseRef   string       `json:"courseRef,omitempty"`
}

// IsMultiple reports whether more than one option may be selected.
func (q Question) IsMultiple() bool {
	return q.Type == TypeMultipleChoice
}

// HasOption reports whether id is one of the question's options.
func (q Question) HasOption(id OptionID) bool {
	return slices.ContainsFunc(q.Options, func(o Option) bool { return o.ID == id })
}

// Option returns the option with the given id.
func (q Question) Option(id OptionID) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// IsCorrectOption reports whether id is part of the correct answer set.
func (q Question) IsCorrectOption(id OptionID) bool {
	return slices.Contains(q.Correct, id)
}
