// Package attempt turns a finished exam into an immutable record suitable for
// history and persistence.
package attempt

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/abhisek/ccprep/internal/catalog"
	"github.com/abhisek/ccprep/internal/exam"
	"github.com/abhisek/ccprep/internal/scoring"
)

var (
	ErrInvalidTimeRange = errors.New("exam end time is before its start time")
	ErrNotFinished      = errors.New("exam session is not finished")
	ErrInvalidAttempt   = errors.New("invalid attempt record")
)

// AnswerRecord is the graded answer to one question of an attempt.
type AnswerRecord struct {
	QuestionID string             `json:"questionId"`
	Selected   []catalog.OptionID `json:"selected"`
	Correct    bool               `json:"correct"`
	TimeSpent  int                `json:"timeSpent"`
}

// Attempt is the record of a completed exam.
type Attempt struct {
	ID             string               `json:"id"`
	Date           time.Time            `json:"date"`
	Mode           exam.Mode            `json:"mode"`
	Score          int                  `json:"score"`
	Passed         bool                 `json:"passed"`
	Duration       int                  `json:"duration"` // seconds
	TotalQuestions int                  `json:"totalQuestions"`
	CorrectAnswers int                  `json:"correctAnswers"`
	Answers        []AnswerRecord       `json:"answers"`
	DomainScores   scoring.DomainScores `json:"domainScores"`
	QuestionsUsed  []string             `json:"questionsUsed"`
}

// Build grades answers against questions and produces the attempt record.
// Questions keep the order they were delivered in; unanswered questions are
// recorded as incorrect with an empty selection.
func Build(examID string, mode exam.Mode, questions []catalog.Question, answers scoring.Answers, start, end time.Time) (Attempt, error) {
	if end.Before(start) {
		return Attempt{}, fmt.Errorf("%w: start %s, end %s", ErrInvalidTimeRange,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	records := make([]AnswerRecord, len(questions))
	used := make([]string, len(questions))
	correct := 0
	for i, q := range questions {
		rec := AnswerRecord{QuestionID: q.ID, Selected: []catalog.OptionID{}}
		if a, ok := answers[q.ID]; ok {
			rec.Selected = slices.Clone(a.Selected)
			if rec.Selected == nil {
				rec.Selected = []catalog.OptionID{}
			}
			rec.TimeSpent = a.TimeSpent
			rec.Correct = scoring.IsCorrect(q, a)
		}
		if rec.Correct {
			correct++
		}
		records[i] = rec
		used[i] = q.ID
	}

	score := scoring.ComputeScore(questions, answers)
	return Attempt{
		ID:             examID,
		Date:           end.UTC(),
		Mode:           mode,
		Score:          score,
		Passed:         scoring.IsPassing(score),
		Duration:       int(math.Round(end.Sub(start).Seconds())),
		TotalQuestions: len(questions),
		CorrectAnswers: correct,
		Answers:        records,
		DomainScores:   scoring.DomainScoresFor(questions, answers),
		QuestionsUsed:  used,
	}, nil
}

// FromSession builds the attempt for a finished session.
func FromSession(s *exam.Session) (Attempt, error) {
	if !s.Finished() {
		return Attempt{}, ErrNotFinished
	}
	return Build(s.ID(), s.Config().Mode, s.Questions(), s.Answers(), s.StartTime(), s.EndTime())
}

// Validate checks a record replayed from storage for internal consistency.
func (a Attempt) Validate() error {
	switch {
	case a.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidAttempt)
	case a.Score < scoring.MinScore || a.Score > scoring.MaxScore:
		return fmt.Errorf("%w: %s: score %d out of range", ErrInvalidAttempt, a.ID, a.Score)
	case a.Passed != scoring.IsPassing(a.Score):
		return fmt.Errorf("%w: %s: passed flag disagrees with score %d", ErrInvalidAttempt, a.ID, a.Score)
	case a.Duration < 0:
		return fmt.Errorf("%w: %s: negative duration", ErrInvalidAttempt, a.ID)
	case a.CorrectAnswers < 0 || a.CorrectAnswers > a.TotalQuestions:
		return fmt.Errorf("%w: %s: %d correct of %d", ErrInvalidAttempt, a.ID, a.CorrectAnswers, a.TotalQuestions)
	case len(a.QuestionsUsed) != a.TotalQuestions:
		return fmt.Errorf("%w: %s: %d questions used, total %d", ErrInvalidAttempt, a.ID, len(a.QuestionsUsed), a.TotalQuestions)
	}
	return nil
}

// Answer returns the record for questionID.
func (a Attempt) Answer(questionID string) (AnswerRecord, bool) {
	for _, r := range a.Answers {
		if r.QuestionID == questionID {
			return r, true
		}
	}
	return AnswerRecord{}, false
}

// WrongQuestionIDs returns the ids answered incorrectly, in exam order.
func (a Attempt) WrongQuestionIDs() []string {
	var ids []string
	for _, r := range a.Answers {
		if !r.Correct {
			ids = append(ids, r.QuestionID)
		}
	}
	return ids
}
