package catalog

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidRecord is matched by every data-integrity error found at load.
	ErrInvalidRecord = errors.New("invalid question record")

	// ErrDuplicateID is returned when two records share an id.
	ErrDuplicateID = errors.New("duplicate question id")
)

// LoadError describes a catalog record that could not be admitted.
type LoadError struct {
	Source string // file name, empty for readers
	Index  int    // position of the record in its document
	ID     string // record id, if one was present
	Err    error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	if e.Source != "" {
		b.WriteString(e.Source)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "record %d", e.Index)
	if e.ID != "" {
		fmt.Fprintf(&b, " (%q)", e.ID)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *LoadError) Unwrap() []error {
	return []error{ErrInvalidRecord, e.Err}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// validateQuestion checks a normalized question against its invariants.
// Returns a combined error describing all problems found, or nil if valid.
func validateQuestion(q Question) error {
	var errs []string

	if err := structValidator().Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Sprintf("field %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
		} else {
			errs = append(errs, err.Error())
		}
	}

	seen := make(map[OptionID]bool, len(q.Options))
	for _, o := range q.Options {
		if seen[o.ID] {
			errs = append(errs, fmt.Sprintf("duplicate option id %q", o.ID))
		}
		seen[o.ID] = true
	}

	correct := make(map[OptionID]bool, len(q.Correct))
	for _, c := range q.Correct {
		if !seen[c] {
			errs = append(errs, fmt.Sprintf("correct option %q is not an option", c))
		}
		if correct[c] {
			errs = append(errs, fmt.Sprintf("correct option %q listed twice", c))
		}
		correct[c] = true
	}

	if q.Type == TypeSingleChoice && len(q.Correct) != 1 {
		errs = append(errs, fmt.Sprintf("single-choice question needs exactly one correct option, got %d", len(q.Correct)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
