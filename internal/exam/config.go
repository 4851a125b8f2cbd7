// Package exam shapes and samples CCP exams: modes, per-domain distributions,
// question selection and the state of an exam in progress.
package exam

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/ccprep/internal/catalog"
)

// Mode identifies how an exam was assembled.
type Mode string

const (
	ModeOfficial     Mode = "official"
	ModePractice     Mode = "practice"
	ModeQuick        Mode = "quick"
	ModeWrongAnswers Mode = "wrong-answers"
)

// Modes returns every exam mode.
func Modes() []Mode {
	return []Mode{ModeOfficial, ModePractice, ModeQuick, ModeWrongAnswers}
}

// ParseMode converts a user-supplied string into a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown exam mode %q", s)
}

// Distribution is the number of questions requested per domain.
type Distribution map[catalog.DomainKey]int

// Total returns the sum of all domain targets.
func (d Distribution) Total() int {
	n := 0
	for _, v := range d {
		n += v
	}
	return n
}

// Clone returns an independent copy.
func (d Distribution) Clone() Distribution {
	out := make(Distribution, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Validate checks that every key is a known domain and every target is
// non-negative.
func (d Distribution) Validate() error {
	for k, v := range d {
		if _, ok := catalog.Info(k); !ok {
			return fmt.Errorf("distribution: unknown domain %q", k)
		}
		if v < 0 {
			return fmt.Errorf("distribution: negative target %d for %s", v, k)
		}
	}
	return nil
}

// Config describes the shape of one exam. It is fixed once the exam starts.
type Config struct {
	Mode           Mode         `json:"mode" validate:"oneof=official practice quick wrong-answers"`
	DurationMins   int          `json:"duration" validate:"gte=0"` // 0 = untimed
	TotalQuestions int          `json:"totalQuestions" validate:"gte=0"`
	Distribution   Distribution `json:"distribution" validate:"dive,keys,oneof=domain1 domain2 domain3 domain4,endkeys,gte=0"`
	AllowOvertime  bool         `json:"allowOvertime"`
	ShowTimer      bool         `json:"showTimer"`
}

// Duration returns the time limit, or 0 for an untimed exam.
func (c Config) Duration() time.Duration {
	return time.Duration(c.DurationMins) * time.Minute
}

// Timed reports whether the exam has a time limit.
func (c Config) Timed() bool {
	return c.DurationMins > 0
}

var (
	configValidatorOnce sync.Once
	configValidator     *validator.Validate
)

// Validate checks the config's field constraints.
func (c Config) Validate() error {
	configValidatorOnce.Do(func() {
		configValidator = validator.New(validator.WithRequiredStructEnabled())
	})
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid exam config: %w", err)
	}
	return nil
}

// Question counts of the exam presets.
const (
	OfficialQuestions      = 65
	DefaultQuestions       = 60
	QuickQuestions         = 20
	PracticeAllQuestions   = 65
	DefaultReviewQuestions = 20
)

// OfficialDistribution is the AWS-standard 65 question split.
func OfficialDistribution() Distribution {
	return Distribution{catalog.Domain1: 16, catalog.Domain2: 19, catalog.Domain3: 22, catalog.Domain4: 8}
}

// DefaultDistribution is the 60 question split used by practice exams.
func DefaultDistribution() Distribution {
	return Distribution{catalog.Domain1: 15, catalog.Domain2: 18, catalog.Domain3: 21, catalog.Domain4: 6}
}

// QuickDistribution is the 20 question split of a quick exam.
func QuickDistribution() Distribution {
	return Distribution{catalog.Domain1: 5, catalog.Domain2: 6, catalog.Domain3: 7, catalog.Domain4: 2}
}

// ZeroDistribution has a zero target for every domain.
func ZeroDistribution() Distribution {
	d := make(Distribution, 4)
	for _, key := range catalog.DomainKeys() {
		d[key] = 0
	}
	return d
}

// ProportionalDistribution splits total across domains by their exam weight,
// rounding each domain independently.
func ProportionalDistribution(total int) Distribution {
	d := make(Distribution, 4)
	for _, info := range catalog.Domains() {
		d[info.Key] = int(math.Round(float64(total) * info.Weight))
	}
	return d
}

// OfficialConfig is a full-length timed exam with no overtime.
func OfficialConfig() Config {
	return Config{
		Mode:           ModeOfficial,
		DurationMins:   90,
		TotalQuestions: OfficialQuestions,
		Distribution:   OfficialDistribution(),
		AllowOvertime:  false,
		ShowTimer:      true,
	}
}

// DefaultConfig is the baseline the other presets derive from.
func DefaultConfig() Config {
	return Config{
		Mode:           ModeOfficial,
		DurationMins:   90,
		TotalQuestions: DefaultQuestions,
		Distribution:   DefaultDistribution(),
		AllowOvertime:  true,
		ShowTimer:      true,
	}
}

// PracticeConfig is an untimed exam of total questions.
func PracticeConfig(total int) Config {
	c := DefaultConfig()
	c.Mode = ModePractice
	c.DurationMins = 0
	c.ShowTimer = false
	c.TotalQuestions = total
	return c
}

// QuickConfig is a 30 minute, 20 question exam.
func QuickConfig() Config {
	c := DefaultConfig()
	c.Mode = ModeQuick
	c.DurationMins = 30
	c.TotalQuestions = QuickQuestions
	c.Distribution = QuickDistribution()
	return c
}

// WrongAnswersConfig is an untimed review of total previously missed questions.
func WrongAnswersConfig(total int) Config {
	return Config{
		Mode:           ModeWrongAnswers,
		DurationMins:   0,
		TotalQuestions: total,
		Distribution:   ZeroDistribution(),
		AllowOvertime:  true,
		ShowTimer:      false,
	}
}
