package exam

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/abhisek/ccprep/internal/catalog"
)

// ErrNoWrongAnswers is returned when a wrong-answers review has nothing to
// review under the requested filters.
var ErrNoWrongAnswers = errors.New("no wrong answers to review")

// Request describes the exam a user asked for. History-derived inputs are
// supplied by the caller so planning stays independent of storage.
type Request struct {
	Mode Mode

	// Domains restricts practice exams. Empty means all domains.
	Domains []catalog.DomainKey

	// MaxQuestions caps practice and review exams. 0 means all.
	MaxQuestions int

	// RecentIDs are questions seen in recent attempts; official and quick
	// exams use them only after fresh questions run out.
	RecentIDs []string

	// WrongIDs are previously missed questions, already filtered and ordered.
	WrongIDs []string

	// WeakDomains and FocusWeak bias a practice exam toward weak domains.
	WeakDomains []catalog.DomainKey
	FocusWeak   bool
}

// Plan is a ready-to-start exam.
type Plan struct {
	ExamID     string
	Config     Config
	Questions  []catalog.Question
	Shortfalls []Shortfall
}

// Planner turns a Request into a Plan.
type Planner struct {
	Repo    *catalog.Repository
	Sampler *Sampler
}

// NewPlanner creates a Planner over repo. A nil sampler uses the global
// generator.
func NewPlanner(repo *catalog.Repository, sampler *Sampler) *Planner {
	if sampler == nil {
		sampler = NewSampler(nil)
	}
	return &Planner{Repo: repo, Sampler: sampler}
}

// NewExamID returns a unique exam identifier.
func NewExamID() string {
	return "exam-" + uuid.NewString()
}

// Plan assembles the questions and config for req.
func (p *Planner) Plan(req Request) (*Plan, error) {
	var (
		cfg Config
		sel Selection
	)

	switch req.Mode {
	case ModeOfficial:
		cfg = OfficialConfig()
		sel = p.Sampler.Select(p.Repo.All(), cfg.Distribution, req.RecentIDs)

	case ModeQuick:
		cfg = QuickConfig()
		cfg.Distribution = ProportionalDistribution(cfg.TotalQuestions)
		sel = p.Sampler.Select(p.Repo.All(), cfg.Distribution, req.RecentIDs)

	case ModePractice:
		total := req.MaxQuestions
		if total <= 0 {
			total = PracticeAllQuestions
		}
		cfg = PracticeConfig(total)
		if total > DefaultQuestions {
			cfg.Distribution = ProportionalDistribution(total)
		}

		pool := catalog.FilterDomains(p.Repo.All(), req.Domains)
		if req.FocusWeak {
			cfg.Distribution = WeakFocusDistribution(req.WeakDomains, total)
			sel = p.Sampler.SelectWeakFocus(pool, req.WeakDomains, total, nil)
		} else {
			sel = p.Sampler.Select(pool, cfg.Distribution, nil)
		}
		if len(sel.Questions) > total {
			sel.Questions = sel.Questions[:total]
		}

	case ModeWrongAnswers:
		if len(req.WrongIDs) == 0 {
			return nil, ErrNoWrongAnswers
		}
		sel = SelectByIDs(p.Repo, req.WrongIDs, req.MaxQuestions)
		if len(sel.Questions) == 0 {
			return nil, ErrNoWrongAnswers
		}
		cfg = WrongAnswersConfig(len(sel.Questions))

	default:
		return nil, fmt.Errorf("plan exam: unknown mode %q", req.Mode)
	}

	if len(sel.Questions) < cfg.TotalQuestions {
		cfg.TotalQuestions = len(sel.Questions)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Plan{
		ExamID:     NewExamID(),
		Config:     cfg,
		Questions:  sel.Questions,
		Shortfalls: sel.Shortfalls,
	}, nil
}
