package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/ccprep/internal/attempt"
	"github.com/abhisek/ccprep/internal/catalog"
	"github.com/abhisek/ccprep/internal/exam"
	"github.com/abhisek/ccprep/internal/history"
	"github.com/abhisek/ccprep/internal/report"
	examscreen "github.com/abhisek/ccprep/internal/screens/session"
)

var examCmd = &cobra.Command{
	Use:   "exam",
	Short: "Take an exam",
	Long: "Take an exam in one of four modes:\n" +
		"  official       65 questions, 90 minutes, official domain weights\n" +
		"  practice       untimed, optionally limited to some domains\n" +
		"  quick          20 questions, 30 minutes\n" +
		"  wrong-answers  untimed review of previously missed questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		req, err := examRequest(cmd, e)
		if err != nil {
			return err
		}

		sampler := exam.NewSampler(nil)
		if cmd.Flags().Changed("seed") {
			seed, _ := cmd.Flags().GetUint64("seed")
			sampler = exam.NewSeededSampler(seed)
		}

		plan, err := exam.NewPlanner(e.catalog, sampler).Plan(req)
		if errors.Is(err, exam.ErrNoWrongAnswers) {
			fmt.Println("No missed questions to review yet. Take an official or practice exam first.")
			return nil
		}
		if err != nil {
			return err
		}
		for _, sf := range plan.Shortfalls {
			e.log.Warn("not enough questions in domain",
				"domain", sf.Domain, "requested", sf.Requested, "delivered", sf.Delivered)
		}
		if len(plan.Questions) == 0 {
			fmt.Println("No questions match the selected domains.")
			return nil
		}

		session := exam.NewSession(plan, time.Now())
		screen := examscreen.New(session, time.Now)
		if _, err := tea.NewProgram(screen, tea.WithContext(cmd.Context())).Run(); err != nil {
			return fmt.Errorf("run exam: %w", err)
		}
		if screen.Aborted() {
			fmt.Println("Exam abandoned. Nothing was saved.")
			return nil
		}
		if !session.Finished() {
			if err := session.Finish(time.Now()); err != nil {
				return err
			}
		}
		if screen.TimedOut() {
			fmt.Println("Time is up. Your answers were submitted.")
		}

		a, err := attempt.FromSession(session)
		if err != nil {
			return err
		}
		if e.store != nil {
			if err := e.store.AttemptRepo().Save(cmd.Context(), a); err != nil {
				e.log.Warn("could not save attempt", "id", a.ID, "error", err)
			}
		}
		e.history.Add(a)

		fmt.Println(report.ScoreCard(a))
		if explain, _ := cmd.Flags().GetBool("explain"); explain {
			printExplanations(e.catalog, a)
		}
		return nil
	},
}

func init() {
	examCmd.Flags().String("mode", string(exam.ModeOfficial), "Exam mode: "+modeNames())
	examCmd.Flags().StringSlice("domains", nil, "Limit practice or review to domains (e.g. domain1,domain3)")
	examCmd.Flags().Int("max", 0, "Maximum questions for practice or review")
	examCmd.Flags().String("sort", string(history.SortRecent), "Review order for wrong-answers: recent or frequent")
	examCmd.Flags().Bool("focus-weak", false, "Weight practice toward weak domains")
	examCmd.Flags().Uint64("seed", 0, "Seed the question sampler for a reproducible exam")
	examCmd.Flags().Bool("explain", false, "Show explanations for missed questions after the exam")
}

func modeNames() string {
	names := make([]string, 0, len(exam.Modes()))
	for _, m := range exam.Modes() {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}

// examRequest builds the planner request from flags and the attempt history.
func examRequest(cmd *cobra.Command, e *env) (exam.Request, error) {
	modeName, _ := cmd.Flags().GetString("mode")
	mode, err := exam.ParseMode(modeName)
	if err != nil {
		return exam.Request{}, err
	}
	domainNames, _ := cmd.Flags().GetStringSlice("domains")
	domains, err := catalog.ParseDomainKeys(domainNames)
	if err != nil {
		return exam.Request{}, err
	}
	sortName, _ := cmd.Flags().GetString("sort")
	sortBy, err := history.ParseSortOrder(sortName)
	if err != nil {
		return exam.Request{}, err
	}
	maxQuestions, _ := cmd.Flags().GetInt("max")
	focusWeak, _ := cmd.Flags().GetBool("focus-weak")

	req := exam.Request{
		Mode:         mode,
		Domains:      domains,
		MaxQuestions: maxQuestions,
		RecentIDs:    e.history.RecentQuestionIDs(e.cfg.RecentWindow),
		FocusWeak:    focusWeak,
	}
	if focusWeak {
		req.WeakDomains = e.history.WeakDomains(e.cfg.WeakThreshold)
	}
	if mode == exam.ModeWrongAnswers {
		req.WrongIDs = e.history.FilteredWrongQuestionIDs(reviewFilter(domains, sortBy))
		if req.MaxQuestions <= 0 {
			req.MaxQuestions = e.cfg.ReviewLimit
		}
	}
	return req, nil
}

// reviewFilter spells out the domain set for a wrong-answers review.
// No --domains flag means every exam domain.
func reviewFilter(domains []catalog.DomainKey, sortBy history.SortOrder) history.WrongFilter {
	if len(domains) == 0 {
		domains = catalog.DomainKeys()
	}
	return history.WrongFilter{Domains: domains, SortBy: sortBy}
}

func printExplanations(repo *catalog.Repository, a attempt.Attempt) {
	wrong := a.WrongQuestionIDs()
	for i, id := range wrong {
		q, ok := repo.Get(id)
		if !ok {
			continue
		}
		var selected []catalog.OptionID
		for _, ans := range a.Answers {
			if ans.QuestionID == id {
				selected = ans.Selected
			}
		}
		correct := make([]string, len(q.Correct))
		for j, c := range q.Correct {
			correct[j] = string(c)
		}
		fmt.Printf("\n%s\n  Answer: %s\n  %s\n",
			report.Question(report.QuestionView{Number: i + 1, Total: len(wrong), Question: q, Selected: selected}),
			strings.Join(correct, ", "), q.Explanation)
	}
}
