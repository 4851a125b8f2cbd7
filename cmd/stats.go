package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/ccprep/internal/history"
	"github.com/abhisek/ccprep/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		top, _ := cmd.Flags().GetInt("top")
		threshold := int(e.cfg.WeakThreshold)
		trend, hasTrend := e.history.LastExamTrend()
		goal := e.goal(cmd.Context())

		fmt.Println(report.Stats(report.Dashboard{
			Stats:       e.history.Stats(),
			Trend:       trend,
			HasTrend:    hasTrend,
			WeakPoints:  e.history.WeakPoints(threshold, 0),
			WeakDomains: e.history.WeakDomains(e.cfg.WeakThreshold),
			TopMissed:   e.history.TopMissedQuestions(top),
			Threshold:   threshold,
			Goal:        report.Goal{TargetScore: goal.TargetScore, Deadline: goal.Deadline},
			Now:         time.Now(),
		}))
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("top", history.DefaultTopMissedLimit, "Number of most missed questions to show")
}
