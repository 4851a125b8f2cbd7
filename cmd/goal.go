package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/ccprep/internal/scoring"
	"github.com/abhisek/ccprep/internal/store"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Show the target score",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		g := e.goal(cmd.Context())
		fmt.Printf("Target score: %d\n", g.TargetScore)
		if g.Deadline != nil {
			fmt.Printf("Deadline:     %s\n", g.Deadline.Format(time.DateOnly))
		}
		return nil
	},
}

var goalSetCmd = &cobra.Command{
	Use:   "set <score>",
	Short: "Set the target score and optional exam date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := strconv.Atoi(args[0])
		if err != nil || score < scoring.MinScore || score > scoring.MaxScore {
			return fmt.Errorf("target score must be between %d and %d", scoring.MinScore, scoring.MaxScore)
		}
		goal := store.Goal{TargetScore: score}
		if d, _ := cmd.Flags().GetString("deadline"); d != "" {
			t, err := time.Parse(time.DateOnly, d)
			if err != nil {
				return fmt.Errorf("deadline must look like 2006-01-02: %w", err)
			}
			goal.Deadline = &t
		}

		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()
		if e.store == nil {
			return errors.New("storage is unavailable")
		}
		if err := e.store.SettingsRepo().SetGoal(cmd.Context(), goal); err != nil {
			return err
		}
		fmt.Println("Goal saved.")
		return nil
	},
}

func init() {
	goalSetCmd.Flags().String("deadline", "", "Planned exam date (YYYY-MM-DD)")
	goalCmd.AddCommand(goalSetCmd)
}
