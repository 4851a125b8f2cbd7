package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/ccprep/internal/report"
	"github.com/abhisek/ccprep/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past exams, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			limit = e.history.Len()
		}
		fmt.Println(report.AttemptTable(e.history.RecentAttempts(limit)))
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the score card of one exam",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		a, ok := e.history.Get(args[0])
		if !ok {
			return fmt.Errorf("exam %s not found", args[0])
		}
		fmt.Println(report.ScoreCard(a))
		if explain, _ := cmd.Flags().GetBool("explain"); explain {
			printExplanations(e.catalog, a)
		}
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one exam from the history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		if e.store == nil {
			return errors.New("storage is unavailable")
		}
		err = e.store.AttemptRepo().Delete(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("exam %s not found", args[0])
		}
		if err != nil {
			return err
		}
		e.history.Delete(args[0])
		fmt.Println("Deleted", args[0])
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Number of exams to show (0 = all)")
	historyShowCmd.Flags().Bool("explain", false, "Show explanations for missed questions")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
}
