package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all exam history",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("this deletes every stored exam; re-run with --yes to confirm")
		}

		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()
		if e.store == nil {
			return errors.New("storage is unavailable")
		}

		if err := e.store.AttemptRepo().Clear(cmd.Context()); err != nil {
			return err
		}
		e.history.Clear()
		fmt.Println("History cleared.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
