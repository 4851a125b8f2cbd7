package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/ccprep/internal/report"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show question counts per domain",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		fmt.Println(report.Catalog(e.catalog))
		return nil
	},
}
