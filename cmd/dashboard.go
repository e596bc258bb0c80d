// File: cmd/dashboard.go
package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Kyle6012/plagiarism-detection/internal/dashboard"
	"github.com/Kyle6012/plagiarism-detection/internal/guard"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show aggregate account metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newComponents()
			if err != nil {
				return err
			}

			if err := c.checkAccess(guard.ViewDashboard); err != nil {
				return err
			}

			metrics, err := c.Dashboard.Load(cmd.Context())
			if err != nil {
				return err
			}

			avg := dashboard.AverageDocsPerBatch(metrics)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Batches:   %d\n", metrics.NumBatches)
			fmt.Fprintf(out, "Documents: %d\n", metrics.NumDocuments)
			fmt.Fprintf(out, "Average documents per batch: %s\n", strconv.FormatFloat(avg, 'f', -1, 64))
			return nil
		},
	}
}
