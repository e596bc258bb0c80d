// File: cmd/results.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kyle6012/plagiarism-detection/internal/guard"
	"github.com/Kyle6012/plagiarism-detection/internal/results"
)

func newResultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "results <batch-id>",
		Short: "Fetch the analysis results for a batch",
		Long: `Retrieves the per-document comparison results for a previously
submitted batch. The fetch is a single snapshot; if the analysis is
still running the list may be empty, in which case re-run the command
later.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newComponents()
			if err != nil {
				return err
			}

			if err := c.checkAccess(guard.ViewResults); err != nil {
				return err
			}

			batchID := args[0]
			list, err := c.Results.Load(cmd.Context(), batchID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Results for batch %s:\n", batchID)
			if err := results.RenderTable(out, list); err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(out, "If the batch was submitted recently, the analysis may still be running; try again in a moment.")
			}
			return nil
		},
	}
}
