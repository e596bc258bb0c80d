// File: cmd/history.go
package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Kyle6012/plagiarism-detection/internal/guard"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List batches submitted from this machine",
		Long:  `Lists locally recorded submissions, newest first. The history lives on this machine only; batches submitted elsewhere do not appear.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newComponents()
			if err != nil {
				return err
			}

			if err := c.checkAccess(guard.ViewHistory); err != nil {
				return err
			}

			store, err := c.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No submissions recorded yet.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "BATCH ID\tMODE\tFILES\tSUBMITTED")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", e.BatchID, e.Mode, e.FileCount, e.SubmittedAt.Local().Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}

	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of entries to show")

	return historyCmd
}
