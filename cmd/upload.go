// File: cmd/upload.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Kyle6012/plagiarism-detection/api/schemas"
	"github.com/Kyle6012/plagiarism-detection/internal/guard"
	"github.com/Kyle6012/plagiarism-detection/internal/history"
)

func newUploadCmd() *cobra.Command {
	var modeFlag string

	uploadCmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Submit a batch of documents for analysis",
		Long: `Uploads the given files as one batch. The server analyzes the whole
batch together and assigns it an identifier; use 'plagctl results' with
that identifier to retrieve the per-document outcomes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newComponents()
			if err != nil {
				return err
			}

			if err := c.checkAccess(guard.ViewUpload); err != nil {
				return err
			}

			mode, err := schemas.ParseAnalysisMode(modeFlag)
			if err != nil {
				return err
			}

			files, err := readBatchFiles(args)
			if err != nil {
				return err
			}

			c.Upload.Select(files...)
			c.Upload.SetMode(mode)

			batchID, err := c.Upload.Submit(cmd.Context())
			if err != nil {
				return err
			}

			recordSubmission(cmd.Context(), c, batchID, mode, len(files))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Batch accepted: %s (%d file(s), mode %s)\n", batchID, len(files), mode)
			fmt.Fprintf(out, "Fetch results with: plagctl results %s\n", batchID)
			return nil
		},
	}

	uploadCmd.Flags().StringVarP(&modeFlag, "mode", "m", string(schemas.DefaultAnalysisMode), "analysis mode: plagiarism, ai or both")

	return uploadCmd
}

// readBatchFiles loads every named file into memory, preserving the
// order the user gave them in.
func readBatchFiles(paths []string) ([]schemas.BatchFile, error) {
	files := make([]schemas.BatchFile, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}
		files = append(files, schemas.BatchFile{
			Name:    filepath.Base(path),
			Size:    int64(len(content)),
			Content: content,
		})
	}
	return files, nil
}

// recordSubmission writes the accepted batch to the local history. Best
// effort: the upload already succeeded, so a history problem is only
// logged, never surfaced as a command failure.
func recordSubmission(ctx context.Context, c *Components, batchID string, mode schemas.AnalysisMode, fileCount int) {
	store, err := c.openHistory()
	if err != nil {
		c.Logger.Warn("Submission not recorded in local history", zap.Error(err))
		return
	}
	defer store.Close()

	err = store.Record(ctx, history.Entry{BatchID: batchID, Mode: mode, FileCount: fileCount})
	if err != nil {
		c.Logger.Warn("Submission not recorded in local history", zap.Error(err))
	}
}
