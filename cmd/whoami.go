// File: cmd/whoami.go
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Kyle6012/plagiarism-detection/internal/guard"
	"github.com/Kyle6012/plagiarism-detection/internal/session"
)

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newComponents()
			if err != nil {
				return err
			}

			if err := c.checkAccess(guard.ViewWhoami); err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			// The claims are decoded for display only; the server remains
			// the sole authority on whether the token is actually valid.
			claims, err := session.InspectClaims(c.Session.Token())
			if err != nil {
				fmt.Fprintln(out, "Logged in with an opaque token.")
				return nil
			}

			if claims.Subject != "" {
				fmt.Fprintf(out, "Logged in as %s\n", claims.Subject)
			} else {
				fmt.Fprintln(out, "Logged in.")
			}
			if !claims.ExpiresAt.IsZero() {
				fmt.Fprintf(out, "Token expires %s\n", claims.ExpiresAt.Local().Format("2006-01-02 15:04"))
				if claims.Expired(time.Now()) {
					fmt.Fprintln(out, "The token looks expired; authenticated commands will likely fail until you log in again.")
				}
			}
			return nil
		},
	}
}
