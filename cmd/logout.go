// File: cmd/logout.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the local session",
		Long:  `Removes the stored session token. Safe to run repeatedly; logging out of an already logged-out client does nothing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newComponents()
			if err != nil {
				return err
			}

			c.Session.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}
