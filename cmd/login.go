// File: cmd/login.go
package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Kyle6012/plagiarism-detection/internal/guard"
	"github.com/Kyle6012/plagiarism-detection/internal/session"
)

func newLoginCmd() *cobra.Command {
	var username string
	var password string

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and persist the session token",
		Long:  `Exchanges your credentials for a session token and stores it locally, so subsequent commands run authenticated until you log out.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newComponents()
			if err != nil {
				return err
			}

			if err := c.checkAccess(guard.ViewLogin); err != nil {
				return err
			}

			if password == "" {
				// Allow piping the password in rather than leaving it in
				// shell history via the flag.
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return fmt.Errorf("a password is required")
			}

			token, err := c.API.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			if err := c.Session.Login(token); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Logged in.")
			if claims, err := session.InspectClaims(token); err == nil && claims.Subject != "" {
				fmt.Fprintf(out, "Session for %s", claims.Subject)
				if !claims.ExpiresAt.IsZero() {
					fmt.Fprintf(out, ", valid until %s", claims.ExpiresAt.Local().Format("2006-01-02 15:04"))
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	loginCmd.Flags().StringVarP(&username, "username", "u", "", "account email address (required)")
	loginCmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when omitted)")
	_ = loginCmd.MarkFlagRequired("username")

	return loginCmd
}
