// File: cmd/register.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kyle6012/plagiarism-detection/internal/guard"
)

func newRegisterCmd() *cobra.Command {
	var email string
	var password string
	var confirm string

	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newComponents()
			if err != nil {
				return err
			}

			if err := c.checkAccess(guard.ViewRegister); err != nil {
				return err
			}

			// Validation errors are caught before any network call.
			if password != confirm {
				return fmt.Errorf("passwords do not match")
			}

			if err := c.API.Register(cmd.Context(), email, password); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Account created. Run 'plagctl login' to sign in.")
			return nil
		},
	}

	registerCmd.Flags().StringVarP(&email, "email", "e", "", "email address for the new account (required)")
	registerCmd.Flags().StringVarP(&password, "password", "p", "", "password for the new account (required)")
	registerCmd.Flags().StringVar(&confirm, "confirm", "", "password confirmation (required)")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")
	_ = registerCmd.MarkFlagRequired("confirm")

	return registerCmd
}
