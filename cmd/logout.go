package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	Long: `Log out of the current session.
The stored token and cached profile are removed; logging out when no
session exists is a no-op.`,
	RunE: runLogoutCommand,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogoutCommand(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	app.Guard.Reconcile()

	if err := app.Manager.Logout(); err != nil {
		// The session is already torn down; surface the cleanup failure
		// so leftover credentials don't go unnoticed.
		return fmt.Errorf("logged out, but failed to remove stored credentials: %w", err)
	}

	fmt.Println("Logged out")
	return nil
}
