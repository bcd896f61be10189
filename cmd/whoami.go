package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE:  runWhoamiCommand,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoamiCommand(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	app.Guard.Reconcile()
	if !app.State.Authenticated() {
		return errNotLoggedIn
	}

	_, profile, err := app.Store.Load()
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if profile == nil {
		return errNotLoggedIn
	}

	fmt.Printf("Username: %s\n", profile.Username)
	fmt.Printf("Role:     %s\n", profile.Role)
	fmt.Printf("User ID:  %s\n", profile.ID)
	return nil
}
