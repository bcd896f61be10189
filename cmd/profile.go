package main

import (
	"fmt"

	"devicepay-cli/internal/nav"
	"devicepay-cli/internal/session"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your account profile",
	RunE:  runProfileCommand,
}

func init() {
	rootCmd.AddCommand(profileCmd)
}

func runProfileCommand(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := requireRole(app, session.RoleSuperAgent); err != nil {
		return err
	}
	if err := app.OpenScreen(nav.RouteSuperAgentProfile); err != nil {
		return err
	}

	profile, err := app.API.FetchSuperAgentProfile(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	fmt.Printf("Name:               %s\n", profile.Name)
	fmt.Printf("Email:              %s\n", profile.Email)
	fmt.Printf("Phone:              %s\n", profile.Phone)
	fmt.Printf("Region:             %s, %s\n", profile.City, profile.Region)
	fmt.Printf("Status:             %s\n", profile.Status)
	fmt.Printf("Joined:             %s\n", profile.JoinDate)
	fmt.Printf("Last active:        %s\n", profile.LastActive)
	fmt.Printf("Commission rate:    %.2f%%\n", profile.CommissionRate)
	fmt.Printf("Commission balance: %.2f\n", profile.CommissionBalance)
	return nil
}
