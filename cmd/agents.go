package main

import (
	"fmt"

	"devicepay-cli/internal/client"
	"devicepay-cli/internal/nav"
	"devicepay-cli/internal/session"

	"github.com/spf13/cobra"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Manage the agents you supervise",
}

var agentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your agents",
	RunE:  runAgentsListCommand,
}

var agentsShowCmd = &cobra.Command{
	Use:   "show <agent-id>",
	Short: "Show one agent with their assigned devices",
	Args:  cobra.ExactArgs(1),
	RunE:  runAgentsShowCommand,
}

var agentsOnboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Onboard a new agent",
	RunE:  runAgentsOnboardCommand,
}

var newAgent client.CreateAgentRequest

func init() {
	agentsOnboardCmd.Flags().StringVar(&newAgent.Username, "username", "", "Agent username (required)")
	agentsOnboardCmd.Flags().StringVar(&newAgent.Name, "name", "", "Agent full name (required)")
	agentsOnboardCmd.Flags().StringVar(&newAgent.Email, "email", "", "Agent email (required)")
	agentsOnboardCmd.Flags().StringVar(&newAgent.Password, "password", "", "Initial password (required)")
	agentsOnboardCmd.Flags().StringVar(&newAgent.PhoneNumber, "phone", "", "Phone number (required)")
	agentsOnboardCmd.Flags().StringVar(&newAgent.State, "state", "", "State")
	agentsOnboardCmd.Flags().StringVar(&newAgent.City, "city", "", "City")
	agentsOnboardCmd.Flags().StringVar(&newAgent.Address, "address", "", "Street address")
	agentsOnboardCmd.Flags().StringVar(&newAgent.Landmark, "landmark", "", "Nearby landmark")
	agentsOnboardCmd.MarkFlagRequired("username")
	agentsOnboardCmd.MarkFlagRequired("name")
	agentsOnboardCmd.MarkFlagRequired("email")
	agentsOnboardCmd.MarkFlagRequired("password")
	agentsOnboardCmd.MarkFlagRequired("phone")

	agentsCmd.AddCommand(agentsListCmd)
	agentsCmd.AddCommand(agentsShowCmd)
	agentsCmd.AddCommand(agentsOnboardCmd)
	rootCmd.AddCommand(agentsCmd)
}

func runAgentsListCommand(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := requireRole(app, session.RoleSuperAgent); err != nil {
		return err
	}
	if err := app.OpenScreen(nav.RouteSuperAgentAgents); err != nil {
		return err
	}

	agents, err := app.API.MyAgents(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch agents: %w", err)
	}

	if len(agents) == 0 {
		fmt.Println("No agents yet")
		return nil
	}

	w := newTab()
	fmt.Fprintln(w, "ID\tNAME\tREGION\tSTATUS\tDEVICES\tTOTAL SALES")
	for _, a := range agents {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.2f\n",
			a.ID, a.Name, a.Region, a.Status, a.DevicesManaged, a.TotalSales)
	}
	return w.Flush()
}

func runAgentsShowCommand(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := requireRole(app, session.RoleSuperAgent); err != nil {
		return err
	}
	if err := app.OpenScreen(nav.RouteSuperAgentAgents); err != nil {
		return err
	}

	agent, err := app.API.FetchAgent(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch agent: %w", err)
	}

	fmt.Printf("Name:               %s\n", agent.Name)
	fmt.Printf("Email:              %s\n", agent.Email)
	fmt.Printf("Phone:              %s\n", agent.Phone)
	fmt.Printf("Region:             %s, %s\n", agent.City, agent.Region)
	fmt.Printf("Status:             %s\n", agent.Status)
	fmt.Printf("Commission rate:    %.2f%%\n", agent.CommissionRate)
	fmt.Printf("Commission balance: %.2f\n", agent.CommissionBalance)
	fmt.Printf("Total sales:        %.2f\n", agent.TotalSales)

	if len(agent.AssignedDevices) > 0 {
		fmt.Println("\nAssigned devices:")
		w := newTab()
		fmt.Fprintln(w, "ID\tSERIAL\tMODEL\tSTATUS")
		for _, d := range agent.AssignedDevices {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.ID, d.SerialNumber, d.Model, d.Status)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func runAgentsOnboardCommand(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := requireRole(app, session.RoleSuperAgent); err != nil {
		return err
	}
	if err := app.OpenScreen(nav.RouteSuperAgentAgents); err != nil {
		return err
	}

	if err := app.API.CreateAgent(cmd.Context(), &newAgent); err != nil {
		return fmt.Errorf("failed to onboard agent: %w", err)
	}

	fmt.Printf("Agent %s onboarded\n", newAgent.Username)
	return nil
}
