package main

import (
	"encoding/json"
	"fmt"

	"devicepay-cli/internal/client"
	"devicepay-cli/internal/session"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the home-screen summary for your role",
	Long: `Show the dashboard summary for the logged-in role.
The last fetched summary is kept in the local cache; pass --cached to
render it without contacting the server.`,
	RunE: runDashboardCommand,
}

var dashboardCached bool

func init() {
	dashboardCmd.Flags().BoolVar(&dashboardCached, "cached", false, "Render the last fetched summary without contacting the server")

	rootCmd.AddCommand(dashboardCmd)
}

func runDashboardCommand(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	app.Guard.Reconcile()
	role := app.Role()
	if err := app.OpenScreen(session.HomeRoute(role)); err != nil {
		return err
	}

	switch role {
	case session.RoleAgent:
		return showAgentDashboard(cmd, app)
	case session.RoleSuperAgent:
		return showSuperAgentDashboard(cmd, app)
	case session.RoleCustomer:
		fmt.Println("Customer accounts have no dashboard summary. Use 'devicepay loans list' to see your loans.")
		return nil
	default:
		return errNotLoggedIn
	}
}

func showAgentDashboard(cmd *cobra.Command, app *App) error {
	cacheKey := "dashboard:agent"

	var dash client.AgentDashboard
	if dashboardCached {
		if err := readSnapshot(app, cacheKey, &dash); err != nil {
			return err
		}
	} else {
		fetched, err := app.API.FetchAgentDashboard(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch dashboard: %w", err)
		}
		dash = *fetched
		writeSnapshot(app, cacheKey, dash)
	}

	fmt.Printf("Customers:            %d\n", dash.TotalCustomers)
	fmt.Printf("Loans:                %d\n", dash.TotalLoans)
	fmt.Printf("Payments collected:   %.2f\n", dash.TotalPaymentsCollected)
	fmt.Printf("Commissions earned:   %.2f\n", dash.TotalCommissionsEarned)
	return nil
}

func showSuperAgentDashboard(cmd *cobra.Command, app *App) error {
	cacheKey := "dashboard:super-agent"

	var dash client.SuperAgentDashboard
	if dashboardCached {
		if err := readSnapshot(app, cacheKey, &dash); err != nil {
			return err
		}
	} else {
		fetched, err := app.API.FetchSuperAgentDashboard(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch dashboard: %w", err)
		}
		dash = *fetched
		writeSnapshot(app, cacheKey, dash)
	}

	fmt.Printf("Agents managed:       %d\n", dash.AgentsManaged)
	fmt.Printf("Customers:            %d\n", dash.TotalCustomers)
	fmt.Printf("Sales volume:         %.2f\n", dash.TotalSalesVolume)
	fmt.Printf("Commissions earned:   %.2f\n", dash.TotalCommissionsEarned)
	return nil
}

func readSnapshot(app *App, key string, v interface{}) error {
	raw, err := app.Cache.Get(key)
	if err != nil {
		return fmt.Errorf("failed to read cached summary: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("no cached summary yet; run 'devicepay dashboard' online first")
	}
	return json.Unmarshal(raw, v)
}

func writeSnapshot(app *App, key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := app.Cache.Put(key, raw); err != nil {
		app.Logger.WithError(err).Warn("Failed to cache dashboard summary")
	}
}
