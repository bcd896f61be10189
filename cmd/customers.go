package main

import (
	"fmt"

	"devicepay-cli/internal/client"
	"devicepay-cli/internal/nav"
	"devicepay-cli/internal/session"

	"github.com/spf13/cobra"
)

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "Manage your customers",
}

var customersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the customers you onboarded",
	RunE:  runCustomersListCommand,
}

var customersShowCmd = &cobra.Command{
	Use:   "show <customer-id>",
	Short: "Show one customer with their loan position",
	Args:  cobra.ExactArgs(1),
	RunE:  runCustomersShowCommand,
}

var customersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Onboard a new customer",
	RunE:  runCustomersAddCommand,
}

var newCustomer client.CreateCustomerRequest

func init() {
	customersAddCmd.Flags().StringVar(&newCustomer.Username, "username", "", "Customer username (required)")
	customersAddCmd.Flags().StringVar(&newCustomer.Email, "email", "", "Customer email (required)")
	customersAddCmd.Flags().StringVar(&newCustomer.Password, "password", "", "Initial password (required)")
	customersAddCmd.Flags().StringVar(&newCustomer.PhoneNumber, "phone", "", "Phone number (required)")
	customersAddCmd.Flags().StringVar(&newCustomer.State, "state", "", "State")
	customersAddCmd.Flags().StringVar(&newCustomer.City, "city", "", "City")
	customersAddCmd.Flags().StringVar(&newCustomer.Address, "address", "", "Street address")
	customersAddCmd.Flags().StringVar(&newCustomer.Landmark, "landmark", "", "Nearby landmark")
	customersAddCmd.MarkFlagRequired("username")
	customersAddCmd.MarkFlagRequired("email")
	customersAddCmd.MarkFlagRequired("password")
	customersAddCmd.MarkFlagRequired("phone")

	customersCmd.AddCommand(customersListCmd)
	customersCmd.AddCommand(customersShowCmd)
	customersCmd.AddCommand(customersAddCmd)
	rootCmd.AddCommand(customersCmd)
}

// customersRoute maps the role to its customers screen. Only agents carry a
// customer book of their own.
func customersRoute(role session.Role) (nav.Route, error) {
	switch role {
	case session.RoleAgent:
		return nav.RouteAgentCustomers, nil
	case session.RoleSuperAgent:
		return nav.RouteSuperAgentCustomers, nil
	default:
		return "", fmt.Errorf("customers are only available to agent and super-agent accounts")
	}
}

func runCustomersListCommand(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := requireRole(app, session.RoleAgent); err != nil {
		return err
	}
	if err := app.OpenScreen(nav.RouteAgentCustomers); err != nil {
		return err
	}

	customers, err := app.API.AgentCustomers(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch customers: %w", err)
	}

	if len(customers) == 0 {
		fmt.Println("No customers yet")
		return nil
	}

	w := newTab()
	fmt.Fprintln(w, "ID\tNAME\tPHONE\tSTATUS\tACTIVE LOANS\tOUTSTANDING")
	for _, c := range customers {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.2f\n",
			c.ID, c.Name, c.Phone, c.Status, c.ActiveLoans, c.OutstandingBalance)
	}
	return w.Flush()
}

func runCustomersShowCommand(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	app.Guard.Reconcile()
	route, err := customersRoute(app.Role())
	if err != nil {
		if !app.State.Authenticated() {
			return errNotLoggedIn
		}
		return err
	}
	if err := app.OpenScreen(route); err != nil {
		return err
	}

	customer, err := app.API.FetchCustomer(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch customer: %w", err)
	}

	fmt.Printf("Name:        %s\n", customer.Name)
	fmt.Printf("Phone:       %s\n", customer.Phone)
	fmt.Printf("Email:       %s\n", customer.Email)
	fmt.Printf("Region:      %s / %s\n", customer.Region, customer.County)
	fmt.Printf("Status:      %s\n", customer.Status)
	fmt.Printf("Credit:      %d\n", customer.CreditScore)
	fmt.Printf("Borrowed:    %.2f\n", customer.TotalBorrowed)
	fmt.Printf("Paid:        %.2f\n", customer.TotalPaid)
	fmt.Printf("Outstanding: %.2f\n", customer.OutstandingBalance)

	if len(customer.Loans) > 0 {
		fmt.Println("\nLoans:")
		w := newTab()
		fmt.Fprintln(w, "ID\tDEVICE\tREMAINING\tNEXT PAYMENT")
		for _, l := range customer.Loans {
			fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", l.ID, l.DeviceType, l.RemainingAmount, l.NextPaymentDate)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func runCustomersAddCommand(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := requireRole(app, session.RoleAgent); err != nil {
		return err
	}
	if err := app.OpenScreen(nav.RouteAgentCustomers); err != nil {
		return err
	}

	if err := app.API.CreateCustomer(cmd.Context(), &newCustomer); err != nil {
		return fmt.Errorf("failed to onboard customer: %w", err)
	}

	fmt.Printf("Customer %s onboarded\n", newCustomer.Username)
	return nil
}
