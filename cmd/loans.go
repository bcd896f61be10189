package main

import (
	"fmt"

	"devicepay-cli/internal/client"
	"devicepay-cli/internal/nav"
	"devicepay-cli/internal/session"

	"github.com/spf13/cobra"
)

var loansCmd = &cobra.Command{
	Use:   "loans",
	Short: "View and open financing agreements",
}

var loansListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a customer's loans",
	RunE:  runLoansListCommand,
}

var loansCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Open a financing agreement for a device",
	RunE:  runLoansCreateCommand,
}

var (
	loansCustomerID string

	newLoan          client.CreateLoanRequest
	guarantorName    string
	guarantorAddress string
	guarantorPhone   string
)

func init() {
	loansListCmd.Flags().StringVar(&loansCustomerID, "customer", "", "Customer ID (required)")
	loansListCmd.MarkFlagRequired("customer")

	loansCreateCmd.Flags().StringVar(&newLoan.CustomerID, "customer", "", "Customer ID (required)")
	loansCreateCmd.Flags().StringVar(&newLoan.DeviceID, "device", "", "Device ID (required)")
	loansCreateCmd.Flags().Float64Var(&newLoan.DevicePrice, "price", 0, "Device price (required)")
	loansCreateCmd.Flags().IntVar(&newLoan.TermMonths, "term", 0, "Term in months (required)")
	loansCreateCmd.Flags().Float64Var(&newLoan.DownPayment, "down-payment", 0, "Down payment")
	loansCreateCmd.Flags().StringVar(&newLoan.PaymentFrequency, "frequency", "monthly", "Payment frequency: daily, weekly or monthly")
	loansCreateCmd.Flags().StringVar(&guarantorName, "guarantor-name", "", "Guarantor name")
	loansCreateCmd.Flags().StringVar(&guarantorAddress, "guarantor-address", "", "Guarantor address")
	loansCreateCmd.Flags().StringVar(&guarantorPhone, "guarantor-phone", "", "Guarantor phone number")
	loansCreateCmd.MarkFlagRequired("customer")
	loansCreateCmd.MarkFlagRequired("device")
	loansCreateCmd.MarkFlagRequired("price")
	loansCreateCmd.MarkFlagRequired("term")

	loansCmd.AddCommand(loansListCmd)
	loansCmd.AddCommand(loansCreateCmd)
	rootCmd.AddCommand(loansCmd)
}

func runLoansListCommand(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := requireRole(app, session.RoleAgent, session.RoleSuperAgent); err != nil {
		return err
	}

	route := nav.RouteAgentCustomers
	if app.Role() == session.RoleSuperAgent {
		route = nav.RouteSuperAgentCustomers
	}
	if err := app.OpenScreen(route); err != nil {
		return err
	}

	loans, err := app.API.CustomerLoans(cmd.Context(), loansCustomerID)
	if err != nil {
		return fmt.Errorf("failed to fetch loans: %w", err)
	}

	if len(loans) == 0 {
		fmt.Println("No loans")
		return nil
	}

	w := newTab()
	fmt.Fprintln(w, "ID\tDEVICE\tREMAINING\tNEXT PAYMENT")
	for _, l := range loans {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", l.ID, l.DeviceType, l.RemainingAmount, l.NextPaymentDate)
	}
	return w.Flush()
}

func runLoansCreateCommand(cmd *cobra.Command, args []string) error {
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

	if guarantorName != "" {
		newLoan.Guarantor.Name = &guarantorName
	}
	if guarantorAddress != "" {
		newLoan.Guarantor.Address = &guarantorAddress
	}
	if guarantorPhone != "" {
		newLoan.Guarantor.PhoneNumber = &guarantorPhone
	}

	if err := app.API.CreateLoan(cmd.Context(), &newLoan); err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}

	fmt.Printf("Loan opened for customer %s\n", newLoan.CustomerID)
	return nil
}
