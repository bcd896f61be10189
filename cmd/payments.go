package main

import (
	"fmt"

	"devicepay-cli/internal/client"
	"devicepay-cli/internal/nav"
	"devicepay-cli/internal/session"

	"github.com/spf13/cobra"
)

var paymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "View and record repayments",
}

var paymentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List repayments across your network",
	RunE:  runPaymentsListCommand,
}

var paymentsRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a repayment collected out of band",
	RunE:  runPaymentsRecordCommand,
}

var (
	paymentUserID        string
	paymentLoanID        string
	paymentAmount        float64
	paymentMethod        string
	paymentTransactionID string
)

func init() {
	paymentsRecordCmd.Flags().StringVar(&paymentUserID, "user", "", "Customer user ID (required)")
	paymentsRecordCmd.Flags().StringVar(&paymentLoanID, "loan", "", "Loan ID (required)")
	paymentsRecordCmd.Flags().Float64Var(&paymentAmount, "amount", 0, "Amount collected (required)")
	paymentsRecordCmd.Flags().StringVar(&paymentMethod, "method", "cash", "Payment method")
	paymentsRecordCmd.Flags().StringVar(&paymentTransactionID, "transaction-id", "", "External transaction reference")
	paymentsRecordCmd.MarkFlagRequired("user")
	paymentsRecordCmd.MarkFlagRequired("loan")
	paymentsRecordCmd.MarkFlagRequired("amount")

	paymentsCmd.AddCommand(paymentsListCmd)
	paymentsCmd.AddCommand(paymentsRecordCmd)
	rootCmd.AddCommand(paymentsCmd)
}

func runPaymentsListCommand(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := requireRole(app, session.RoleSuperAgent); err != nil {
		return err
	}
	if err := app.OpenScreen(nav.RouteSuperAgentPayments); err != nil {
		return err
	}

	payments, err := app.API.SuperAgentPayments(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch payments: %w", err)
	}

	if len(payments) == 0 {
		fmt.Println("No payments")
		return nil
	}

	w := newTab()
	fmt.Fprintln(w, "DATE\tCUSTOMER\tAGENT\tDEVICE\tAMOUNT\tMETHOD\tSTATUS")
	for _, p := range payments {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%s\t%s\n",
			p.PaymentDate, p.CustomerName, p.AgentName, p.DeviceSerialNumber,
			p.Amount, p.PaymentMethod, p.Status)
	}
	return w.Flush()
}

func runPaymentsRecordCommand(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := requireRole(app, session.RoleAgent, session.RoleSuperAgent); err != nil {
		return err
	}

	route := nav.RouteAgentPayments
	if app.Role() == session.RoleSuperAgent {
		route = nav.RouteSuperAgentPayments
	}
	if err := app.OpenScreen(route); err != nil {
		return err
	}

	req := &client.ManualPaymentRequest{
		UserID:        paymentUserID,
		LoanID:        paymentLoanID,
		Amount:        paymentAmount,
		PaymentMethod: paymentMethod,
	}
	if paymentTransactionID != "" {
		req.TransactionID = &paymentTransactionID
	}

	if err := app.API.RecordManualPayment(cmd.Context(), req); err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}

	fmt.Printf("Payment of %.2f recorded against loan %s\n", paymentAmount, paymentLoanID)
	return nil
}
