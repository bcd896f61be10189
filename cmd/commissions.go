package main

import (
	"fmt"

	"devicepay-cli/internal/client"
	"devicepay-cli/internal/nav"
	"devicepay-cli/internal/session"

	"github.com/spf13/cobra"
)

var commissionsCmd = &cobra.Command{
	Use:   "commissions",
	Short: "View commission earnings and request payouts",
}

var commissionsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your commission balance and withdrawal history",
	RunE:  runCommissionsShowCommand,
}

var commissionsWithdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Request a commission payout",
	RunE:  runCommissionsWithdrawCommand,
}

var (
	withdrawAmount        float64
	withdrawTransactionID string
)

func init() {
	commissionsWithdrawCmd.Flags().Float64Var(&withdrawAmount, "amount", 0, "Amount to withdraw (required)")
	commissionsWithdrawCmd.Flags().StringVar(&withdrawTransactionID, "transaction-id", "", "External transaction reference")
	commissionsWithdrawCmd.MarkFlagRequired("amount")

	commissionsCmd.AddCommand(commissionsShowCmd)
	commissionsCmd.AddCommand(commissionsWithdrawCmd)
	rootCmd.AddCommand(commissionsCmd)
}

func runCommissionsShowCommand(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := requireRole(app, session.RoleSuperAgent); err != nil {
		return err
	}
	if err := app.OpenScreen(nav.RouteSuperAgentCommissions); err != nil {
		return err
	}

	commissions, err := app.API.FetchCommissions(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch commissions: %w", err)
	}

	fmt.Printf("Balance:      %.2f\n", commissions.CommissionBalance)
	fmt.Printf("Paid out:     %.2f\n", commissions.CommissionPaid)
	fmt.Printf("Total earned: %.2f\n", commissions.TotalCommissionsEarned)

	if len(commissions.WithdrawalHistory) > 0 {
		fmt.Println("\nWithdrawals:")
		w := newTab()
		fmt.Fprintln(w, "DATE\tAMOUNT\tREFERENCE")
		for _, wd := range commissions.WithdrawalHistory {
			ref := ""
			if wd.TransactionID != nil {
				ref = *wd.TransactionID
			}
			fmt.Fprintf(w, "%s\t%.2f\t%s\n", wd.Date, wd.Amount, ref)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func runCommissionsWithdrawCommand(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := requireRole(app, session.RoleSuperAgent); err != nil {
		return err
	}
	if err := app.OpenScreen(nav.RouteSuperAgentCommissions); err != nil {
		return err
	}

	req := &client.WithdrawCommissionRequest{Amount: withdrawAmount}
	if withdrawTransactionID != "" {
		req.TransactionID = &withdrawTransactionID
	}

	if err := app.API.WithdrawCommission(cmd.Context(), req); err != nil {
		return fmt.Errorf("failed to request withdrawal: %w", err)
	}

	fmt.Printf("Withdrawal of %.2f requested\n", withdrawAmount)
	return nil
}
