package main

import (
	"fmt"

	"devicepay-cli/internal/client"
	"devicepay-cli/internal/nav"
	"devicepay-cli/internal/session"

	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Browse and assign device inventory",
}

var devicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the devices you manage",
	RunE:  runDevicesListCommand,
}

var devicesAvailableCmd = &cobra.Command{
	Use:   "available",
	Short: "List devices available for financing",
	RunE:  runDevicesAvailableCommand,
}

var devicesAssignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign a device to an agent or a customer",
	RunE:  runDevicesAssignCommand,
}

var (
	assignDeviceID   string
	assignAgentID    string
	assignCustomerID string
)

func init() {
	devicesAssignCmd.Flags().StringVar(&assignDeviceID, "device", "", "Device ID (required)")
	devicesAssignCmd.Flags().StringVar(&assignAgentID, "agent", "", "Agent to assign the device to")
	devicesAssignCmd.Flags().StringVar(&assignCustomerID, "customer", "", "Customer to assign the device to")
	devicesAssignCmd.MarkFlagRequired("device")

	devicesCmd.AddCommand(devicesListCmd)
	devicesCmd.AddCommand(devicesAvailableCmd)
	devicesCmd.AddCommand(devicesAssignCmd)
	rootCmd.AddCommand(devicesCmd)
}

func runDevicesListCommand(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := requireRole(app, session.RoleAgent, session.RoleSuperAgent); err != nil {
		return err
	}

	var (
		route nav.Route
		fetch func() ([]client.Device, error)
	)
	switch app.Role() {
	case session.RoleAgent:
		route = nav.RouteAgentDevices
		fetch = func() ([]client.Device, error) { return app.API.AgentDevices(cmd.Context()) }
	case session.RoleSuperAgent:
		route = nav.RouteSuperAgentDevices
		fetch = func() ([]client.Device, error) { return app.API.SuperAgentDevices(cmd.Context()) }
	}

	if err := app.OpenScreen(route); err != nil {
		return err
	}

	devices, err := fetch()
	if err != nil {
		return fmt.Errorf("failed to fetch devices: %w", err)
	}
	return renderDevices(devices)
}

func runDevicesAvailableCommand(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := requireRole(app, session.RoleAgent); err != nil {
		return err
	}
	if err := app.OpenScreen(nav.RouteAgentDevices); err != nil {
		return err
	}

	devices, err := app.API.AvailableDevices(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch available devices: %w", err)
	}
	return renderDevices(devices)
}

func runDevicesAssignCommand(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := requireRole(app, session.RoleSuperAgent); err != nil {
		return err
	}
	if err := app.OpenScreen(nav.RouteSuperAgentDevices); err != nil {
		return err
	}

	req := &client.AssignDeviceRequest{
		DeviceID:   assignDeviceID,
		AgentID:    assignAgentID,
		CustomerID: assignCustomerID,
	}
	if err := app.API.AssignDevice(cmd.Context(), req); err != nil {
		return fmt.Errorf("failed to assign device: %w", err)
	}

	fmt.Printf("Device %s assigned\n", assignDeviceID)
	return nil
}

func renderDevices(devices []client.Device) error {
	if len(devices) == 0 {
		fmt.Println("No devices")
		return nil
	}

	w := newTab()
	fmt.Fprintln(w, "ID\tSERIAL\tMODEL\tTYPE\tSTATUS\tAMOUNT\tASSIGNED TO")
	for _, d := range devices {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2f\t%s\n",
			d.ID, d.SerialNumber, d.Model, d.Type, d.Status, d.Amount, d.AssignedToCustomerName)
	}
	return w.Flush()
}
