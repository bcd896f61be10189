package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"devicepay-cli/internal/apitest"
)

func newAuthenticatedClient(t *testing.T) (*HTTPClient, *apitest.Server) {
	t.Helper()

	server := apitest.New(t)
	server.AddAccount("amy", "secret", "tok123", "1", "agent")
	c := newTestClient(t, server, &staticCreds{token: "tok123"})
	return c, server
}

func TestLogin(t *testing.T) {
	server := apitest.New(t)
	server.AddAccount("amy", "secret", "tok123", "1", "agent")

	c := newTestClient(t, server, &staticCreds{})

	resp, err := c.Login(context.Background(), "amy", "secret")
	if err != nil {
		t.Fatalf("Login() returned error: %v", err)
	}

	if resp.Token != "tok123" {
		t.Errorf("Login() token = %q, want %q", resp.Token, "tok123")
	}
	if resp.User.Username != "amy" || resp.User.Role != "agent" || resp.User.ID != "1" {
		t.Errorf("Login() user = %+v", resp.User)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	server := apitest.New(t)
	server.AddAccount("amy", "secret", "tok123", "1", "agent")

	c := newTestClient(t, server, &staticCreds{})

	_, err := c.Login(context.Background(), "amy", "wrong")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Login() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("APIError status = %d, want %d", apiErr.StatusCode, http.StatusBadRequest)
	}
	if apiErr.Message != "Invalid credentials" {
		t.Errorf("APIError message = %q", apiErr.Message)
	}
}

func TestLoginMissingFields(t *testing.T) {
	server := apitest.New(t)
	c := newTestClient(t, server, &staticCreds{})

	if _, err := c.Login(context.Background(), "", "secret"); err == nil {
		t.Error("Login() with empty username should fail validation")
	}
	if _, err := c.Login(context.Background(), "amy", ""); err == nil {
		t.Error("Login() with empty password should fail validation")
	}

	// Validation failures never reach the server
	if reqs := server.Requests(); len(reqs) != 0 {
		t.Errorf("Server saw %d requests, want 0", len(reqs))
	}
}

func TestFetchAgentDashboard(t *testing.T) {
	c, server := newAuthenticatedClient(t)
	server.AgentDashboard = map[string]interface{}{
		"totalCustomers":         12,
		"totalLoans":             30,
		"totalPaymentsCollected": 45000.50,
		"totalCommissionsEarned": 1200.0,
	}

	dash, err := c.FetchAgentDashboard(context.Background())
	if err != nil {
		t.Fatalf("FetchAgentDashboard() returned error: %v", err)
	}

	if dash.TotalCustomers != 12 || dash.TotalLoans != 30 {
		t.Errorf("Dashboard = %+v", dash)
	}
	if dash.TotalPaymentsCollected != 45000.50 {
		t.Errorf("TotalPaymentsCollected = %v, want 45000.50", dash.TotalPaymentsCollected)
	}
}

func TestFetchCustomer(t *testing.T) {
	c, server := newAuthenticatedClient(t)
	server.Customers = []map[string]interface{}{
		{
			"id":                 "c1",
			"name":               "Grace O.",
			"creditScore":        710,
			"outstandingBalance": 150.25,
			"loans": []map[string]interface{}{
				{"id": "l1", "deviceType": "smartphone", "remainingAmount": 150.25, "nextPaymentDate": "2026-09-05"},
			},
		},
	}

	customer, err := c.FetchCustomer(context.Background(), "c1")
	if err != nil {
		t.Fatalf("FetchCustomer() returned error: %v", err)
	}

	if customer.Name != "Grace O." || customer.CreditScore != 710 {
		t.Errorf("Customer = %+v", customer)
	}
	if len(customer.Loans) != 1 || customer.Loans[0].DeviceType != "smartphone" {
		t.Errorf("Customer loans = %+v", customer.Loans)
	}
}

func TestFetchCustomerNotFound(t *testing.T) {
	c, _ := newAuthenticatedClient(t)

	_, err := c.FetchCustomer(context.Background(), "nope")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("FetchCustomer() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("APIError status = %d, want %d", apiErr.StatusCode, http.StatusNotFound)
	}
}

func TestFetchCustomerEmptyID(t *testing.T) {
	c, _ := newAuthenticatedClient(t)

	if _, err := c.FetchCustomer(context.Background(), ""); err == nil {
		t.Error("FetchCustomer() with empty id should return error")
	}
}

func TestCreateLoanValidation(t *testing.T) {
	c, server := newAuthenticatedClient(t)

	tests := []struct {
		name    string
		req     *CreateLoanRequest
		wantErr bool
	}{
		{
			name: "valid",
			req: &CreateLoanRequest{
				CustomerID:       "c1",
				DeviceID:         "d1",
				DevicePrice:      300,
				TermMonths:       6,
				DownPayment:      50,
				PaymentFrequency: "monthly",
			},
			wantErr: false,
		},
		{
			name: "missing customer",
			req: &CreateLoanRequest{
				DeviceID:         "d1",
				DevicePrice:      300,
				TermMonths:       6,
				PaymentFrequency: "monthly",
			},
			wantErr: true,
		},
		{
			name: "zero price",
			req: &CreateLoanRequest{
				CustomerID:       "c1",
				DeviceID:         "d1",
				TermMonths:       6,
				PaymentFrequency: "monthly",
			},
			wantErr: true,
		},
		{
			name: "bad frequency",
			req: &CreateLoanRequest{
				CustomerID:       "c1",
				DeviceID:         "d1",
				DevicePrice:      300,
				TermMonths:       6,
				PaymentFrequency: "hourly",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.CreateLoan(context.Background(), tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("CreateLoan() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	// Only the valid request should have reached the server
	if reqs := server.Requests(); len(reqs) != 1 {
		t.Errorf("Server saw %d requests, want 1", len(reqs))
	}
}

func TestAssignDeviceExactlyOneTarget(t *testing.T) {
	c, _ := newAuthenticatedClient(t)

	if err := c.AssignDevice(context.Background(), &AssignDeviceRequest{DeviceID: "d1", AgentID: "a1"}); err != nil {
		t.Errorf("AssignDevice() to agent returned error: %v", err)
	}
	if err := c.AssignDevice(context.Background(), &AssignDeviceRequest{DeviceID: "d1", CustomerID: "c1"}); err != nil {
		t.Errorf("AssignDevice() to customer returned error: %v", err)
	}
	if err := c.AssignDevice(context.Background(), &AssignDeviceRequest{DeviceID: "d1"}); err == nil {
		t.Error("AssignDevice() with no target should fail validation")
	}
	if err := c.AssignDevice(context.Background(), &AssignDeviceRequest{DeviceID: "d1", AgentID: "a1", CustomerID: "c1"}); err == nil {
		t.Error("AssignDevice() with both targets should fail validation")
	}
}

func TestRecordManualPayment(t *testing.T) {
	c, server := newAuthenticatedClient(t)

	txn := "MPESA-99"
	err := c.RecordManualPayment(context.Background(), &ManualPaymentRequest{
		UserID:        "c1",
		Amount:        25.50,
		PaymentMethod: "mpesa",
		TransactionID: &txn,
		LoanID:        "l1",
	})
	if err != nil {
		t.Fatalf("RecordManualPayment() returned error: %v", err)
	}

	req, ok := server.LastRequest()
	if !ok || req.Path != "/payments/manual" || req.Method != http.MethodPost {
		t.Errorf("Last request = %+v", req)
	}
}

func TestRecordManualPaymentValidation(t *testing.T) {
	c, _ := newAuthenticatedClient(t)

	err := c.RecordManualPayment(context.Background(), &ManualPaymentRequest{
		UserID:        "c1",
		Amount:        -5,
		PaymentMethod: "cash",
		LoanID:        "l1",
	})
	if err == nil {
		t.Error("RecordManualPayment() with negative amount should fail validation")
	}
}

func TestFetchCommissions(t *testing.T) {
	c, server := newAuthenticatedClient(t)
	server.Commissions = map[string]interface{}{
		"commissionBalance":      320.0,
		"commissionPaid":         80.0,
		"totalCommissionsEarned": 400.0,
		"withdrawalHistory": []map[string]interface{}{
			{"id": "w1", "amount": 80.0, "date": "2026-08-20", "transactionId": "TX1"},
		},
	}

	commissions, err := c.FetchCommissions(context.Background())
	if err != nil {
		t.Fatalf("FetchCommissions() returned error: %v", err)
	}

	if commissions.CommissionBalance != 320.0 {
		t.Errorf("CommissionBalance = %v, want 320.0", commissions.CommissionBalance)
	}
	if len(commissions.WithdrawalHistory) != 1 || commissions.WithdrawalHistory[0].Amount != 80.0 {
		t.Errorf("WithdrawalHistory = %+v", commissions.WithdrawalHistory)
	}
}

func TestFetchSuperAgentProfile(t *testing.T) {
	c, server := newAuthenticatedClient(t)
	server.Commissions = map[string]interface{}{
		"id":                "sa-1",
		"name":              "Grace",
		"email":             "grace@example.com",
		"status":            "active",
		"commissionRate":    5.0,
		"commissionBalance": 320.0,
	}

	profile, err := c.FetchSuperAgentProfile(context.Background())
	if err != nil {
		t.Fatalf("FetchSuperAgentProfile() returned error: %v", err)
	}

	if profile.Name != "Grace" {
		t.Errorf("Name = %q, want Grace", profile.Name)
	}
	if profile.CommissionRate != 5.0 {
		t.Errorf("CommissionRate = %v, want 5.0", profile.CommissionRate)
	}
}

func TestMessages(t *testing.T) {
	c, server := newAuthenticatedClient(t)
	server.Messages = []map[string]interface{}{
		{"id": "m1", "sender_id": "u2", "sender_name": "HQ", "message_type": "notice", "content": "Price update", "read_status": false, "created_at": "2026-08-28T10:00:00Z"},
	}

	msgs, err := c.Messages(context.Background())
	if err != nil {
		t.Fatalf("Messages() returned error: %v", err)
	}

	if len(msgs) != 1 || msgs[0].SenderName != "HQ" || msgs[0].ReadStatus {
		t.Errorf("Messages = %+v", msgs)
	}

	if err := c.MarkMessageRead(context.Background(), "m1"); err != nil {
		t.Errorf("MarkMessageRead() returned error: %v", err)
	}
	if err := c.MarkMessageRead(context.Background(), ""); err == nil {
		t.Error("MarkMessageRead() with empty id should return error")
	}
}

func TestSendMessage(t *testing.T) {
	c, _ := newAuthenticatedClient(t)

	err := c.SendMessage(context.Background(), &SendMessageRequest{
		ReceiverID:      "u2",
		MessageType:     "reply",
		Content:         "Received, thanks",
		ParentMessageID: "m1",
	})
	if err != nil {
		t.Fatalf("SendMessage() returned error: %v", err)
	}

	if err := c.SendMessage(context.Background(), &SendMessageRequest{ReceiverID: "u2", MessageType: "reply"}); err == nil {
		t.Error("SendMessage() with empty content should fail validation")
	}
}

func TestListingEndpoints(t *testing.T) {
	c, server := newAuthenticatedClient(t)
	server.Devices = []map[string]interface{}{
		{"id": "d1", "serialNumber": "SN-1", "model": "A10", "type": "smartphone", "status": "available", "amount": 250.0},
	}
	server.Agents = []map[string]interface{}{
		{"id": "a1", "name": "Ben", "commissionBalance": 10.0, "devicesManaged": 3},
	}
	server.Payments = []map[string]interface{}{
		{"id": "p1", "customer_name": "Grace O.", "amount": 25.5, "payment_method": "mpesa", "status": "confirmed"},
	}
	server.Loans = []map[string]interface{}{
		{"id": "l1", "deviceType": "smartphone", "remainingAmount": 120.0},
	}

	devices, err := c.AvailableDevices(context.Background())
	if err != nil || len(devices) != 1 || devices[0].SerialNumber != "SN-1" {
		t.Errorf("AvailableDevices() = %+v, err %v", devices, err)
	}

	agents, err := c.MyAgents(context.Background())
	if err != nil || len(agents) != 1 || agents[0].Name != "Ben" {
		t.Errorf("MyAgents() = %+v, err %v", agents, err)
	}

	payments, err := c.SuperAgentPayments(context.Background())
	if err != nil || len(payments) != 1 || payments[0].PaymentMethod != "mpesa" {
		t.Errorf("SuperAgentPayments() = %+v, err %v", payments, err)
	}

	loans, err := c.CustomerLoans(context.Background(), "c1")
	if err != nil || len(loans) != 1 || loans[0].RemainingAmount != 120.0 {
		t.Errorf("CustomerLoans() = %+v, err %v", loans, err)
	}
}
