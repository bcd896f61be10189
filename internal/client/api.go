package client

import (
	"context"
	"fmt"
	"net/http"
)

// User is the identity object returned at login
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginRequest is the credential pair for POST /auth/login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and the user it belongs to
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// AgentDashboard is the agent home-screen summary
type AgentDashboard struct {
	TotalCustomers         int     `json:"totalCustomers"`
	TotalLoans             int     `json:"totalLoans"`
	TotalPaymentsCollected float64 `json:"totalPaymentsCollected"`
	TotalCommissionsEarned float64 `json:"totalCommissionsEarned"`
}

// SuperAgentDashboard is the super-agent home-screen summary
type SuperAgentDashboard struct {
	AgentsManaged          int     `json:"agentsManaged"`
	TotalCustomers         int     `json:"totalCustomers"`
	TotalSalesVolume       float64 `json:"totalSalesVolume"`
	TotalCommissionsEarned float64 `json:"totalCommissionsEarned"`
}

// Loan summarizes one financing agreement
type Loan struct {
	ID              string  `json:"id"`
	DeviceType      string  `json:"deviceType"`
	RemainingAmount float64 `json:"remainingAmount"`
	NextPaymentDate string  `json:"nextPaymentDate"`
}

// Payment is one recorded repayment
type Payment struct {
	ID                 string  `json:"id"`
	CustomerName       string  `json:"customer_name"`
	AgentName          string  `json:"agent_name"`
	DeviceSerialNumber string  `json:"device_serial_number"`
	DeviceType         string  `json:"device_type"`
	Amount             float64 `json:"amount"`
	PaymentDate        string  `json:"payment_date"`
	PaymentMethod      string  `json:"payment_method"`
	TransactionID      string  `json:"transaction_id"`
	Status             string  `json:"status"`
}

// Customer is a financed customer with their loan position
type Customer struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	IDNumber           string    `json:"idNumber"`
	Region             string    `json:"region"`
	County             string    `json:"county"`
	Location           string    `json:"location"`
	Status             string    `json:"status"`
	JoinDate           string    `json:"joinDate"`
	OnboardedBy        string    `json:"onboardedBy"`
	CreditScore        int       `json:"creditScore"`
	TotalLoans         int       `json:"totalLoans"`
	ActiveLoans        int       `json:"activeLoans"`
	CompletedLoans     int       `json:"completedLoans"`
	TotalBorrowed      float64   `json:"totalBorrowed"`
	TotalPaid          float64   `json:"totalPaid"`
	OutstandingBalance float64   `json:"outstandingBalance"`
	NextPaymentDue     string    `json:"nextPaymentDue"`
	LastPayment        string    `json:"lastPayment"`
	Loans              []Loan    `json:"loans"`
	PaymentHistory     []Payment `json:"paymentHistory"`
}

// Device is a financed device in inventory
type Device struct {
	ID                     string  `json:"id"`
	SerialNumber           string  `json:"serialNumber"`
	Model                  string  `json:"model"`
	Type                   string  `json:"type"`
	Status                 string  `json:"status"`
	Amount                 float64 `json:"amount"`
	AssignedToCustomerName string  `json:"assignedToCustomerName,omitempty"`
}

// Agent is a field agent managed by a super-agent
type Agent struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Phone             string   `json:"phone"`
	Address           string   `json:"address"`
	City              string   `json:"city"`
	Region            string   `json:"region"`
	Status            string   `json:"status"`
	CommissionRate    float64  `json:"commissionRate"`
	CommissionBalance float64  `json:"commissionBalance"`
	TotalSales        float64  `json:"totalSales"`
	DevicesManaged    int      `json:"devicesManaged"`
	AssignedDevices   []Device `json:"assignedDevices"`
}

// Withdrawal is one commission withdrawal record
type Withdrawal struct {
	ID            string  `json:"id"`
	Amount        float64 `json:"amount"`
	Date          string  `json:"date"`
	TransactionID *string `json:"transactionId"`
}

// Commissions is the commission balance summary with withdrawal history
type Commissions struct {
	CommissionBalance      float64      `json:"commissionBalance"`
	CommissionPaid         float64      `json:"commissionPaid"`
	TotalCommissionsEarned float64      `json:"totalCommissionsEarned"`
	WithdrawalHistory      []Withdrawal `json:"withdrawalHistory"`
}

// SuperAgentProfile is the super-agent's own record with the commission
// summary folded in. The profile and commissions screens both read it.
type SuperAgentProfile struct {
	ID                     string       `json:"id"`
	Name                   string       `json:"name"`
	Email                  string       `json:"email"`
	Phone                  string       `json:"phone"`
	Region                 string       `json:"region"`
	City                   string       `json:"city"`
	Address                string       `json:"address"`
	Landmark               string       `json:"landmark"`
	Status                 string       `json:"status"`
	JoinDate               string       `json:"joinDate"`
	LastActive             string       `json:"last_active"`
	CommissionRate         float64      `json:"commissionRate"`
	TotalCommissionsEarned float64      `json:"totalCommissionsEarned"`
	CommissionPaid         float64      `json:"commissionPaid"`
	CommissionBalance      float64      `json:"commissionBalance"`
	WithdrawalHistory      []Withdrawal `json:"withdrawalHistory"`
}

// Message is one inbox message
type Message struct {
	ID          string `json:"id"`
	SenderID    string `json:"sender_id"`
	SenderName  string `json:"sender_name"`
	MessageType string `json:"message_type"`
	Content     string `json:"content"`
	ReadStatus  bool   `json:"read_status"`
	CreatedAt   string `json:"created_at"`
}

// CreateCustomerRequest onboards a new customer
type CreateCustomerRequest struct {
	Username    string `json:"username" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	State       string `json:"state"`
	City        string `json:"city"`
	Address     string `json:"address"`
	Landmark    string `json:"landmark"`
}

// CreateAgentRequest onboards a new agent
type CreateAgentRequest struct {
	Username    string `json:"username" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	State       string `json:"state"`
	City        string `json:"city"`
	Address     string `json:"address"`
	Landmark    string `json:"landmark"`
}

// GuarantorDetails is the optional guarantor attached to a loan
type GuarantorDetails struct {
	Name        *string `json:"name"`
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phone_number"`
}

// CreateLoanRequest opens a financing agreement for a device
type CreateLoanRequest struct {
	CustomerID       string           `json:"customer_id" validate:"required"`
	DeviceID         string           `json:"device_id" validate:"required"`
	DevicePrice      float64          `json:"device_price" validate:"gt=0"`
	TermMonths       int              `json:"term_months" validate:"gt=0"`
	DownPayment      float64          `json:"down_payment" validate:"gte=0"`
	Guarantor        GuarantorDetails `json:"guarantor_details"`
	PaymentFrequency string           `json:"payment_frequency" validate:"required,oneof=daily weekly monthly"`
}

// ManualPaymentRequest records an out-of-band repayment
type ManualPaymentRequest struct {
	UserID        string  `json:"user_id" validate:"required"`
	Amount        float64 `json:"amount" validate:"gt=0"`
	PaymentMethod string  `json:"payment_method" validate:"required"`
	TransactionID *string `json:"transaction_id"`
	LoanID        string  `json:"loan_id" validate:"required"`
}

// AssignDeviceRequest assigns a device to exactly one of an agent or a
// customer
type AssignDeviceRequest struct {
	DeviceID   string `json:"device_id" validate:"required"`
	AgentID    string `json:"agent_id,omitempty" validate:"required_without=CustomerID,excluded_with=CustomerID"`
	CustomerID string `json:"customer_id,omitempty" validate:"required_without=AgentID,excluded_with=AgentID"`
}

// WithdrawCommissionRequest requests a commission payout
type WithdrawCommissionRequest struct {
	Amount        float64 `json:"amount" validate:"gt=0"`
	TransactionID *string `json:"transaction_id"`
}

// SendMessageRequest sends or replies to an inbox message
type SendMessageRequest struct {
	ReceiverID      string `json:"receiver_id" validate:"required"`
	MessageType     string `json:"message_type" validate:"required"`
	Content         string `json:"content" validate:"required"`
	ParentMessageID string `json:"parent_message_id,omitempty"`
}

// Login authenticates with username and password. No credential is attached
// to this request beyond the pair itself.
func (c *HTTPClient) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	body := &LoginRequest{Username: username, Password: password}
	if err := c.validateBody(body); err != nil {
		return nil, err
	}

	resp, err := c.Do(ctx, &Request{Method: http.MethodPost, Path: "/auth/login", Body: body})
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}

	var loginResp LoginResponse
	if err := parseJSONResponse(resp, &loginResp); err != nil {
		return nil, fmt.Errorf("failed to parse login response: %w", err)
	}
	if loginResp.Token == "" {
		return nil, fmt.Errorf("login response contained no token")
	}
	return &loginResp, nil
}

// FetchAgentDashboard fetches the agent home-screen summary
func (c *HTTPClient) FetchAgentDashboard(ctx context.Context) (*AgentDashboard, error) {
	var out AgentDashboard
	if err := c.getJSON(ctx, "/agents/dashboard", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchSuperAgentDashboard fetches the super-agent home-screen summary
func (c *HTTPClient) FetchSuperAgentDashboard(ctx context.Context) (*SuperAgentDashboard, error) {
	var out SuperAgentDashboard
	if err := c.getJSON(ctx, "/super-agents/dashboard", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AgentCustomers lists the customers the agent manages
func (c *HTTPClient) AgentCustomers(ctx context.Context) ([]Customer, error) {
	var out []Customer
	if err := c.getJSON(ctx, "/agents/customers", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchCustomer fetches one customer with loans and payment history
func (c *HTTPClient) FetchCustomer(ctx context.Context, id string) (*Customer, error) {
	if id == "" {
		return nil, fmt.Errorf("customer id is required")
	}
	var out Customer
	if err := c.getJSON(ctx, "/customers/"+id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCustomer onboards a new customer
func (c *HTTPClient) CreateCustomer(ctx context.Context, req *CreateCustomerRequest) error {
	if err := c.validateBody(req); err != nil {
		return err
	}
	_, err := c.Do(ctx, &Request{Method: http.MethodPost, Path: "/users/create-customer", Body: req})
	if err != nil {
		return fmt.Errorf("create customer failed: %w", err)
	}
	return nil
}

// MyAgents lists agents managed by the super-agent
func (c *HTTPClient) MyAgents(ctx context.Context) ([]Agent, error) {
	var out []Agent
	if err := c.getJSON(ctx, "/super-agents/my-agents", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchAgent fetches one agent with assigned devices
func (c *HTTPClient) FetchAgent(ctx context.Context, id string) (*Agent, error) {
	if id == "" {
		return nil, fmt.Errorf("agent id is required")
	}
	var out Agent
	if err := c.getJSON(ctx, "/agents/"+id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAgent onboards a new agent
func (c *HTTPClient) CreateAgent(ctx context.Context, req *CreateAgentRequest) error {
	if err := c.validateBody(req); err != nil {
		return err
	}
	_, err := c.Do(ctx, &Request{Method: http.MethodPost, Path: "/admin/create-agent", Body: req})
	if err != nil {
		return fmt.Errorf("create agent failed: %w", err)
	}
	return nil
}

// AgentDevices lists devices assigned to the agent
func (c *HTTPClient) AgentDevices(ctx context.Context) ([]Device, error) {
	var out []Device
	if err := c.getJSON(ctx, "/agents/devices", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AvailableDevices lists unassigned devices eligible for financing
func (c *HTTPClient) AvailableDevices(ctx context.Context) ([]Device, error) {
	var out []Device
	if err := c.getJSON(ctx, "/agents/available-devices", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SuperAgentDevices lists the super-agent's device inventory
func (c *HTTPClient) SuperAgentDevices(ctx context.Context) ([]Device, error) {
	var out []Device
	if err := c.getJSON(ctx, "/super-agents/devices", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AssignDevice assigns a device to an agent or a customer
func (c *HTTPClient) AssignDevice(ctx context.Context, req *AssignDeviceRequest) error {
	if err := c.validateBody(req); err != nil {
		return err
	}
	_, err := c.Do(ctx, &Request{Method: http.MethodPost, Path: "/super-agents/assign-device", Body: req})
	if err != nil {
		return fmt.Errorf("assign device failed: %w", err)
	}
	return nil
}

// CustomerLoans lists a customer's loans
func (c *HTTPClient) CustomerLoans(ctx context.Context, customerID string) ([]Loan, error) {
	if customerID == "" {
		return nil, fmt.Errorf("customer id is required")
	}
	var out []Loan
	if err := c.getJSON(ctx, "/loans/customer/"+customerID, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateLoan opens a financing agreement
func (c *HTTPClient) CreateLoan(ctx context.Context, req *CreateLoanRequest) error {
	if err := c.validateBody(req); err != nil {
		return err
	}
	_, err := c.Do(ctx, &Request{Method: http.MethodPost, Path: "/loans", Body: req})
	if err != nil {
		return fmt.Errorf("create loan failed: %w", err)
	}
	return nil
}

// RecordManualPayment records an out-of-band repayment against a loan
func (c *HTTPClient) RecordManualPayment(ctx context.Context, req *ManualPaymentRequest) error {
	if err := c.validateBody(req); err != nil {
		return err
	}
	_, err := c.Do(ctx, &Request{Method: http.MethodPost, Path: "/payments/manual", Body: req})
	if err != nil {
		return fmt.Errorf("record payment failed: %w", err)
	}
	return nil
}

// SuperAgentPayments lists payments across the super-agent's network
func (c *HTTPClient) SuperAgentPayments(ctx context.Context) ([]Payment, error) {
	var out []Payment
	if err := c.getJSON(ctx, "/super-agents/payments", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchCommissions fetches the commission balance and withdrawal history
func (c *HTTPClient) FetchCommissions(ctx context.Context) (*Commissions, error) {
	var out Commissions
	if err := c.getJSON(ctx, "/super-agents/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchSuperAgentProfile fetches the super-agent's own record
func (c *HTTPClient) FetchSuperAgentProfile(ctx context.Context) (*SuperAgentProfile, error) {
	var out SuperAgentProfile
	if err := c.getJSON(ctx, "/super-agents/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WithdrawCommission requests a commission payout
func (c *HTTPClient) WithdrawCommission(ctx context.Context, req *WithdrawCommissionRequest) error {
	if err := c.validateBody(req); err != nil {
		return err
	}
	_, err := c.Do(ctx, &Request{Method: http.MethodPost, Path: "/super-agents/withdraw-commission", Body: req})
	if err != nil {
		return fmt.Errorf("withdraw commission failed: %w", err)
	}
	return nil
}

// Messages lists the inbox
func (c *HTTPClient) Messages(ctx context.Context) ([]Message, error) {
	var out []Message
	if err := c.getJSON(ctx, "/super-agents/messages", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendMessage sends or replies to a message
func (c *HTTPClient) SendMessage(ctx context.Context, req *SendMessageRequest) error {
	if err := c.validateBody(req); err != nil {
		return err
	}
	_, err := c.Do(ctx, &Request{Method: http.MethodPost, Path: "/super-agents/messages", Body: req})
	if err != nil {
		return fmt.Errorf("send message failed: %w", err)
	}
	return nil
}

// MarkMessageRead marks an inbox message as read
func (c *HTTPClient) MarkMessageRead(ctx context.Context, messageID string) error {
	if messageID == "" {
		return fmt.Errorf("message id is required")
	}
	_, err := c.Do(ctx, &Request{Method: http.MethodPut, Path: "/super-agents/messages/" + messageID + "/read"})
	if err != nil {
		return fmt.Errorf("mark message read failed: %w", err)
	}
	return nil
}

// getJSON is the shared fetch-and-decode path for GET endpoints
func (c *HTTPClient) getJSON(ctx context.Context, path string, v interface{}) error {
	resp, err := c.Do(ctx, &Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return fmt.Errorf("GET %s failed: %w", path, err)
	}
	if err := parseJSONResponse(resp, v); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	return nil
}
