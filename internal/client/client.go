package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"devicepay-cli/internal/config"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuthHeader is the fixed-name header carrying the raw session token
const AuthHeader = "x-auth-token"

// CredentialSource supplies the current session credential. The empty
// string means no credential is stored; the request then goes out
// unauthenticated.
type CredentialSource interface {
	LoadToken() (string, error)
}

// HTTPClient provides authenticated HTTP communication with the DevicePay
// API. Every outbound request reads the current credential from the session
// store and attaches it; there is no retry, no backoff, and no token
// refresh. A rejected credential surfaces as an APIError.
type HTTPClient struct {
	httpClient *http.Client
	creds      CredentialSource
	baseURL    string
	logger     *logrus.Logger
	validate   *validator.Validate
}

// NewHTTPClient creates a new API client
func NewHTTPClient(cfg *config.Config, creds CredentialSource, logger *logrus.Logger) (*HTTPClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if creds == nil {
		return nil, fmt.Errorf("credential source is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       90 * time.Second,
	}
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	httpClient := &http.Client{
		Timeout:   time.Duration(cfg.RequestTimeout) * time.Second,
		Transport: transport,
	}

	return &HTTPClient{
		httpClient: httpClient,
		creds:      creds,
		baseURL:    strings.TrimSuffix(cfg.ServerURL, "/"),
		logger:     logger,
		validate:   validator.New(),
	}, nil
}

// Request represents an HTTP request to be made
type Request struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
	Query   url.Values
}

// Response represents an HTTP response
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// APIError is a non-2xx response from the API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// apiErrorBody is the error envelope the API uses
type apiErrorBody struct {
	Msg string `json:"msg"`
}

// Do executes a single HTTP request. The current credential is read from
// the session store immediately before transmission; a storage read failure
// is logged and the request proceeds unauthenticated.
func (c *HTTPClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}

	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader
	if req.Body != nil {
		bodyBytes, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-ID", requestID)

	token, err := c.creds.LoadToken()
	if err != nil {
		c.logger.WithError(err).Warn("Failed to read session token, sending request unauthenticated")
		token = ""
	}
	if token != "" {
		httpReq.Header.Set(AuthHeader, token)
	}

	c.logger.WithFields(logrus.Fields{
		"method":        req.Method,
		"url":           fullURL,
		"request_id":    requestID,
		"authenticated": token != "",
	}).Debug("Making HTTP request")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Body:       respBody,
		Headers:    httpResp.Header,
	}

	c.logger.WithFields(logrus.Fields{
		"status_code": httpResp.StatusCode,
		"request_id":  requestID,
		"body_length": len(respBody),
	}).Debug("HTTP response received")

	if httpResp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: httpResp.StatusCode}
		var body apiErrorBody
		if json.Unmarshal(respBody, &body) == nil && body.Msg != "" {
			apiErr.Message = body.Msg
		}
		return resp, apiErr
	}

	return resp, nil
}

// Close closes the HTTP client and cleans up idle connections
func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// validateBody validates a request struct before transmission
func (c *HTTPClient) validateBody(v interface{}) error {
	if err := c.validate.Struct(v); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}

// parseJSONResponse parses a JSON response into the provided value
func parseJSONResponse(resp *Response, v interface{}) error {
	if resp == nil {
		return fmt.Errorf("response is nil")
	}
	if len(resp.Body) == 0 {
		return fmt.Errorf("response body is empty")
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return fmt.Errorf("failed to unmarshal JSON response: %w", err)
	}
	return nil
}
