package sap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/SorryIWinxX/webmanager/internal/models"
)

// ErrNotConfigured is returned when an operation requires the external system
// but no base URL was configured. The call is never attempted.
var ErrNotConfigured = errors.New("SAP base URL is not configured")

// UpstreamError reports a failed call to the external system, either a
// transport failure or a non-2xx response.
type UpstreamError struct {
	Method  string
	Path    string
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s failed: %s", e.Method, e.Path, e.Message)
}

// Client exposes the subset of the external SAP-like REST API used by the
// application: notice submission, data synchronization, the work-order feed,
// and the reporter registry.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient constructs a client targeting the provided base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether the client can reach the external system.
func (c *Client) Configured() bool {
	return c != nil && c.baseURL != ""
}

// SubmitNotice posts a single maintenance notice to the external system.
func (c *Client) SubmitNotice(ctx context.Context, notice *models.MaintenanceNotice) error {
	var out struct {
		NotificationNumber string `json:"notificationNumber"`
	}
	return c.post(ctx, "/notices", notice, &out)
}

// Sync triggers a data synchronization and returns the synchronized tables.
func (c *Client) Sync(ctx context.Context) ([]string, error) {
	var out struct {
		Tables []string `json:"tables"`
	}
	if err := c.post(ctx, "/sync", map[string]any{}, &out); err != nil {
		return nil, err
	}
	return out.Tables, nil
}

// FetchOrders pulls the current work-order list for the local projection.
func (c *Client) FetchOrders(ctx context.Context) ([]models.SAPOrder, error) {
	var orders []models.SAPOrder
	if err := c.get(ctx, "/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListReporters returns the reporter registry held by the external system.
func (c *Client) ListReporters(ctx context.Context) ([]models.Reporter, error) {
	var reporters []models.Reporter
	if err := c.get(ctx, "/users", &reporters); err != nil {
		return nil, err
	}
	return reporters, nil
}

// CreateReporter registers a new reporter identity.
func (c *Client) CreateReporter(ctx context.Context, cedula string, workstationID int) (*models.Reporter, error) {
	payload := map[string]any{
		"cedula":        cedula,
		"workstationId": workstationID,
	}
	var reporter models.Reporter
	if err := c.post(ctx, "/users", payload, &reporter); err != nil {
		return nil, err
	}
	return &reporter, nil
}

// DeleteReporter removes a reporter identity.
func (c *Client) DeleteReporter(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	return c.do(ctx, http.MethodPost, path, payload, out)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return errors.WithStack(err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.WithStack(err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &UpstreamError{Method: method, Path: path, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return &UpstreamError{Method: method, Path: path, Message: upstreamMessage(resp)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s %s response", method, path)
	}
	return nil
}

// upstreamMessage extracts a best-effort error message from the response body,
// falling back to the HTTP status line.
func upstreamMessage(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(raw) == 0 {
		return resp.Status
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return resp.Status
}
