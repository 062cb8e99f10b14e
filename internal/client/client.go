// Package client is a typed HTTP client for the invoice API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sangkips/invoice-desk/internal/domain/entity"
)

// APIError is returned when the server answers with success=false or a non-2xx
// status
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("invoice api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("invoice api: %s (status %d)", e.Message, e.StatusCode)
}

// NotFound reports whether the error is a 404 from the API
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// CreateInvoiceRequest is the body of a create call
type CreateInvoiceRequest struct {
	CompCode  string  `json:"comp_code"`
	Amount    float64 `json:"amount"`
	Recurring bool    `json:"recurring"`
}

type envelope struct {
	Success  bool             `json:"success"`
	Invoice  *entity.Invoice  `json:"invoice"`
	Deleted  *entity.Invoice  `json:"deleted"`
	Invoices []entity.Invoice `json:"invoices"`
	Error    string           `json:"error"`
}

// Client talks to the invoice API rooted at BaseURL, e.g. http://localhost:3001/api
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default http.Client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New creates a client for the API at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns every invoice
func (c *Client) List(ctx context.Context) ([]entity.Invoice, error) {
	env, err := c.do(ctx, http.MethodGet, "/invoices", nil)
	if err != nil {
		return nil, err
	}
	return env.Invoices, nil
}

// Create creates an invoice
func (c *Client) Create(ctx context.Context, req CreateInvoiceRequest) (*entity.Invoice, error) {
	env, err := c.do(ctx, http.MethodPost, "/invoices", req)
	if err != nil {
		return nil, err
	}
	return env.Invoice, nil
}

// Pay marks an invoice paid
func (c *Client) Pay(ctx context.Context, id int64) (*entity.Invoice, error) {
	return c.invoiceAction(ctx, id, "pay", nil)
}

// UpdateCard replaces the stored card digits
func (c *Client) UpdateCard(ctx context.Context, id int64, last4 string) (*entity.Invoice, error) {
	return c.invoiceAction(ctx, id, "card", map[string]string{"card_last4": last4})
}

// EnableAutoBill turns auto-billing on
func (c *Client) EnableAutoBill(ctx context.Context, id int64) (*entity.Invoice, error) {
	return c.invoiceAction(ctx, id, "auto-bill", nil)
}

// ToggleRecurring flips the recurring flag
func (c *Client) ToggleRecurring(ctx context.Context, id int64) (*entity.Invoice, error) {
	return c.invoiceAction(ctx, id, "toggle-recurring", nil)
}

// Delete removes an invoice and returns it
func (c *Client) Delete(ctx context.Context, id int64) (*entity.Invoice, error) {
	env, err := c.do(ctx, http.MethodDelete, invoicePath(id), nil)
	if err != nil {
		return nil, err
	}
	return env.Deleted, nil
}

func (c *Client) invoiceAction(ctx context.Context, id int64, action string, body any) (*entity.Invoice, error) {
	env, err := c.do(ctx, http.MethodPost, invoicePath(id)+"/"+action, body)
	if err != nil {
		return nil, err
	}
	return env.Invoice, nil
}

func invoicePath(id int64) string {
	return "/invoices/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && err != io.EOF {
		if resp.StatusCode >= 300 {
			return nil, &APIError{StatusCode: resp.StatusCode}
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Error}
	}
	// the list body carries no success flag
	if !env.Success && env.Invoices == nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Error}
	}
	return &env, nil
}
