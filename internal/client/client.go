// Package client is a small JSON client for the donation API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/baharkarakas/charity-donations/internal/models"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// Result is the common {success, message, ...} envelope.
type Result struct {
	Success       bool                `json:"success"`
	Message       string              `json:"message"`
	TransactionID string              `json:"transactionId,omitempty"`
	UpdatedStats  *models.ImpactStats `json:"updatedStats,omitempty"`
	RedirectURL   string              `json:"redirectUrl,omitempty"`
	Details       []FieldError        `json:"details,omitempty"`
}

type History struct {
	Stats     models.ImpactStats      `json:"stats"`
	Donations []models.DonationRecord `json:"donations"`
}

type Intent struct {
	PublishableKey string `json:"publishableKey"`
	ClientSecret   string `json:"clientSecret,omitempty"`
}

type Client struct {
	base string
	hc   *http.Client
}

// New returns a client for baseURL, e.g. "http://localhost:8080". A nil hc gets a 15s timeout.
func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), hc: hc}
}

// Donate posts a donation. A refused donation is a Result with Success false and a nil error;
// the error is reserved for transport failures and unreadable answers.
func (c *Client) Donate(ctx context.Context, req models.DonationRequest) (Result, error) {
	var res Result
	err := c.do(ctx, http.MethodPost, "/api/donate", "", req, &res, true)
	return res, err
}

func (c *Client) VirtualTerminal(ctx context.Context, token string, req models.TerminalRequest) (Result, error) {
	var res Result
	err := c.do(ctx, http.MethodPost, "/api/admin/virtual-terminal", token, req, &res, true)
	return res, err
}

func (c *Client) Subscribe(ctx context.Context, email string) (Result, error) {
	var res Result
	err := c.do(ctx, http.MethodPost, "/api/newsletter", "", map[string]string{"email": email}, &res, true)
	return res, err
}

func (c *Client) Stats(ctx context.Context) (models.ImpactStats, error) {
	var st models.ImpactStats
	err := c.do(ctx, http.MethodGet, "/api/stats", "", nil, &st, false)
	return st, err
}

func (c *Client) Donors(ctx context.Context) ([]models.Donor, error) {
	var out []models.Donor
	err := c.do(ctx, http.MethodGet, "/api/donors", "", nil, &out, false)
	return out, err
}

func (c *Client) Login(ctx context.Context, password string) (string, error) {
	var res struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/admin/login", "", map[string]string{"password": password}, &res, false); err != nil {
		return "", err
	}
	return res.Token, nil
}

func (c *Client) History(ctx context.Context, token string) (History, error) {
	var h History
	err := c.do(ctx, http.MethodGet, "/api/admin/history", token, nil, &h, false)
	return h, err
}

func (c *Client) PaymentIntent(ctx context.Context, amount decimal.Decimal) (Intent, error) {
	var in Intent
	err := c.do(ctx, http.MethodPost, "/api/create-payment-intent", "", map[string]decimal.Decimal{"amount": amount}, &in, false)
	return in, err
}

// do sends body as JSON and decodes the answer into out. With envelope set, non-2xx answers that
// carry the failure envelope are decoded into out instead of becoming an APIError.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any, envelope bool) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return json.Unmarshal(raw, out)
	}

	var fail Result
	if jerr := json.Unmarshal(raw, &fail); jerr != nil || fail.Message == "" {
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}
	if envelope {
		return json.Unmarshal(raw, out)
	}
	return &APIError{Status: resp.StatusCode, Message: fail.Message}
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == http.StatusUnauthorized
}
