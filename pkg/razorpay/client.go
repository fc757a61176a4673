package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the Razorpay API base URL.
	DefaultBaseURL = "https://api.razorpay.com/v1"
)

// Client is a minimal HTTP client for the Razorpay Orders API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	keyID      string
	keySecret  string
}

// NewClient constructs a new Razorpay client with sane defaults.
func NewClient(keyID, keySecret, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		keyID:      keyID,
		keySecret:  keySecret,
	}
}

// OrderRequest is the payload for creating a gateway order.
// Amount is in minor currency units (paise).
type OrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// Order is a gateway order as returned by Razorpay.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// apiError mirrors Razorpay's error envelope.
type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder creates a gateway order for the given amount in paise.
// The returned order id is what the client-side checkout pays against.
func (c *Client) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*Order, error) {
	payload, err := json.Marshal(OrderRequest{
		Amount:   amountPaise,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("razorpay response read failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Description != "" {
			return nil, fmt.Errorf("razorpay order create failed (%d): %s", resp.StatusCode, apiErr.Error.Description)
		}
		return nil, fmt.Errorf("razorpay order create failed: status %d", resp.StatusCode)
	}

	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("razorpay response decode failed: %w", err)
	}
	return &order, nil
}
