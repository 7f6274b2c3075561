// Package paystack is a minimal client for the Paystack transaction API,
// used to verify funding references before crediting a wallet.
package paystack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

func NewClient(baseURL, secretKey string) *Client {
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// Verification is the subset of the verify response the ledger cares about.
type Verification struct {
	Reference string
	Status    string
	Amount    decimal.Decimal // major units (Paystack reports kobo)
	Currency  string
	PaidAt    string
}

func (v *Verification) Success() bool { return v.Status == "success" }

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
		PaidAt    string `json:"paid_at"`
	} `json:"data"`
}

// VerifyTransaction checks a funding reference against Paystack.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*Verification, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack verify: %w", err)
	}
	defer resp.Body.Close()

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("paystack verify decode: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !body.Status {
		return nil, fmt.Errorf("paystack verify failed: %s", body.Message)
	}

	return &Verification{
		Reference: body.Data.Reference,
		Status:    body.Data.Status,
		Amount:    decimal.NewFromInt(body.Data.Amount).Div(decimal.NewFromInt(100)),
		Currency:  body.Data.Currency,
		PaidAt:    body.Data.PaidAt,
	}, nil
}
