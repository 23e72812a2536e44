// Package stellar is the wallet/chain bridge: it forwards transaction
// envelopes signed by the user's browser wallet to a Horizon server. The
// bridge is strictly best-effort: callers record purchases locally no
// matter what happens here.
package stellar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a Horizon endpoint.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a Horizon client with a bounded request timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Result is the single tagged outcome of a submission attempt.
type Result struct {
	Status          string `json:"status"`
	TransactionHash string `json:"transaction_hash"`
	Ledger          int64  `json:"ledger,omitempty"`
}

// ChainError carries the network's rejection back to the caller. It is
// surfaced as a warning, never as a failure of the local purchase.
type ChainError struct {
	StatusCode int
	Detail     string
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("horizon rejected transaction (%d): %s", e.StatusCode, e.Detail)
}

type horizonResponse struct {
	Hash       string `json:"hash"`
	Ledger     int64  `json:"ledger"`
	Successful bool   `json:"successful"`
	Title      string `json:"title"`
	Detail     string `json:"detail"`
	Extras     struct {
		ResultCodes struct {
			Transaction string `json:"transaction"`
		} `json:"result_codes"`
	} `json:"extras"`
}

// SubmitTransaction posts a base64 signed transaction envelope to Horizon
// and reports the outcome.
func (c *Client) SubmitTransaction(ctx context.Context, signedXDR string) (*Result, error) {
	form := url.Values{}
	form.Set("tx", signedXDR)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/transactions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build horizon request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &ChainError{StatusCode: http.StatusBadGateway, Detail: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ChainError{StatusCode: resp.StatusCode, Detail: "unreadable horizon response"}
	}

	var hr horizonResponse
	if err := json.Unmarshal(body, &hr); err != nil {
		return nil, &ChainError{StatusCode: resp.StatusCode, Detail: "malformed horizon response"}
	}

	if resp.StatusCode != http.StatusOK || !hr.Successful {
		detail := hr.Detail
		if hr.Extras.ResultCodes.Transaction != "" {
			detail = hr.Extras.ResultCodes.Transaction
		}
		if detail == "" {
			detail = hr.Title
		}
		if detail == "" {
			detail = "transaction failed"
		}
		return nil, &ChainError{StatusCode: resp.StatusCode, Detail: detail}
	}

	return &Result{
		Status:          "success",
		TransactionHash: hr.Hash,
		Ledger:          hr.Ledger,
	}, nil
}
