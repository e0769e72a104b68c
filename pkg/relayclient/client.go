// Package relayclient is the Go client for the Auguria landing backend:
// the JSON API, the realtime donation feed, a notification queue that
// serializes on-screen display, and a polling reconciler that keeps
// totals correct when the realtime channel is down.
package relayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrDuplicateEmail reports that the submitted email is already on the list.
var ErrDuplicateEmail = errors.New("email already registered")

// Totals mirrors the aggregate read returned by GET /api/donations.
type Totals struct {
	TotalDonations float64 `json:"totalDonations"`
	DonorCount     int64   `json:"donorCount"`
}

// Event is one realtime message: a "donation" carrying the amount, or a
// bare "donor".
type Event struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount,omitempty"`
}

// Client speaks the backend's JSON API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchTotals reads the authoritative aggregate totals.
func (c *Client) FetchTotals(ctx context.Context) (Totals, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/donations", nil)
	if err != nil {
		return Totals{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Totals{}, fmt.Errorf("fetch totals: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Totals{}, fmt.Errorf("fetch totals: unexpected status %s", resp.Status)
	}
	var totals Totals
	if err := json.NewDecoder(resp.Body).Decode(&totals); err != nil {
		return Totals{}, fmt.Errorf("decode totals: %w", err)
	}
	return totals, nil
}

// SubmitDonation records a donation and returns the refreshed totals
// when the server includes them.
func (c *Client) SubmitDonation(ctx context.Context, amount float64, message string) (Totals, error) {
	var out struct {
		Totals
		Message string `json:"message"`
	}
	if err := c.post(ctx, "/api/donations", map[string]any{"amount": amount, "message": message}, &out); err != nil {
		return Totals{}, err
	}
	return out.Totals, nil
}

// JoinWaitlist registers an email on the waitlist. A repeat signup
// returns ErrDuplicateEmail.
func (c *Client) JoinWaitlist(ctx context.Context, email string) error {
	return c.post(ctx, "/api/waitlist", map[string]any{"email": email}, nil)
}

// SubscribeNewsletter registers an email for the newsletter. A repeat
// signup returns ErrDuplicateEmail.
func (c *Client) SubscribeNewsletter(ctx context.Context, email string) error {
	return c.post(ctx, "/api/newsletter", map[string]any{"email": email}, nil)
}

func (c *Client) post(ctx context.Context, path string, body map[string]any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusCreated {
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
		}
		return nil
	}

	var apiErr struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&apiErr)
	if apiErr.Error == "duplicate" {
		return ErrDuplicateEmail
	}
	if apiErr.Message != "" {
		return fmt.Errorf("post %s: %s", path, apiErr.Message)
	}
	return fmt.Errorf("post %s: unexpected status %s", path, resp.Status)
}
