// Package mautic is the outbound client for the Mautic contact API.
package mautic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"webhook-relay/internal/config"
	"webhook-relay/internal/models"
)

// ForwardError means Mautic was reachable but rejected the upsert. The
// remote response body is kept for the audit trail.
type ForwardError struct {
	StatusCode int
	Body       string
}

func (e *ForwardError) Error() string {
	return fmt.Sprintf("mautic rejected upsert: %d: %s", e.StatusCode, e.Body)
}

// TransportError means the upsert never got a response (timeout, DNS,
// connection refused).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("mautic unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

type Client struct {
	baseURL string
	user    string
	pass    string
	http    *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.MauticURL, "/"),
		user:    cfg.MauticUser,
		pass:    cfg.MauticPass,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Upsert creates or updates the contact keyed by email. Mautic answers 201
// for new contacts and 200 for updates; anything else is a failure. No
// retries here, a failed upsert is terminal for the event.
func (c *Client) Upsert(ctx context.Context, contact *models.Contact) error {
	body, err := json.Marshal(contact)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/contacts/new", bytes.NewReader(body))
	if err != nil {
		return &TransportError{Err: err}
	}
	req.SetBasicAuth(c.user, c.pass)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return &ForwardError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return nil
}
