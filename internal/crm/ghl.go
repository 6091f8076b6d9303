// Package crm pushes directory contacts into GoHighLevel. A push has three
// distinct outcomes — confirmed, uncertain, failed — and callers surface them
// as-is instead of collapsing everything into a cheerful success message.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"atlas-service/internal/domain/professional"
)

const (
	defaultBaseURL = "https://rest.gohighlevel.com/v1"
	timeoutSec     = 30
)

// Outcome classifies a CRM push.
type Outcome string

const (
	// OutcomeConfirmed: the CRM acknowledged the contact and returned its id.
	OutcomeConfirmed Outcome = "confirmed"
	// OutcomeUncertain: the CRM accepted the request but the contact's state
	// is unverified (no id in the response, or a duplicate was reported).
	OutcomeUncertain Outcome = "uncertain"
	// OutcomeFailed: the request did not get through or was rejected.
	OutcomeFailed Outcome = "failed"
)

// Client talks to the GoHighLevel contacts API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeoutSec * time.Second},
	}
}

// NewClientWithBaseURL is used by tests to point at an httptest server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type contactPayload struct {
	Name    string   `json:"name"`
	Email   string   `json:"email,omitempty"`
	Phone   string   `json:"phone,omitempty"`
	Company string   `json:"companyName,omitempty"`
	Website string   `json:"website,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Source  string   `json:"source"`
}

type contactResponse struct {
	Contact struct {
		ID string `json:"id"`
	} `json:"contact"`
	Message string `json:"message"`
}

// PushResult is what the HTTP layer returns to the UI verbatim.
type PushResult struct {
	Outcome   Outcome `json:"outcome"`
	ContactID string  `json:"contact_id,omitempty"`
	Message   string  `json:"message"`
}

// PushContact sends one professional to the CRM. The returned error is
// non-nil only for OutcomeFailed; callers never retry.
func (c *Client) PushContact(ctx context.Context, p *professional.Professional) (PushResult, error) {
	payload := contactPayload{
		Name:    p.FullName,
		Email:   p.Email,
		Phone:   p.Phone,
		Company: p.Brokerage,
		Website: p.Website,
		Tags:    p.Tags,
		Source:  "atlas-directory",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return failed("failed to encode contact"), fmt.Errorf("failed to encode contact: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/contacts/", bytes.NewReader(body))
	if err != nil {
		return failed("failed to build request"), fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failed("could not reach the CRM"), fmt.Errorf("crm request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded contactResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&decoded)

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		if decodeErr == nil && decoded.Contact.ID != "" {
			return PushResult{
				Outcome:   OutcomeConfirmed,
				ContactID: decoded.Contact.ID,
				Message:   "contact added to CRM",
			}, nil
		}
		// Accepted but unverifiable: don't pretend it's confirmed.
		return PushResult{
			Outcome: OutcomeUncertain,
			Message: "CRM accepted the contact but did not confirm it",
		}, nil

	case resp.StatusCode == http.StatusAccepted:
		return PushResult{Outcome: OutcomeUncertain, Message: "contact queued by the CRM"}, nil

	case resp.StatusCode == http.StatusUnprocessableEntity && decodeErr == nil &&
		strings.Contains(strings.ToLower(decoded.Message), "duplicate"):
		// The contact already exists; present but not created by this call.
		return PushResult{Outcome: OutcomeUncertain, Message: "contact already exists in the CRM"}, nil

	default:
		msg := fmt.Sprintf("CRM rejected the contact (status %d)", resp.StatusCode)
		if decodeErr == nil && decoded.Message != "" {
			msg = decoded.Message
		}
		return failed(msg), fmt.Errorf("crm returned status %d", resp.StatusCode)
	}
}

func failed(msg string) PushResult {
	return PushResult{Outcome: OutcomeFailed, Message: msg}
}
