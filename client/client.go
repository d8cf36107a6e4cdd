// Package client submits the estimate request form to the site backend.
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

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	leadsPath             = "/api/leads"
	defaultFailureMessage = "Failed to submit form"
	defaultErrorMessage   = "An error occurred while submitting the form"
)

// LeadSubmission is the body posted to /api/leads.
type LeadSubmission struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone,omitempty"`
	Address   string   `json:"address,omitempty"`
	City      string   `json:"city,omitempty"`
	State     string   `json:"state,omitempty"`
	Zip       string   `json:"zip,omitempty"`
	Message   string   `json:"message,omitempty"`
	Services  []string `json:"services,omitempty"`
	Source    string   `json:"source,omitempty"`
}

// SubmissionError is returned when the backend answers with a non-2xx status.
type SubmissionError struct {
	StatusCode  int
	Message     string
	FieldErrors map[string]string
}

func (e *SubmissionError) Error() string {
	return e.Message
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     log.With().Str("component", "leadClient").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubmitLeadForm posts form once and returns the decoded response body.
// The form is sent as given; validating it is the caller's job.
func (c *Client) SubmitLeadForm(ctx context.Context, form LeadSubmission) (map[string]any, error) {
	payload, err := json.Marshal(form)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lead form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+leadsPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create lead request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("email", form.Email).Msg("Lead form submission failed")
		return nil, fmt.Errorf("failed to submit lead form: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read lead response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		subErr := decodeError(resp.StatusCode, body)
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("error", subErr.Message).
			Str("email", form.Email).
			Msg("Lead form submission failed")
		return nil, subErr
	}

	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse lead response: %w", err)
	}
	return out, nil
}

func decodeError(status int, body []byte) *SubmissionError {
	var errorResp struct {
		Error       string            `json:"error"`
		FieldErrors map[string]string `json:"fieldErrors"`
	}
	subErr := &SubmissionError{StatusCode: status, Message: defaultFailureMessage}
	if err := json.Unmarshal(body, &errorResp); err == nil {
		if errorResp.Error != "" {
			subErr.Message = errorResp.Error
		}
		subErr.FieldErrors = errorResp.FieldErrors
	}
	return subErr
}

// DisplayError is what a form shows after a failed submission.
type DisplayError struct {
	Message     string            `json:"message"`
	FieldErrors map[string]string `json:"fieldErrors"`
}

// HandleSubmissionError turns any submission error into a display message
// plus whatever field errors the server sent back.
func HandleSubmissionError(err error) DisplayError {
	out := DisplayError{Message: defaultErrorMessage, FieldErrors: map[string]string{}}
	if err == nil {
		return out
	}

	var subErr *SubmissionError
	if errors.As(err, &subErr) {
		out.Message = subErr.Message
		for k, v := range subErr.FieldErrors {
			out.FieldErrors[k] = v
		}
		return out
	}
	if msg := err.Error(); msg != "" {
		out.Message = msg
	}
	return out
}
