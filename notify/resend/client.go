// Package resend delivers verification emails through the Resend HTTP API.
// It is one Notifier adapter; the lifecycle treats it as best-effort and
// never blocks on it.
package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	goerrors "github.com/goliatone/go-errors"
	accounts "github.com/oppexai/go-accounts"
)

const defaultEndpoint = "https://api.resend.com/emails"

// Client posts verification emails to the Resend API.
type Client struct {
	apiKey     string
	from       string
	backendURL string
	endpoint   string
	httpClient *http.Client
	logger     accounts.Logger
}

var _ accounts.Notifier = (*Client)(nil)

type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithEndpoint overrides the API endpoint. Used by tests.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

func WithLogger(logger accounts.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Resend notifier. backendURL is the public base URL the
// verification link points back to.
func New(apiKey, from, backendURL string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		from:       from,
		backendURL: backendURL,
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     nil,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendEmailResponse struct {
	ID string `json:"id"`
}

// SendVerification emails the single-use verification link.
func (c *Client) SendVerification(ctx context.Context, email, token string) error {
	link := fmt.Sprintf("%s/auth/verify?token=%s", c.backendURL, url.QueryEscape(token))

	body := sendEmailRequest{
		From:    c.from,
		To:      []string{email},
		Subject: "Verify Your Email",
		HTML: fmt.Sprintf(`<h1>Verify Your Email</h1>
<p>Click the link below to verify your account:</p>
<a href="%s">Verify Email Address</a>`, link),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode email payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build email request")
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "resend request failed")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return goerrors.New(
			fmt.Sprintf("resend returned status %d", res.StatusCode),
			goerrors.CategoryOperation,
		).WithMetadata(map[string]any{
			"status": res.StatusCode,
			"body":   string(raw),
		})
	}

	var decoded sendEmailResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err == nil && c.logger != nil {
		c.logger.Info("verification email %s sent to %s", decoded.ID, email)
	}

	return nil
}
