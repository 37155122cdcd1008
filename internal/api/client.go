package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "https://api.mail.tm"

	// Per-call timeouts matching the provider's responsiveness: domain
	// listing is cheap, everything else may touch mailbox storage.
	domainsTimeout = 10 * time.Second
	requestTimeout = 15 * time.Second
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Client is the HTTP client for the provider REST API. It is stateless with
// respect to authentication: endpoints that require a session take the
// bearer token as an argument.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logrus.FieldLogger
}

// Option configures the API client.
type Option func(*Client)

// WithBaseURL sets the provider base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a new API client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		log: logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the configured provider base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do issues one request and decodes the response. A non-empty token is sent
// as a bearer Authorization header. Non-2xx statuses become *APIError,
// transport failures become *NetworkError.
func (c *Client) do(ctx context.Context, method, path string, token string, body, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("url", url).Debug("provider request failed")
		return &NetworkError{Err: err, URL: url}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := parseErrorResponse(resp)
		c.log.WithFields(logrus.Fields{
			"url":    url,
			"status": resp.StatusCode,
		}).Debug("provider rejected request")
		return apiErr
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

func parseErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var errResp struct {
		Message     string `json:"message"`
		Description string `json:"hydra:description"`
		Detail      string `json:"detail"`
	}

	message := ""
	if err := json.Unmarshal(body, &errResp); err == nil {
		switch {
		case errResp.Description != "":
			message = errResp.Description
		case errResp.Message != "":
			message = errResp.Message
		case errResp.Detail != "":
			message = errResp.Detail
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}
