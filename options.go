package tempmail

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultWaitTimeout  = 60 * time.Second
	defaultPollInterval = 2 * time.Second
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	logger     logrus.FieldLogger
}

// waitConfig holds configuration for waiting on verification.
type waitConfig struct {
	timeout      time.Duration
	pollInterval time.Duration
	progress     func(Progress)
}

// Progress describes one completed poll iteration. It is delivered to the
// observer configured with WithProgress after every scan that did not meet
// the wait condition.
type Progress struct {
	Elapsed time.Duration
	Polls   int
}

// Option configures the client.
type Option func(*clientConfig)

// WaitOption configures verification waiting.
type WaitOption func(*waitConfig)

// WithBaseURL sets the provider base URL.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithLogger sets the logger used for collapsed provider failures.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *clientConfig) {
		c.logger = log
	}
}

// WithWaitTimeout sets the overall wait deadline.
// Default: 60 seconds
func WithWaitTimeout(timeout time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.timeout = timeout
	}
}

// WithPollInterval sets the sleep between poll iterations.
// Default: 2 seconds
func WithPollInterval(interval time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.pollInterval = interval
	}
}

// WithProgress sets an observer invoked after each unsuccessful poll
// iteration. It replaces any background progress animation: callers that
// want a status line update it from this callback on the polling
// goroutine itself.
func WithProgress(fn func(Progress)) WaitOption {
	return func(c *waitConfig) {
		c.progress = fn
	}
}
