package tempmail

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/devtint/tempmail/internal/api"
)

// Generated identities are throwaway, so a non-cryptographic RNG is fine.
const (
	localPartLength = 10
	passwordLength  = 16

	localPartAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	passwordAlphabet  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Client talks to the disposable-mailbox provider. It holds no session
// state: CreateAccount and Login return explicit Session values, and any
// number of sessions may be used with one Client.
type Client struct {
	api *api.Client
	log logrus.FieldLogger
}

// New creates a new client.
func New(opts ...Option) *Client {
	cfg := &clientConfig{
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	apiOpts := []api.Option{
		api.WithLogger(cfg.logger),
	}
	if cfg.baseURL != "" {
		apiOpts = append(apiOpts, api.WithBaseURL(cfg.baseURL))
	}
	if cfg.httpClient != nil {
		apiOpts = append(apiOpts, api.WithHTTPClient(cfg.httpClient))
	}

	return &Client{
		api: api.New(apiOpts...),
		log: cfg.logger,
	}
}

// BaseURL returns the provider base URL in use.
func (c *Client) BaseURL() string {
	return c.api.BaseURL()
}

// Domains lists the domains available for account creation. A failure
// returns an empty slice alongside the error; callers that only render the
// list can ignore the error, the diagnostic is logged either way.
func (c *Client) Domains(ctx context.Context) ([]string, error) {
	domains, err := c.api.GetDomains(ctx)
	if err != nil {
		c.log.WithError(err).Debug("list domains")
		return []string{}, wrapError(err)
	}
	return domains, nil
}

// CreateAccount generates a random identity on a random available domain,
// registers it, and authenticates. On any failure no session is
// established; in particular no bearer token is ever held for a
// half-created account.
func (c *Client) CreateAccount(ctx context.Context) (*Session, error) {
	domains, err := c.Domains(ctx)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	if len(domains) == 0 {
		return nil, ErrNoDomains
	}

	address := randomString(localPartAlphabet, localPartLength) + "@" + domains[rand.Intn(len(domains))]
	password := randomString(passwordAlphabet, passwordLength)

	if err := c.api.CreateAccount(ctx, address, password); err != nil {
		c.log.WithError(err).WithField("address", address).Debug("create account")
		return nil, fmt.Errorf("create account: %w", wrapError(err))
	}

	session, err := c.Login(ctx, address, password)
	if err != nil {
		return nil, err
	}

	c.log.WithField("address", address).Info("mailbox created")
	return session, nil
}

// Login exchanges credentials for a bearer token and returns the resulting
// session. It serves both fresh accounts and re-login from history.
func (c *Client) Login(ctx context.Context, address, password string) (*Session, error) {
	token, err := c.api.GetToken(ctx, address, password)
	if err != nil {
		c.log.WithError(err).WithField("address", address).Debug("login")
		return nil, fmt.Errorf("login %s: %w", address, wrapError(err))
	}

	return newSession(c, address, password, token), nil
}

func randomString(alphabet string, length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}
