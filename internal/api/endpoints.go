package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// GetDomains lists the domains available for account creation. Entries that
// fail to normalize to a non-empty domain string are dropped.
func (c *Client) GetDomains(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, domainsTimeout)
	defer cancel()

	var result collection
	if err := c.do(ctx, http.MethodGet, "/domains", "", nil, &result); err != nil {
		return nil, err
	}

	domains := make([]string, 0, len(result.Items))
	for _, raw := range result.Items {
		var entry domainEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}
		if entry != "" {
			domains = append(domains, string(entry))
		}
	}
	return domains, nil
}

// CreateAccount registers a new mailbox account. The provider answers 201
// on success; any other status surfaces as *APIError.
func (c *Client) CreateAccount(ctx context.Context, address, password string) error {
	return c.do(ctx, http.MethodPost, "/accounts", "", credentials{
		Address:  address,
		Password: password,
	}, nil)
}

// GetToken exchanges account credentials for a bearer token.
func (c *Client) GetToken(ctx context.Context, address, password string) (string, error) {
	var result tokenResponse
	err := c.do(ctx, http.MethodPost, "/token", "", credentials{
		Address:  address,
		Password: password,
	}, &result)
	if err != nil {
		return "", err
	}
	if result.Token == "" {
		return "", fmt.Errorf("token endpoint returned empty token")
	}
	return result.Token, nil
}

// GetMessages lists the messages in the authenticated mailbox.
func (c *Client) GetMessages(ctx context.Context, token string) ([]Message, error) {
	var result collection
	if err := c.do(ctx, http.MethodGet, "/messages", token, nil, &result); err != nil {
		return nil, err
	}

	messages := make([]Message, 0, len(result.Items))
	for _, raw := range result.Items {
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// GetMessage fetches one message by id, including body content.
func (c *Client) GetMessage(ctx context.Context, token, id string) (*MessageDetail, error) {
	path := fmt.Sprintf("/messages/%s", url.PathEscape(id))
	var result MessageDetail
	if err := c.do(ctx, http.MethodGet, path, token, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
