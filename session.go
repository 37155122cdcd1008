package tempmail

import (
	"context"
	"time"

	"github.com/devtint/tempmail/internal/api"
)

const previewLength = 100

// Session is an authenticated mailbox. The bearer token is held only in
// memory for the lifetime of the value and is used on every provider call
// until a new session replaces it; it is never persisted.
type Session struct {
	address   string
	password  string
	token     string
	createdAt time.Time
	client    *Client
}

func newSession(c *Client, address, password, token string) *Session {
	return &Session{
		address:   address,
		password:  password,
		token:     token,
		createdAt: time.Now(),
		client:    c,
	}
}

// Address returns the mailbox email address.
func (s *Session) Address() string {
	return s.address
}

// Password returns the mailbox credential, for history persistence and
// later re-login. These are throwaway credentials, not secrets.
func (s *Session) Password() string {
	return s.password
}

// CreatedAt returns when the session was authenticated.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Messages lists the mailbox contents as summaries. A mailbox with no
// messages yields an empty slice, not an error.
func (s *Session) Messages(ctx context.Context) ([]MessageSummary, error) {
	raw, err := s.client.api.GetMessages(ctx, s.token)
	if err != nil {
		s.client.log.WithError(err).Debug("list messages")
		return []MessageSummary{}, wrapError(err)
	}

	summaries := make([]MessageSummary, 0, len(raw))
	for _, msg := range raw {
		summaries = append(summaries, MessageSummary{
			ID:         msg.ID,
			From:       msg.From.Address,
			Subject:    msg.Subject,
			Preview:    truncate(msg.Intro, previewLength),
			ReceivedAt: msg.CreatedAt.Time,
		})
	}
	return summaries, nil
}

// Message fetches one message with body content. Nothing is cached: a
// re-fetch returns the provider's current state. A missing id yields
// ErrMessageNotFound.
func (s *Session) Message(ctx context.Context, id string) (*Message, error) {
	raw, err := s.client.api.GetMessage(ctx, s.token, id)
	if err != nil {
		s.client.log.WithError(err).WithField("message_id", id).Debug("fetch message")
		return nil, wrapError(err)
	}

	return messageFromDetail(raw), nil
}

func messageFromDetail(raw *api.MessageDetail) *Message {
	return &Message{
		ID:         raw.ID,
		From:       raw.From.Address,
		Subject:    raw.Subject,
		Text:       raw.Text,
		HTMLParts:  []string(raw.HTML),
		ReceivedAt: raw.CreatedAt.Time,
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
