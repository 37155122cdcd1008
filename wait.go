package tempmail

import (
	"context"
	"time"
)

// WaitKind selects the condition a wait call polls for.
type WaitKind string

const (
	// WaitCode waits for the first message containing a verification code.
	WaitCode WaitKind = "code"
	// WaitLink waits for the first message containing a verification link.
	WaitLink WaitKind = "link"
	// WaitAny waits for either; a code takes priority over a link when one
	// message carries both.
	WaitAny WaitKind = "any"
	// WaitNewMessage waits for the listing to grow past its size at entry
	// and returns the most recent message fully parsed.
	WaitNewMessage WaitKind = "new_message"
)

// WaitResult is the outcome of a successful wait.
type WaitResult struct {
	Kind    WaitKind
	Code    string
	Link    string
	Links   []string
	Message *Message
	Parsed  *ParsedMessage
	FoundAt time.Time
}

// WaitForCode polls until a message yields a verification code.
func (s *Session) WaitForCode(ctx context.Context, opts ...WaitOption) (*WaitResult, error) {
	return s.wait(ctx, WaitCode, opts...)
}

// WaitForLink polls until a message yields a verification link.
func (s *Session) WaitForLink(ctx context.Context, opts ...WaitOption) (*WaitResult, error) {
	return s.wait(ctx, WaitLink, opts...)
}

// WaitForAny polls until a message yields a verification code or link.
func (s *Session) WaitForAny(ctx context.Context, opts ...WaitOption) (*WaitResult, error) {
	return s.wait(ctx, WaitAny, opts...)
}

// WaitForNewMessage polls until a message arrives that was not present
// when the wait started.
func (s *Session) WaitForNewMessage(ctx context.Context, opts ...WaitOption) (*WaitResult, error) {
	return s.wait(ctx, WaitNewMessage, opts...)
}

// wait is a plain fixed-interval polling loop: scan, then sleep, until the
// condition is met or the deadline passes. Provider failures during a scan
// are logged and retried; the terminal outcomes are only "found" and
// "timed out". One scan always runs before the first sleep, so a zero
// timeout still checks the current state exactly once.
func (s *Session) wait(ctx context.Context, kind WaitKind, opts ...WaitOption) (*WaitResult, error) {
	cfg := &waitConfig{
		timeout:      defaultWaitTimeout,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	parent := ctx
	start := time.Now()

	// The entry-time message count is only meaningful for the new-message
	// condition. A failed initial listing counts as zero.
	baseline := 0
	if kind == WaitNewMessage {
		if msgs, err := s.Messages(ctx); err == nil {
			baseline = len(msgs)
		}
	}

	// A zero timeout is a single scan of the current state, no polling.
	if cfg.timeout <= 0 {
		if result := s.scan(ctx, kind, baseline); result != nil {
			return result, nil
		}
		return nil, &TimeoutError{Kind: kind, Timeout: cfg.timeout}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	for polls := 0; ; polls++ {
		if result := s.scan(ctx, kind, baseline); result != nil {
			return result, nil
		}

		if cfg.progress != nil {
			cfg.progress(Progress{Elapsed: time.Since(start), Polls: polls + 1})
		}

		select {
		case <-ctx.Done():
			if parent.Err() != nil {
				return nil, parent.Err()
			}
			return nil, &TimeoutError{Kind: kind, Timeout: cfg.timeout}
		case <-time.After(cfg.pollInterval):
		}
	}
}

// scan runs one poll iteration and returns a result if the condition is
// met. Any provider failure yields nil so the loop retries.
func (s *Session) scan(ctx context.Context, kind WaitKind, baseline int) *WaitResult {
	msgs, err := s.Messages(ctx)
	if err != nil {
		return nil
	}

	if kind == WaitNewMessage {
		if len(msgs) <= baseline || len(msgs) == 0 {
			return nil
		}
		// Listing is most-recent first; take the newest arrival.
		msg, err := s.Message(ctx, msgs[0].ID)
		if err != nil {
			return nil
		}
		return &WaitResult{
			Kind:    WaitNewMessage,
			Message: msg,
			Parsed:  Parse(msg),
			FoundAt: time.Now(),
		}
	}

	for _, summary := range msgs {
		msg, err := s.Message(ctx, summary.ID)
		if err != nil {
			continue
		}

		switch kind {
		case WaitCode:
			if code := ExtractVerificationCode(msg); code != "" {
				return &WaitResult{
					Kind:    WaitCode,
					Code:    code,
					Message: msg,
					FoundAt: time.Now(),
				}
			}
		case WaitLink:
			if links := ExtractVerificationLinks(msg); len(links) > 0 {
				return &WaitResult{
					Kind:    WaitLink,
					Link:    links[0],
					Links:   links,
					Message: msg,
					FoundAt: time.Now(),
				}
			}
		case WaitAny:
			parsed := Parse(msg)
			if parsed.VerificationCode != "" {
				return &WaitResult{
					Kind:    WaitCode,
					Code:    parsed.VerificationCode,
					Message: msg,
					Parsed:  parsed,
					FoundAt: time.Now(),
				}
			}
			if len(parsed.VerificationLinks) > 0 {
				return &WaitResult{
					Kind:    WaitLink,
					Link:    parsed.VerificationLinks[0],
					Links:   parsed.VerificationLinks,
					Message: msg,
					Parsed:  parsed,
					FoundAt: time.Now(),
				}
			}
		}
	}
	return nil
}
