package tempmail

import "time"

// MessageSummary is an immutable snapshot of a message as seen by the
// listing endpoint at poll time. Preview is truncated to 100 characters.
type MessageSummary struct {
	ID         string
	From       string
	Subject    string
	Preview    string
	ReceivedAt time.Time
}

// Message is a fully fetched message. It is a pure data struct; use
// Session methods to perform provider operations and the Extract* /
// Parse functions for content analysis.
type Message struct {
	ID         string
	From       string
	Subject    string
	Text       string
	HTMLParts  []string
	ReceivedAt time.Time
}

// ParsedMessage is the result of running every extractor over one message
// plus basic header fields and a 200-character text preview. It is a pure
// function of the Message and is recomputed on each Parse call.
type ParsedMessage struct {
	Sender            string
	Subject           string
	ReceivedAt        time.Time
	TextPreview       string
	VerificationCode  string
	VerificationLinks []string
	AllLinks          []string
	EmailAddresses    []string
}
