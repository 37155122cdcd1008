package api

import (
	"bytes"
	"encoding/json"
	"time"
)

// collection unwraps the provider's historical list envelopes. Depending on
// API version the body is {"hydra:member": [...]}, {"data": [...]}, or a
// bare JSON array. Anything else normalizes to an empty collection.
type collection struct {
	Items []json.RawMessage
}

func (c *collection) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &c.Items)
	}

	var envelope struct {
		Member []json.RawMessage `json:"hydra:member"`
		Data   []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		c.Items = nil
		return nil
	}
	if envelope.Member != nil {
		c.Items = envelope.Member
	} else {
		c.Items = envelope.Data
	}
	return nil
}

// Mailbox is a sender or recipient. The provider returns either an object
// {"address": ..., "name": ...} or a bare string.
type Mailbox struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

func (m *Mailbox) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &m.Address)
	}
	type plain Mailbox
	return json.Unmarshal(trimmed, (*plain)(m))
}

// HTMLParts normalizes the message html field, which the provider returns
// as either a single string or a list of strings.
type HTMLParts []string

func (h *HTMLParts) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*h = nil
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*h = HTMLParts{s}
		return nil
	}
	if trimmed[0] == '[' {
		var parts []string
		if err := json.Unmarshal(trimmed, &parts); err != nil {
			return err
		}
		*h = parts
		return nil
	}
	*h = nil
	return nil
}

// Timestamp tolerates missing, empty, or malformed createdAt values by
// normalizing them to the zero time instead of failing the whole decode.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	trimmed := bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, string(trimmed))
	if err != nil {
		t.Time = time.Time{}
		return nil
	}
	t.Time = parsed
	return nil
}

// domainEntry is a single element of the domain listing: either an object
// with a "domain" field or a bare string.
type domainEntry string

func (d *domainEntry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*d = domainEntry(s)
		return nil
	}
	var obj struct {
		Domain string `json:"domain"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		*d = ""
		return nil
	}
	*d = domainEntry(obj.Domain)
	return nil
}

// Message represents a message summary from the listing endpoint.
type Message struct {
	ID        string    `json:"id"`
	From      Mailbox   `json:"from"`
	Subject   string    `json:"subject"`
	Intro     string    `json:"intro"`
	CreatedAt Timestamp `json:"createdAt"`
}

// MessageDetail represents a full message from the fetch endpoint.
type MessageDetail struct {
	ID        string    `json:"id"`
	From      Mailbox   `json:"from"`
	Subject   string    `json:"subject"`
	Text      string    `json:"text"`
	HTML      HTMLParts `json:"html"`
	CreatedAt Timestamp `json:"createdAt"`
}

// tokenResponse is the POST /token response.
type tokenResponse struct {
	Token string `json:"token"`
}

// credentials is the request body for account creation and token issuance.
type credentials struct {
	Address  string `json:"address"`
	Password string `json:"password"`
}
