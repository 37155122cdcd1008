package api

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCollectionShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"hydra envelope", `{"hydra:member":[{"id":"1"},{"id":"2"}]}`, 2},
		{"data envelope", `{"data":[{"id":"1"}]}`, 1},
		{"bare array", `[{"id":"1"},{"id":"2"},{"id":"3"}]`, 3},
		{"empty hydra", `{"hydra:member":[]}`, 0},
		{"unrelated object", `{"something":"else"}`, 0},
		{"scalar", `42`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c collection
			if err := json.Unmarshal([]byte(tt.body), &c); err != nil {
				t.Fatalf("unmarshal error = %v", err)
			}
			if len(c.Items) != tt.want {
				t.Errorf("got %d items, want %d", len(c.Items), tt.want)
			}
		})
	}
}

func TestMailboxShapes(t *testing.T) {
	var m Mailbox
	if err := json.Unmarshal([]byte(`{"address":"a@x.test","name":"A"}`), &m); err != nil {
		t.Fatalf("object form: %v", err)
	}
	if m.Address != "a@x.test" || m.Name != "A" {
		t.Errorf("object form = %+v", m)
	}

	m = Mailbox{}
	if err := json.Unmarshal([]byte(`"bare@x.test"`), &m); err != nil {
		t.Fatalf("string form: %v", err)
	}
	if m.Address != "bare@x.test" {
		t.Errorf("string form = %+v", m)
	}
}

func TestHTMLPartsShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"single string", `"<p>hi</p>"`, 1},
		{"list", `["<p>a</p>","<p>b</p>"]`, 2},
		{"null", `null`, 0},
		{"number", `7`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h HTMLParts
			if err := json.Unmarshal([]byte(tt.body), &h); err != nil {
				t.Fatalf("unmarshal error = %v", err)
			}
			if len(h) != tt.want {
				t.Errorf("got %d parts, want %d", len(h), tt.want)
			}
		})
	}
}

func TestTimestampTolerance(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"2026-08-30T10:00:00Z"`), &ts); err != nil {
		t.Fatalf("valid timestamp: %v", err)
	}
	want := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	if !ts.Time.Equal(want) {
		t.Errorf("Time = %v, want %v", ts.Time, want)
	}

	for _, body := range []string{`null`, `""`, `"not-a-date"`} {
		ts = Timestamp{}
		if err := json.Unmarshal([]byte(body), &ts); err != nil {
			t.Errorf("unmarshal %s: %v", body, err)
		}
		if !ts.Time.IsZero() {
			t.Errorf("unmarshal %s: Time = %v, want zero", body, ts.Time)
		}
	}
}

func TestDomainEntryShapes(t *testing.T) {
	var d domainEntry
	if err := json.Unmarshal([]byte(`"mail.test"`), &d); err != nil || d != "mail.test" {
		t.Errorf("string form = %q, err %v", d, err)
	}

	d = ""
	if err := json.Unmarshal([]byte(`{"domain":"obj.test","isActive":true}`), &d); err != nil || d != "obj.test" {
		t.Errorf("object form = %q, err %v", d, err)
	}

	d = "stale"
	if err := json.Unmarshal([]byte(`42`), &d); err != nil || d != "" {
		t.Errorf("scalar form = %q, err %v", d, err)
	}
}

func TestMessageDecode(t *testing.T) {
	body := `{
		"id": "m1",
		"from": {"address": "a@x.test", "name": "Alice"},
		"subject": "Hello",
		"intro": "preview text",
		"createdAt": "2026-08-30T10:00:00Z"
	}`

	var msg Message
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		t.Fatalf("unmarshal error = %v", err)
	}
	if msg.ID != "m1" || msg.From.Address != "a@x.test" || msg.Subject != "Hello" || msg.Intro != "preview text" {
		t.Errorf("Message = %+v", msg)
	}
	if msg.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
}

func TestMessageDetailDecode(t *testing.T) {
	body := `{
		"id": "m1",
		"from": "sender@x.test",
		"subject": "Hello",
		"text": "body text",
		"html": "<p>body</p>",
		"createdAt": null
	}`

	var msg MessageDetail
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		t.Fatalf("unmarshal error = %v", err)
	}
	if msg.From.Address != "sender@x.test" {
		t.Errorf("From = %+v", msg.From)
	}
	if msg.Text != "body text" {
		t.Errorf("Text = %q", msg.Text)
	}
	if len(msg.HTML) != 1 || msg.HTML[0] != "<p>body</p>" {
		t.Errorf("HTML = %v", msg.HTML)
	}
	if !msg.CreatedAt.IsZero() {
		t.Errorf("CreatedAt = %v, want zero", msg.CreatedAt.Time)
	}
}
