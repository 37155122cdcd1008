package tempmail

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// HistoryRecord is one generated or re-used mailbox, accumulating every
// code and link harvested for it. Bearer tokens are never written here;
// only the address and credential needed for re-login.
type HistoryRecord struct {
	Email         string    `json:"email"`
	Password      string    `json:"password"`
	CreatedAt     time.Time `json:"created_at"`
	LastUsedAt    time.Time `json:"last_used"`
	CodesReceived []string  `json:"codes_received"`
	LinksReceived []string  `json:"links_received"`
}

// historyFile is the persisted document: a flat JSON file, read fully and
// rewritten fully on each update.
type historyFile struct {
	Sessions []HistoryRecord `json:"sessions"`
}

// HistoryStore persists mailbox history at a fixed path. Writes are
// serialized within one process; concurrent writers in separate processes
// may race, which is acceptable for a single-user local tool.
type HistoryStore struct {
	path string
	mu   sync.Mutex
}

// DefaultHistoryPath returns the standard history location,
// ~/.tempmail/history.json. It falls back to the working directory when
// the home directory cannot be determined.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tempmail_history.json"
	}
	return filepath.Join(home, ".tempmail", "history.json")
}

// NewHistoryStore creates a store at path, or at DefaultHistoryPath()
// when path is empty.
func NewHistoryStore(path string) *HistoryStore {
	if path == "" {
		path = DefaultHistoryPath()
	}
	return &HistoryStore{path: path}
}

// Path returns the backing file location.
func (h *HistoryStore) Path() string {
	return h.path
}

// Record upserts the record for email. An existing record keeps its
// creation time, advances LastUsedAt, and appends any supplied codes and
// links; a new record is appended with CreatedAt = LastUsedAt = now.
// Records are never deleted.
func (h *HistoryStore) Record(email, password string, codes, links []string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	doc, err := h.load()
	if err != nil {
		return err
	}

	now := time.Now()
	for i := range doc.Sessions {
		if doc.Sessions[i].Email == email {
			doc.Sessions[i].LastUsedAt = now
			doc.Sessions[i].CodesReceived = append(doc.Sessions[i].CodesReceived, codes...)
			doc.Sessions[i].LinksReceived = append(doc.Sessions[i].LinksReceived, links...)
			return h.save(doc)
		}
	}

	record := HistoryRecord{
		Email:         email,
		Password:      password,
		CreatedAt:     now,
		LastUsedAt:    now,
		CodesReceived: append([]string{}, codes...),
		LinksReceived: append([]string{}, links...),
	}
	doc.Sessions = append(doc.Sessions, record)
	return h.save(doc)
}

// List returns all records, oldest-appended first. A missing file is an
// empty history, not an error.
func (h *HistoryStore) List() ([]HistoryRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	doc, err := h.load()
	if err != nil {
		return nil, err
	}
	return doc.Sessions, nil
}

// Latest returns the most recently used record, for quick re-login.
func (h *HistoryStore) Latest() (*HistoryRecord, bool, error) {
	records, err := h.List()
	if err != nil {
		return nil, false, err
	}
	if len(records) == 0 {
		return nil, false, nil
	}

	latest := records[0]
	for _, r := range records[1:] {
		if r.LastUsedAt.After(latest.LastUsedAt) {
			latest = r
		}
	}
	return &latest, true, nil
}

func (h *HistoryStore) load() (*historyFile, error) {
	data, err := os.ReadFile(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &historyFile{}, nil
		}
		return nil, fmt.Errorf("read history: %w", err)
	}

	var doc historyFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	return &doc, nil
}

func (h *HistoryStore) save(doc *historyFile) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	if dir := filepath.Dir(h.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create history dir: %w", err)
		}
	}

	if err := os.WriteFile(h.path, data, 0600); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}
