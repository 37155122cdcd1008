package tempmail

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
)

const testToken = "test-token"

type fakeMessage struct {
	ID      string
	From    string
	Subject string
	Intro   string
	Text    string
	HTML    []string
}

// fakeProvider is an in-process stand-in for the mailbox provider. Message
// order is newest first, matching the real listing endpoint.
type fakeProvider struct {
	mu          sync.Mutex
	domains     []string
	accounts    map[string]string
	messages    []fakeMessage
	failDomains bool

	srv *httptest.Server
}

func newFakeProvider(t *testing.T) *fakeProvider {
	fp := &fakeProvider{
		domains:  []string{"example.test"},
		accounts: map[string]string{},
	}
	fp.srv = httptest.NewServer(http.HandlerFunc(fp.handle))
	t.Cleanup(fp.srv.Close)
	return fp
}

func (fp *fakeProvider) url() string {
	return fp.srv.URL
}

func (fp *fakeProvider) addAccount(address, password string) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.accounts[address] = password
}

func (fp *fakeProvider) addMessage(msg fakeMessage) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.messages = append([]fakeMessage{msg}, fp.messages...)
}

func (fp *fakeProvider) setDomains(domains ...string) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.domains = domains
}

func (fp *fakeProvider) setFailDomains(fail bool) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.failDomains = fail
}

func (fp *fakeProvider) password(address string) (string, bool) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	pw, ok := fp.accounts[address]
	return pw, ok
}

func (fp *fakeProvider) handle(w http.ResponseWriter, r *http.Request) {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/domains":
		if fp.failDomains {
			writeFakeJSON(w, http.StatusInternalServerError, map[string]string{"message": "backend unavailable"})
			return
		}
		members := make([]map[string]string, 0, len(fp.domains))
		for _, d := range fp.domains {
			members = append(members, map[string]string{"domain": d})
		}
		writeFakeJSON(w, http.StatusOK, map[string]interface{}{"hydra:member": members})

	case r.Method == http.MethodPost && r.URL.Path == "/accounts":
		var creds struct {
			Address  string `json:"address"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Address == "" {
			writeFakeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid input"})
			return
		}
		fp.accounts[creds.Address] = creds.Password
		writeFakeJSON(w, http.StatusCreated, map[string]string{"id": "acct-1", "address": creds.Address})

	case r.Method == http.MethodPost && r.URL.Path == "/token":
		var creds struct {
			Address  string `json:"address"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			writeFakeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid input"})
			return
		}
		if pw, ok := fp.accounts[creds.Address]; !ok || pw != creds.Password {
			writeFakeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials."})
			return
		}
		writeFakeJSON(w, http.StatusOK, map[string]string{"token": testToken})

	case r.Method == http.MethodGet && r.URL.Path == "/messages":
		if !authorized(r) {
			writeFakeJSON(w, http.StatusUnauthorized, map[string]string{"message": "JWT Token not found"})
			return
		}
		members := make([]map[string]interface{}, 0, len(fp.messages))
		for _, m := range fp.messages {
			members = append(members, map[string]interface{}{
				"id":        m.ID,
				"from":      map[string]string{"address": m.From},
				"subject":   m.Subject,
				"intro":     m.Intro,
				"createdAt": "2026-08-30T10:00:00Z",
			})
		}
		writeFakeJSON(w, http.StatusOK, map[string]interface{}{"hydra:member": members})

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/messages/"):
		if !authorized(r) {
			writeFakeJSON(w, http.StatusUnauthorized, map[string]string{"message": "JWT Token not found"})
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/messages/")
		for _, m := range fp.messages {
			if m.ID != id {
				continue
			}
			writeFakeJSON(w, http.StatusOK, map[string]interface{}{
				"id":        m.ID,
				"from":      map[string]string{"address": m.From},
				"subject":   m.Subject,
				"text":      m.Text,
				"html":      m.HTML,
				"createdAt": "2026-08-30T10:00:00Z",
			})
			return
		}
		writeFakeJSON(w, http.StatusNotFound, map[string]string{"message": "Message not found"})

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+testToken
}

func writeFakeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestClient(fp *fakeProvider) *Client {
	return New(WithBaseURL(fp.url()), WithLogger(quietLogger()))
}

func newTestSession(t *testing.T, fp *fakeProvider) *Session {
	t.Helper()
	fp.addAccount("user@example.test", "secret")
	session, err := newTestClient(fp).Login(context.Background(), "user@example.test", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	return session
}
