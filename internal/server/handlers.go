package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/devtint/tempmail"
)

const noSessionMsg = "No active email. Generate an email first."

// Wire DTOs. The SDK structs stay transport-agnostic; the JSON shapes
// belong to this surface.

type summaryJSON struct {
	ID         string    `json:"id"`
	From       string    `json:"from"`
	Subject    string    `json:"subject"`
	Preview    string    `json:"preview"`
	ReceivedAt time.Time `json:"received_at"`
}

type messageJSON struct {
	ID         string    `json:"id"`
	From       string    `json:"from"`
	Subject    string    `json:"subject"`
	Text       string    `json:"text"`
	HTML       []string  `json:"html"`
	ReceivedAt time.Time `json:"received_at"`
}

type parsedJSON struct {
	Sender            string    `json:"sender"`
	Subject           string    `json:"subject"`
	ReceivedAt        time.Time `json:"received_at"`
	TextPreview       string    `json:"text_preview"`
	VerificationCode  string    `json:"verification_code,omitempty"`
	VerificationLinks []string  `json:"verification_links"`
	AllLinks          []string  `json:"all_links"`
	EmailAddresses    []string  `json:"email_addresses"`
}

func toSummaryJSON(m tempmail.MessageSummary) summaryJSON {
	return summaryJSON{
		ID:         m.ID,
		From:       m.From,
		Subject:    m.Subject,
		Preview:    m.Preview,
		ReceivedAt: m.ReceivedAt,
	}
}

func toMessageJSON(m *tempmail.Message) messageJSON {
	html := m.HTMLParts
	if html == nil {
		html = []string{}
	}
	return messageJSON{
		ID:         m.ID,
		From:       m.From,
		Subject:    m.Subject,
		Text:       m.Text,
		HTML:       html,
		ReceivedAt: m.ReceivedAt,
	}
}

func toParsedJSON(p *tempmail.ParsedMessage) parsedJSON {
	return parsedJSON{
		Sender:            p.Sender,
		Subject:           p.Subject,
		ReceivedAt:        p.ReceivedAt,
		TextPreview:       p.TextPreview,
		VerificationCode:  p.VerificationCode,
		VerificationLinks: p.VerificationLinks,
		AllLinks:          p.AllLinks,
		EmailAddresses:    p.EmailAddresses,
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ok(w, map[string]interface{}{
		"service": "tempmail",
		"endpoints": map[string]string{
			"GET /generate":        "Generate new temporary email",
			"POST /api/login":      "Login to an existing email",
			"GET /messages":        "List messages for current email",
			"GET /message/{id}":    "Get one message with full parsing",
			"POST /wait-code":      "Wait for verification code (JSON: {\"timeout\": 60})",
			"POST /wait-link":      "Wait for verification link",
			"POST /wait-any":       "Wait for code or link",
			"POST /wait-email":     "Wait for any new email",
			"GET /status":          "Service status",
			"GET /domains":         "Available email domains",
			"GET /api/history":     "Generated mailbox history",
			"POST /api/wait/{kind}": "Wait by kind: code, link, any, email",
		},
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	session, err := s.client.CreateAccount(r.Context())
	if err != nil {
		s.log.WithError(err).Error("generate email")
		fail(w, http.StatusInternalServerError, "Failed to generate email")
		return
	}

	s.setSession(session)
	s.recordHistory(session, nil, nil)

	ok(w, map[string]interface{}{
		"email":      session.Address(),
		"password":   session.Password(),
		"created_at": session.CreatedAt(),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" || body.Password == "" {
		fail(w, http.StatusBadRequest, "Email and password required")
		return
	}

	session, err := s.client.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		s.log.WithError(err).WithField("email", body.Email).Warn("login failed")
		fail(w, http.StatusUnauthorized, "Login failed")
		return
	}

	s.setSession(session)
	s.recordHistory(session, nil, nil)

	ok(w, map[string]interface{}{"email": session.Address()})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	session := s.currentSession()
	email := ""
	if session != nil {
		email = session.Address()
	}
	ok(w, map[string]interface{}{
		"email":          email,
		"authenticated":  session != nil,
		"service_status": "active",
		"timestamp":      time.Now(),
	})
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	session := s.currentSession()
	if session == nil {
		fail(w, http.StatusBadRequest, noSessionMsg)
		return
	}

	// Provider failures collapse to an empty listing; the diagnostic is
	// already logged by the client.
	messages, _ := session.Messages(r.Context())
	out := make([]summaryJSON, 0, len(messages))
	for _, m := range messages {
		out = append(out, toSummaryJSON(m))
	}

	ok(w, map[string]interface{}{
		"email":    session.Address(),
		"count":    len(out),
		"messages": out,
	})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	session := s.currentSession()
	if session == nil {
		fail(w, http.StatusBadRequest, noSessionMsg)
		return
	}

	id := mux.Vars(r)["id"]
	msg, err := session.Message(r.Context(), id)
	if err != nil {
		fail(w, http.StatusNotFound, "Message not found")
		return
	}

	ok(w, map[string]interface{}{
		"content": toMessageJSON(msg),
		"parsed":  toParsedJSON(tempmail.Parse(msg)),
	})
}

func (s *Server) handleDomains(w http.ResponseWriter, r *http.Request) {
	domains, _ := s.client.Domains(r.Context())
	ok(w, map[string]interface{}{
		"count":   len(domains),
		"domains": domains,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := s.history.List()
	if err != nil {
		s.log.WithError(err).Error("read history")
		fail(w, http.StatusInternalServerError, "Failed to read history")
		return
	}
	ok(w, map[string]interface{}{"sessions": records})
}

func (s *Server) handleWaitKind(w http.ResponseWriter, r *http.Request) {
	var kind tempmail.WaitKind
	switch mux.Vars(r)["kind"] {
	case "code":
		kind = tempmail.WaitCode
	case "link":
		kind = tempmail.WaitLink
	case "any":
		kind = tempmail.WaitAny
	case "email":
		kind = tempmail.WaitNewMessage
	default:
		fail(w, http.StatusBadRequest, "Unknown wait kind")
		return
	}
	s.waitHandler(kind)(w, r)
}

func (s *Server) waitHandler(kind tempmail.WaitKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := s.currentSession()
		if session == nil {
			fail(w, http.StatusBadRequest, noSessionMsg)
			return
		}

		timeout := waitTimeout(r)
		result, err := s.runWait(r, session, kind, timeout)
		if err != nil {
			fail(w, http.StatusRequestTimeout, "No result within timeout period")
			return
		}

		s.harvest(session, result)
		ok(w, waitResultJSON(result))
	}
}

func (s *Server) runWait(r *http.Request, session *tempmail.Session, kind tempmail.WaitKind, timeout time.Duration) (*tempmail.WaitResult, error) {
	opts := []tempmail.WaitOption{tempmail.WithWaitTimeout(timeout)}
	switch kind {
	case tempmail.WaitCode:
		return session.WaitForCode(r.Context(), opts...)
	case tempmail.WaitLink:
		return session.WaitForLink(r.Context(), opts...)
	case tempmail.WaitNewMessage:
		return session.WaitForNewMessage(r.Context(), opts...)
	default:
		return session.WaitForAny(r.Context(), opts...)
	}
}

func (s *Server) recordHistory(session *tempmail.Session, codes, links []string) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(session.Address(), session.Password(), codes, links); err != nil {
		s.log.WithError(err).Warn("update history")
	}
}

// harvest appends any found codes/links to the session's history record.
func (s *Server) harvest(session *tempmail.Session, result *tempmail.WaitResult) {
	var codes, links []string
	if result.Code != "" {
		codes = []string{result.Code}
	}
	links = append(links, result.Links...)
	s.recordHistory(session, codes, links)
}

func waitResultJSON(result *tempmail.WaitResult) map[string]interface{} {
	data := map[string]interface{}{
		"type":     string(result.Kind),
		"found_at": result.FoundAt,
	}
	if result.Code != "" {
		data["code"] = result.Code
	}
	if result.Link != "" {
		data["primary_link"] = result.Link
		data["links"] = result.Links
	}
	if result.Message != nil {
		data["message"] = toMessageJSON(result.Message)
	}
	if result.Parsed != nil {
		data["parsed_content"] = toParsedJSON(result.Parsed)
	}
	return data
}

func waitTimeout(r *http.Request) time.Duration {
	seconds := defaultWaitSeconds
	var body struct {
		Timeout int `json:"timeout"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err == nil && body.Timeout > 0 {
		seconds = body.Timeout
	}
	if seconds > maxWaitSeconds {
		seconds = maxWaitSeconds
	}
	return time.Duration(seconds) * time.Second
}
