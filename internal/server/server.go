// Package server is the HTTP JSON front-end over the tempmail client. It
// exposes the generate/login/messages/wait operation set and keeps one
// shared current session: a second generate or login silently replaces the
// first (last-writer-wins), an accepted limitation of running this as a
// single-session service.
package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/devtint/tempmail"
)

const (
	defaultWaitSeconds = 60
	// Cap so a single request cannot pin a worker indefinitely.
	maxWaitSeconds = 300
)

// Server bundles the client, history store, and router for dependency
// injection into the handlers.
type Server struct {
	client  *tempmail.Client
	history *tempmail.HistoryStore
	router  *mux.Router
	log     logrus.FieldLogger

	mu      sync.RWMutex
	session *tempmail.Session
}

// Config contains the dependencies for New.
type Config struct {
	Client  *tempmail.Client
	History *tempmail.HistoryStore
	Logger  logrus.FieldLogger
}

// New returns a server with all routes registered.
func New(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	s := &Server{
		client:  cfg.Client,
		history: cfg.History,
		router:  mux.NewRouter(),
		log:     log,
	}

	r := s.router
	r.Use(s.logRequests)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/generate", s.handleGenerate).Methods(http.MethodGet)
	r.HandleFunc("/messages", s.handleMessages).Methods(http.MethodGet)
	r.HandleFunc("/message/{id}", s.handleMessage).Methods(http.MethodGet)
	r.HandleFunc("/wait-code", s.waitHandler(tempmail.WaitCode)).Methods(http.MethodPost)
	r.HandleFunc("/wait-link", s.waitHandler(tempmail.WaitLink)).Methods(http.MethodPost)
	r.HandleFunc("/wait-any", s.waitHandler(tempmail.WaitAny)).Methods(http.MethodPost)
	r.HandleFunc("/wait-email", s.waitHandler(tempmail.WaitNewMessage)).Methods(http.MethodPost)
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/domains", s.handleDomains).Methods(http.MethodGet)

	// Second route set kept for compatibility with the /api consumers.
	r.HandleFunc("/api/generate", s.handleGenerate).Methods(http.MethodPost)
	r.HandleFunc("/api/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/messages", s.handleMessages).Methods(http.MethodGet)
	r.HandleFunc("/api/message/{id}", s.handleMessage).Methods(http.MethodGet)
	r.HandleFunc("/api/wait/{kind}", s.handleWaitKind).Methods(http.MethodPost)
	r.HandleFunc("/api/history", s.handleHistory).Methods(http.MethodGet)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) currentSession() *tempmail.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *Server) setSession(session *tempmail.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"duration":   time.Since(start).String(),
		}).Info("request")
	})
}

// response is the root envelope for every API call.
type response struct {
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func ok(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, response{Success: true, Data: data})
}

func fail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, response{Success: false, Error: msg})
}
