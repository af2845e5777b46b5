// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package callback runs the short-lived localhost listener that receives the
// post-login redirect carrying the issued tokens.
package callback

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"
)

// DefaultPath is the redirect path the backend sends the browser to.
const DefaultPath = "/auth/callback"

// errorParam carries the failure reason of a rejected login.
const errorParam = "error"

// Timeout is how long login waits for the browser to come back.
const Timeout = 5 * time.Minute

var page = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 4em">
<h2>{{.Title}}</h2><p>{{.Message}}</p>
</body></html>`))

// Server is a one-shot HTTP listener for the login redirect.
type Server struct {
	port     int
	path     string
	server   *http.Server
	listener net.Listener
	resultCh chan string
	errorCh  chan error
	once     sync.Once
	baseURL  string
}

// NewServer creates a callback server. Port 0 picks a free port.
func NewServer(port int, path string) *Server {
	if path == "" {
		path = DefaultPath
	}
	return &Server{
		port:     port,
		path:     path,
		resultCh: make(chan string, 1),
		errorCh:  make(chan error, 1),
	}
}

// Start begins listening on the loopback interface and returns the redirect
// URL the backend must send the browser to.
func (s *Server) Start(ctx context.Context) (string, error) {
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to start callback server on %s: %w", addr, err)
	}

	s.listener = listener
	s.port = listener.Addr().(*net.TCPAddr).Port
	s.baseURL = fmt.Sprintf("http://localhost:%d", s.port)

	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.handle)
	if s.path != "/" {
		// Failed logins are redirected to the site root with an error parameter.
		mux.HandleFunc("/", s.handleRoot)
	}
	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case s.errorCh <- err:
			default:
			}
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return s.RedirectURL(), nil
}

// Wait blocks until the redirect arrives and returns its full URL.
func (s *Server) Wait(ctx context.Context) (string, error) {
	select {
	case u := <-s.resultCh:
		return u, nil
	case err := <-s.errorCh:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	handled := false
	s.once.Do(func() {
		handled = true
		s.process(w, r)
	})
	if !handled {
		http.Error(w, "Callback already processed", http.StatusBadRequest)
	}
}

// handleRoot accepts only the failure redirect on any path outside s.path,
// so stray browser requests such as /favicon.ico do not consume the callback.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || r.URL.Query().Get(errorParam) == "" {
		http.NotFound(w, r)
		return
	}
	s.handle(w, r)
}

func (s *Server) process(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	data := map[string]string{
		"Title":   "Signed in",
		"Message": "You can close this window and return to the terminal.",
	}
	if msg := r.URL.Query().Get(errorParam); msg != "" {
		data["Title"] = "Sign-in failed"
		data["Message"] = msg
	}
	_ = page.Execute(w, data)

	select {
	case s.resultCh <- s.baseURL + r.URL.RequestURI():
	default:
	}

	go func() {
		time.Sleep(500 * time.Millisecond)
		s.Stop()
	}()
}

// Stop shuts the server down. It is safe to call more than once.
func (s *Server) Stop() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(ctx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
}

// RedirectURL returns the URL the browser is redirected to after login.
func (s *Server) RedirectURL() string {
	return s.baseURL + s.path
}

// Port returns the bound port.
func (s *Server) Port() int { return s.port }
