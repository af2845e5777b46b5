// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokensession/cli/internal/auth"
	"tokensession/cli/internal/keychain"
	"tokensession/cli/internal/manifest"
)

// fakeServer is a backend with a refresh endpoint, a protected user endpoint
// and a logout endpoint. validToken is the access token /api/user accepts;
// a successful refresh makes the new token valid unless keepRefused is set.
type fakeServer struct {
	t *testing.T

	mu           sync.Mutex
	validToken   string
	newToken     string
	refreshCode  int
	userBody     string
	userStatus   int
	authHeaders  []string
	requestIDs   []string
	refreshBody  map[string]string
	keepRefused  bool
	dropRefresh  bool
	refreshGate  func()
	refreshCalls atomic.Int32
	userCalls    atomic.Int32
	forbidden    atomic.Int32
	logoutCalls  atomic.Int32
}

func newFakeServer(t *testing.T) *fakeServer {
	return &fakeServer{
		t:           t,
		validToken:  "A1",
		newToken:    "A2",
		refreshCode: http.StatusOK,
		userBody:    `{"name":"Ann","email":"ann@example.com","picture":"https://example.com/ann.png"}`,
		userStatus:  http.StatusOK,
	}
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case manifest.DefaultRefreshPath:
		f.refreshCalls.Add(1)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.refreshBody = body
		gate := f.refreshGate
		code, token, drop := f.refreshCode, f.newToken, f.dropRefresh
		f.mu.Unlock()
		if gate != nil {
			gate()
		}
		if drop {
			// Close the connection without a response.
			conn, _, err := w.(http.Hijacker).Hijack()
			if assert.NoError(f.t, err) {
				_ = conn.Close()
			}
			return
		}
		if code != http.StatusOK {
			w.WriteHeader(code)
			_, _ = w.Write([]byte(`{"error":"Invalid Refresh Token"}`))
			return
		}
		f.mu.Lock()
		if !f.keepRefused {
			f.validToken = token
		}
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": token})

	case manifest.DefaultUserPath:
		f.userCalls.Add(1)
		f.mu.Lock()
		f.authHeaders = append(f.authHeaders, r.Header.Get("Authorization"))
		f.requestIDs = append(f.requestIDs, r.Header.Get(headerRequestID))
		valid, status, body := f.validToken, f.userStatus, f.userBody
		f.mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer "+valid {
			f.forbidden.Add(1)
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))

	case manifest.DefaultLogoutPath:
		f.logoutCalls.Add(1)
		w.WriteHeader(http.StatusOK)

	case "/api/echo":
		assert.Equal(f.t, "application/json", r.Header.Get("Content-Type"))
		var in any
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(map[string]any{"method": r.Method, "got": in})

	case "/api/public":
		f.mu.Lock()
		f.authHeaders = append(f.authHeaders, r.Header.Get("Authorization"))
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{"ok":true}`))

	case "/api/empty":
		w.WriteHeader(http.StatusNoContent)

	case "/api/html":
		_, _ = w.Write([]byte("<html>oops</html>"))

	case "/api/broken":
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))

	default:
		http.NotFound(w, r)
	}
}

func (f *fakeServer) headers() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.authHeaders...)
}

type harness struct {
	server *fakeServer
	store  *keychain.Manager
	svc    *auth.Service
	client *Client
	http   *HTTP
}

// writeFailRing fails every write once failWrites is set; reads and removes
// go through.
type writeFailRing struct {
	keyring.Keyring
	failWrites atomic.Bool
}

func (r *writeFailRing) Set(item keyring.Item) error {
	if r.failWrites.Load() {
		return errors.New("keychain is locked")
	}
	return r.Keyring.Set(item)
}

func newHarness(t *testing.T, values map[string]string) *harness {
	return newHarnessWithRing(t, keyring.NewArrayKeyring(nil), values)
}

func newHarnessWithRing(t *testing.T, ring keyring.Keyring, values map[string]string) *harness {
	t.Helper()
	fs := newFakeServer(t)
	ts := httptest.NewServer(fs)
	t.Cleanup(ts.Close)

	m := &manifest.Manifest{BaseURL: ts.URL, HTTP: manifest.DefaultEndpoints()}
	h := New(m, WithTimeout(5*time.Second))

	store := keychain.NewWithRing(ring, nil)
	if len(values) > 0 {
		require.NoError(t, store.SetMany(values))
	}
	svc := auth.NewService(store, h)
	return &harness{server: fs, store: store, svc: svc, client: NewClient(h, svc), http: h}
}

func session(access string) map[string]string {
	return map[string]string{
		keychain.KeyAccessToken:  access,
		keychain.KeyRefreshToken: "R1",
		keychain.KeyUserID:       "u1",
	}
}
