// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/election-console/models"
	"github.com/danielhkuo/election-console/session"
	"github.com/danielhkuo/election-console/testutil"
)

func newTestStore(t *testing.T, ttl time.Duration) *session.Store {
	t.Helper()
	return session.NewStore(testutil.SetupTestDB(t), "test-session-salt", ttl)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "bearer token", header: "Bearer abc123", want: "abc123"},
		{name: "missing header", header: "", want: ""},
		{name: "wrong scheme", header: "Basic abc123", want: ""},
		{name: "bare token", header: "abc123", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if got := BearerToken(req); got != tt.want {
				t.Errorf("BearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequireSession(t *testing.T) {
	store := newTestStore(t, time.Hour)
	token, _, err := store.Create("alice", 1, models.RoleVoter, "access-token")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	var got *session.Session
	handler := RequireSession(store, func(w http.ResponseWriter, r *http.Request, sess *session.Session) {
		got = sess
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{name: "valid token", authHeader: "Bearer " + token, expectedStatus: http.StatusNoContent},
		{name: "missing token", authHeader: "", expectedStatus: http.StatusUnauthorized},
		{name: "unknown token", authHeader: "Bearer bogus", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = nil
			req := httptest.NewRequest("GET", "/dashboard", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			handler(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Status = %d, want %d. Body: %s", w.Code, tt.expectedStatus, w.Body.String())
			}
			if tt.expectedStatus == http.StatusNoContent {
				if got == nil || got.Username != "alice" {
					t.Errorf("Handler session = %+v, want alice", got)
				}
			} else if got != nil {
				t.Error("Handler should not run without a valid session")
			}
		})
	}
}

func TestRequireSessionExpired(t *testing.T) {
	store := newTestStore(t, -time.Minute)
	token, _, err := store.Create("alice", 1, models.RoleVoter, "access-token")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	handler := RequireSession(store, func(w http.ResponseWriter, r *http.Request, sess *session.Session) {
		t.Error("Handler should not run with an expired session")
	})

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Status = %d, want 401", w.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	store := newTestStore(t, time.Hour)
	voterToken, _, _ := store.Create("alice", 1, models.RoleVoter, "a")
	adminToken, _, _ := store.Create("root", 2, models.RoleAdmin, "b")

	handler := RequireAdmin(store, func(w http.ResponseWriter, r *http.Request, sess *session.Session) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name           string
		token          string
		expectedStatus int
	}{
		{name: "admin allowed", token: adminToken, expectedStatus: http.StatusNoContent},
		{name: "voter forbidden", token: voterToken, expectedStatus: http.StatusForbidden},
		{name: "no session", token: "", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin/elections", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			handler(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Status = %d, want %d. Body: %s", w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(w, http.StatusConflict, "already voted")

	if w.Code != http.StatusConflict {
		t.Errorf("Status = %d, want 409", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %s", ct)
	}

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Error != "Conflict" || resp.Message != "already voted" {
		t.Errorf("Body = %+v", resp)
	}
}

func TestCORS(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("OPTIONS", "/vote", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Preflight status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %s", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); got == "" {
		t.Error("Expected Allow-Headers on preflight")
	}
}
