// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/election-console/cliparse"
	"github.com/danielhkuo/election-console/db"
	"github.com/danielhkuo/election-console/models"
)

// SetupTestDB creates an in-memory SQLite session database with the schema.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// A single connection keeps every statement on the same in-memory DB.
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         4170,
		UpstreamURL:  "http://backend.invalid",
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		SessionSalt:  "test-session-salt",
		SessionTTL:   time.Hour,
	}
}

// FakeJWT builds an unsigned access token whose payload carries the given
// claims, enough for upstream.ParseClaims.
func FakeJWT(userID int64, role string) string {
	seg := func(b []byte) string { return base64.RawURLEncoding.EncodeToString(b) }
	payload, _ := json.Marshal(map[string]any{"userId": userID, "roles": role})
	return seg([]byte(`{"alg":"none"}`)) + "." + seg(payload) + "." + seg([]byte("sig"))
}

// FakeBackend is a scriptable stand-in for the voting backend gateway.
// Reads serve the configured fixtures; writes are recorded so tests can
// assert which requests were (or were not) forwarded.
type FakeBackend struct {
	Elections []models.Election
	Electors  []models.Candidate
	Results   map[int64][]models.ElectionResult
	Votes     []models.Vote
	Voter     *models.Voter
	AllVoters []models.Voter

	AccessToken string // returned by login/register
	RejectLogin bool

	// If non-zero, every request fails with this status code.
	FailWith int

	SubmittedVotes  []models.VoteRequest
	Verifications   []string // "cin:filename"
	CreatedElectors []string // "lastName:filename"
	StatusUpdates   []string // "electionID:STATUS"
	AddedCandidates []string // "electionID:candidateID"
	DeletedIDs      []int64
	PublishedIDs    []int64
	ApprovedIDs     []int64
	RejectedIDs     []int64
}

// Server starts an httptest.Server speaking the gateway's routes. The caller
// owns shutdown via t.Cleanup.
func (f *FakeBackend) Server(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}
	pathID := func(r *http.Request, key string) int64 {
		id, _ := strconv.ParseInt(r.PathValue(key), 10, 64)
		return id
	}

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		if f.RejectLogin {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
			return
		}
		writeJSON(w, map[string]string{"accessToken": f.AccessToken, "refreshToken": "refresh"})
	})
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"accessToken": f.AccessToken, "refreshToken": "refresh"})
	})

	mux.HandleFunc("GET /election/all", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, f.Elections)
	})
	mux.HandleFunc("GET /elector/all", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, f.Electors)
	})
	mux.HandleFunc("GET /result/{id}", func(w http.ResponseWriter, r *http.Request) {
		results := f.Results[pathID(r, "id")]
		if results == nil {
			results = []models.ElectionResult{}
		}
		writeJSON(w, results)
	})
	mux.HandleFunc("GET /vote/my-votes", func(w http.ResponseWriter, r *http.Request) {
		votes := f.Votes
		if votes == nil {
			votes = []models.Vote{}
		}
		writeJSON(w, votes)
	})
	mux.HandleFunc("GET /voter/me", func(w http.ResponseWriter, r *http.Request) {
		if f.Voter == nil {
			http.Error(w, "no voter record", http.StatusNotFound)
			return
		}
		writeJSON(w, f.Voter)
	})
	mux.HandleFunc("GET /admin/voters", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, f.AllVoters)
	})

	mux.HandleFunc("POST /vote", func(w http.ResponseWriter, r *http.Request) {
		var req models.VoteRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.SubmittedVotes = append(f.SubmittedVotes, req)
		writeJSON(w, map[string]string{"message": "vote recorded"})
	})
	mux.HandleFunc("POST /elector", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		filename := ""
		if _, header, err := r.FormFile("image"); err == nil {
			filename = header.Filename
		}
		f.CreatedElectors = append(f.CreatedElectors, r.FormValue("lastName")+":"+filename)
		writeJSON(w, models.Candidate{
			ID:        int64(100 + len(f.CreatedElectors)),
			FirstName: r.FormValue("firstName"),
			LastName:  r.FormValue("lastName"),
			Party:     r.FormValue("party"),
			Bio:       r.FormValue("bio"),
			Status:    models.CandidatePending,
		})
	})
	mux.HandleFunc("POST /voter/register", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		filename := ""
		if _, header, err := r.FormFile("file"); err == nil {
			filename = header.Filename
		}
		f.Verifications = append(f.Verifications, r.FormValue("cin")+":"+filename)
		writeJSON(w, models.Voter{
			ID:        1,
			CIN:       r.FormValue("cin"),
			FirstName: r.FormValue("firstName"),
			LastName:  r.FormValue("lastName"),
			DOB:       r.FormValue("dob"),
			Status:    models.VoterPending,
		})
	})
	mux.HandleFunc("POST /admin/elections", func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateElectionRequest
		json.NewDecoder(r.Body).Decode(&req)
		writeJSON(w, models.Election{
			ID:          99,
			Title:       req.Title,
			Description: req.Description,
			Status:      models.StatusDraft,
			StartAt:     req.StartAt,
			EndAt:       req.EndAt,
		})
	})
	mux.HandleFunc("PUT /admin/elections/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r, "id")
		status := r.URL.Query().Get("status")
		f.StatusUpdates = append(f.StatusUpdates, strconv.FormatInt(id, 10)+":"+status)
		for _, e := range f.Elections {
			if e.ID == id {
				e.Status = models.ElectionStatus(status)
				writeJSON(w, e)
				return
			}
		}
		http.Error(w, "election not found", http.StatusNotFound)
	})
	mux.HandleFunc("POST /admin/elections/{id}/candidates/{candidateID}", func(w http.ResponseWriter, r *http.Request) {
		f.AddedCandidates = append(f.AddedCandidates,
			r.PathValue("id")+":"+r.PathValue("candidateID"))
		writeJSON(w, map[string]string{"message": "candidate added"})
	})
	mux.HandleFunc("DELETE /admin/elections/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.DeletedIDs = append(f.DeletedIDs, pathID(r, "id"))
		writeJSON(w, map[string]string{"message": "election deleted"})
	})
	mux.HandleFunc("POST /admin/elections/{id}/publish", func(w http.ResponseWriter, r *http.Request) {
		f.PublishedIDs = append(f.PublishedIDs, pathID(r, "id"))
		writeJSON(w, map[string]string{"message": "results published"})
	})
	mux.HandleFunc("PUT /admin/voters/{id}/approve", func(w http.ResponseWriter, r *http.Request) {
		f.ApprovedIDs = append(f.ApprovedIDs, pathID(r, "id"))
		writeJSON(w, map[string]string{"message": "voter approved"})
	})
	mux.HandleFunc("PUT /admin/voters/{id}/reject", func(w http.ResponseWriter, r *http.Request) {
		f.RejectedIDs = append(f.RejectedIDs, pathID(r, "id"))
		writeJSON(w, map[string]string{"message": "voter rejected"})
	})

	var handler http.Handler = mux
	if f.FailWith != 0 {
		code := f.FailWith
		handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "backend failure", code)
		})
	}

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
