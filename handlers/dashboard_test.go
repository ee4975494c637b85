// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/election-console/models"
	"github.com/danielhkuo/election-console/testutil"
)

func TestGetDashboard(t *testing.T) {
	fake := &testutil.FakeBackend{
		Voter: verifiedVoterFixture(),
		Elections: []models.Election{
			electionFixture(1, models.StatusOpen),
			electionFixture(2, models.StatusOpen),
			electionFixture(3, models.StatusDraft),
			electionFixture(4, models.StatusClosed),
		},
		Votes: []models.Vote{
			{ElectionID: 1, CandidateID: 10, VotedAt: time.Now()},
		},
	}
	handler := NewDashboardHandler(newBackend(t, fake), nil)

	req := testutil.MakeRequest("GET", "/dashboard", nil, nil)
	w := httptest.NewRecorder()
	handler.GetDashboard(w, req, voterSession())

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.DashboardResponse
	testutil.AssertJSON(t, w, &resp)

	if len(resp.Elections) != 2 {
		t.Fatalf("Expected 2 open elections, got %d", len(resp.Elections))
	}
	if !resp.Elections[0].HasVoted {
		t.Error("Election 1 should show hasVoted")
	}
	if resp.Elections[0].Eligible {
		t.Error("Already-voted election should not be eligible")
	}
	if resp.Elections[1].HasVoted {
		t.Error("Election 2 should not show hasVoted")
	}
	if !resp.Elections[1].Eligible {
		t.Errorf("Election 2 should be eligible, reason: %s", resp.Elections[1].Reason)
	}

	if resp.Stats.ActiveElections != 2 {
		t.Errorf("Active elections = %d, want 2", resp.Stats.ActiveElections)
	}
	if resp.Stats.VotesCast != 1 {
		t.Errorf("Votes cast = %d, want 1", resp.Stats.VotesCast)
	}
	if resp.Stats.PendingElections != 1 {
		t.Errorf("Pending elections = %d, want 1", resp.Stats.PendingElections)
	}
	if resp.Stats.TimeRemaining == "N/A" {
		t.Error("Expected a concrete time-remaining string")
	}
}

func TestGetDashboardNoVoterRecord(t *testing.T) {
	fake := &testutil.FakeBackend{
		Voter: nil, // backend has no voter profile for this user
		Elections: []models.Election{
			electionFixture(1, models.StatusOpen),
		},
	}
	handler := NewDashboardHandler(newBackend(t, fake), nil)

	req := testutil.MakeRequest("GET", "/dashboard", nil, nil)
	w := httptest.NewRecorder()
	handler.GetDashboard(w, req, voterSession())

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.DashboardResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Voter != nil {
		t.Error("Expected nil voter")
	}
	if resp.Elections[0].Eligible {
		t.Error("Unverified user should not be eligible")
	}
	if resp.Elections[0].Reason == "" {
		t.Error("Ineligible entry should carry a reason")
	}
}

func TestVote(t *testing.T) {
	pastElection := electionFixture(2, models.StatusOpen)
	pastElection.StartAt = time.Now().Add(-48 * time.Hour)
	pastElection.EndAt = time.Now().Add(-24 * time.Hour)

	pendingVoter := verifiedVoterFixture()
	pendingVoter.Status = models.VoterPending

	tests := []struct {
		name           string
		voter          *models.Voter
		votes          []models.Vote
		requestBody    models.VoteRequest
		expectedStatus int
		wantReason     string
	}{
		{
			name:           "valid vote",
			voter:          verifiedVoterFixture(),
			requestBody:    models.VoteRequest{ElectionID: 1, CandidateID: 10},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "unverified voter",
			voter:          pendingVoter,
			requestBody:    models.VoteRequest{ElectionID: 1, CandidateID: 10},
			expectedStatus: http.StatusConflict,
			wantReason:     "verified",
		},
		{
			name:           "no voter record",
			voter:          nil,
			requestBody:    models.VoteRequest{ElectionID: 1, CandidateID: 10},
			expectedStatus: http.StatusConflict,
			wantReason:     "verified",
		},
		{
			name:           "voting window closed",
			voter:          verifiedVoterFixture(),
			requestBody:    models.VoteRequest{ElectionID: 2, CandidateID: 10},
			expectedStatus: http.StatusConflict,
			wantReason:     "not open",
		},
		{
			name:           "candidate not in election",
			voter:          verifiedVoterFixture(),
			requestBody:    models.VoteRequest{ElectionID: 1, CandidateID: 12},
			expectedStatus: http.StatusConflict,
			wantReason:     "not part of this election",
		},
		{
			name:           "candidate not verified",
			voter:          verifiedVoterFixture(),
			requestBody:    models.VoteRequest{ElectionID: 1, CandidateID: 11},
			expectedStatus: http.StatusConflict,
			wantReason:     "not verified",
		},
		{
			name:  "already voted",
			voter: verifiedVoterFixture(),
			votes: []models.Vote{
				{ElectionID: 1, CandidateID: 11, VotedAt: time.Now()},
			},
			requestBody:    models.VoteRequest{ElectionID: 1, CandidateID: 10},
			expectedStatus: http.StatusConflict,
			wantReason:     "already voted",
		},
		{
			name:           "unknown election",
			voter:          verifiedVoterFixture(),
			requestBody:    models.VoteRequest{ElectionID: 99, CandidateID: 10},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "unknown candidate",
			voter:          verifiedVoterFixture(),
			requestBody:    models.VoteRequest{ElectionID: 1, CandidateID: 999},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &testutil.FakeBackend{
				Voter: tt.voter,
				Elections: []models.Election{
					electionFixture(1, models.StatusOpen),
					pastElection,
				},
				Electors: candidateFixtures(),
				Votes:    tt.votes,
			}
			handler := NewDashboardHandler(newBackend(t, fake), nil)

			req := testutil.MakeRequest("POST", "/vote", tt.requestBody, nil)
			w := httptest.NewRecorder()
			handler.Vote(w, req, voterSession())

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				if len(fake.SubmittedVotes) != 1 || fake.SubmittedVotes[0] != tt.requestBody {
					t.Errorf("Submitted votes = %v", fake.SubmittedVotes)
				}
				return
			}

			// A rejected vote must never reach the backend.
			if len(fake.SubmittedVotes) != 0 {
				t.Errorf("Rejected vote was forwarded: %v", fake.SubmittedVotes)
			}
			if tt.wantReason != "" {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if !strings.Contains(resp.Message, tt.wantReason) {
					t.Errorf("Message %q does not mention %q", resp.Message, tt.wantReason)
				}
			}
		})
	}
}

func TestVoteInvalidJSON(t *testing.T) {
	fake := &testutil.FakeBackend{}
	handler := NewDashboardHandler(newBackend(t, fake), nil)

	req := httptest.NewRequest("POST", "/vote", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	handler.Vote(w, req, voterSession())

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestSubmitVerification(t *testing.T) {
	fake := &testutil.FakeBackend{}
	handler := NewDashboardHandler(newBackend(t, fake), nil)

	body, contentType := multipartForm(t, map[string]string{
		"cin":       "AB123456",
		"firstName": "Alice",
		"lastName":  "Smith",
		"dob":       "1990-04-02",
	}, "file", "id-card.png")

	req := httptest.NewRequest("POST", "/verify", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	handler.SubmitVerification(w, req, voterSession())

	testutil.AssertStatus(t, w, http.StatusCreated)

	var voter models.Voter
	testutil.AssertJSON(t, w, &voter)
	if voter.CIN != "AB123456" || voter.Status != models.VoterPending {
		t.Errorf("Voter = %+v", voter)
	}
	if len(fake.Verifications) != 1 || fake.Verifications[0] != "AB123456:id-card.png" {
		t.Errorf("Forwarded verifications = %v", fake.Verifications)
	}
}

func TestSubmitVerificationMissingFields(t *testing.T) {
	fake := &testutil.FakeBackend{}
	handler := NewDashboardHandler(newBackend(t, fake), nil)

	body, contentType := multipartForm(t, map[string]string{
		"cin": "AB123456",
	}, "file", "id-card.png")

	req := httptest.NewRequest("POST", "/verify", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	handler.SubmitVerification(w, req, voterSession())

	testutil.AssertStatus(t, w, http.StatusBadRequest)
	if len(fake.Verifications) != 0 {
		t.Errorf("Incomplete form was forwarded: %v", fake.Verifications)
	}
}

// multipartForm builds a multipart body with the given fields plus one fake
// file part; fileField == "" skips the file.
func multipartForm(t *testing.T, fields map[string]string, fileField, filename string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			t.Fatalf("Failed to write field: %v", err)
		}
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		fw.Write([]byte("fake image bytes"))
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestTimeRemaining(t *testing.T) {
	now := time.Now()

	if got := timeRemaining(now.Add(-time.Minute), now); got != "Ended" {
		t.Errorf("Past end = %q, want Ended", got)
	}
	if got := timeRemaining(now.Add(2*time.Hour), now); got == "Ended" || got == "" {
		t.Errorf("Future end = %q, want a relative time", got)
	}
}
