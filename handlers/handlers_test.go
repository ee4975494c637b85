// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"testing"
	"time"

	"github.com/danielhkuo/election-console/models"
	"github.com/danielhkuo/election-console/session"
	"github.com/danielhkuo/election-console/testutil"
	"github.com/danielhkuo/election-console/upstream"
)

// newBackend starts a fake voting backend and returns a client pointed at it.
func newBackend(t *testing.T, fake *testutil.FakeBackend) *upstream.Client {
	t.Helper()
	return upstream.New(fake.Server(t).URL)
}

func voterSession() *session.Session {
	return &session.Session{
		ID:          "sess-voter",
		Username:    "alice",
		UserID:      1,
		Role:        models.RoleVoter,
		AccessToken: "voter-access-token",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func adminSession() *session.Session {
	return &session.Session{
		ID:          "sess-admin",
		Username:    "root",
		UserID:      2,
		Role:        models.RoleAdmin,
		AccessToken: "admin-access-token",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

// electionFixture builds an election in the given status with candidates 10
// and 11 attached and a voting window around now.
func electionFixture(id int64, status models.ElectionStatus) models.Election {
	return models.Election{
		ID:           id,
		Title:        "City Council",
		Description:  "Annual council election",
		Status:       status,
		StartAt:      time.Now().Add(-time.Hour),
		EndAt:        time.Now().Add(time.Hour),
		CandidateIDs: []int64{10, 11},
	}
}

func candidateFixtures() []models.Candidate {
	return []models.Candidate{
		{ID: 10, UserID: 100, FirstName: "Carla", LastName: "Diaz", Party: "Green", Status: models.CandidateVerified},
		{ID: 11, UserID: 101, FirstName: "Bob", LastName: "Nguyen", Party: "Blue", Status: models.CandidatePending},
		{ID: 12, UserID: 102, FirstName: "Dana", LastName: "Okoro", Party: "Red", Status: models.CandidateVerified},
	}
}

func verifiedVoterFixture() *models.Voter {
	return &models.Voter{
		ID:        1,
		UserID:    1,
		CIN:       "AB123456",
		FirstName: "Alice",
		LastName:  "Smith",
		Status:    models.VoterVerified,
	}
}
