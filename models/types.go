// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Election status constants (ordered lifecycle)
type ElectionStatus string

const (
	StatusDraft     ElectionStatus = "DRAFT"
	StatusPublished ElectionStatus = "PUBLISHED"
	StatusOpen      ElectionStatus = "OPEN"
	StatusClosed    ElectionStatus = "CLOSED"
	StatusArchived  ElectionStatus = "ARCHIVED"
)

// Candidate (elector) status constants
type CandidateStatus string

const (
	CandidatePending   CandidateStatus = "PENDING"
	CandidateVerified  CandidateStatus = "VERIFIED"
	CandidateRejected  CandidateStatus = "REJECTED"
	CandidateSuspended CandidateStatus = "SUSPENDED"
	CandidateBanned    CandidateStatus = "BANNED"
)

// Voter identity-verification status constants
type VoterStatus string

const (
	VoterPending  VoterStatus = "PENDING"
	VoterVerified VoterStatus = "VERIFIED"
	VoterRejected VoterStatus = "REJECTED"
)

// User role constants
const (
	RoleVoter = "VOTER"
	RoleAdmin = "ADMIN"
)

// Domain types

type Election struct {
	ID           int64          `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Status       ElectionStatus `json:"status"`
	StartAt      time.Time      `json:"startAt"`
	EndAt        time.Time      `json:"endAt"`
	CandidateIDs []int64        `json:"candidateIds"`
	CreatedAt    time.Time      `json:"createdAt,omitzero"`
	UpdatedAt    time.Time      `json:"updatedAt,omitzero"`
}

type Candidate struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"userId"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Party     string          `json:"party"`
	Bio       string          `json:"bio"`
	Status    CandidateStatus `json:"status"`
}

type Voter struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"userId"`
	CIN             string      `json:"cin"`
	FirstName       string      `json:"firstName"`
	LastName        string      `json:"lastName"`
	DOB             string      `json:"dob"`
	Status          VoterStatus `json:"status"`
	RejectionReason *string     `json:"rejectionReason"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// Vote is the caller's own ballot record as observed from the backend.
// The client never holds other voters' individual ballots.
type Vote struct {
	ElectionID  int64     `json:"electionId"`
	CandidateID int64     `json:"candidateId"`
	VotedAt     time.Time `json:"votedAt"`
}

// ElectionResult is a precomputed per-candidate tally supplied by the backend.
type ElectionResult struct {
	ID           int64     `json:"id"`
	ElectionID   int64     `json:"electionId"`
	CandidateID  int64     `json:"candidateId"`
	VoteCount    int       `json:"voteCount"`
	CalculatedAt time.Time `json:"calculatedAt"`
}

// Request types

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateElectionRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartAt     time.Time `json:"startAt"`
	EndAt       time.Time `json:"endAt"`
}

type VoteRequest struct {
	ElectionID  int64 `json:"electionId"`
	CandidateID int64 `json:"candidateId"`
}

type RejectVoterRequest struct {
	Reason string `json:"reason"`
}

// Response types

type SessionResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// AdminElection is an election enriched for the admin console: candidate
// references resolved to full records, known results, and the status
// transitions that are currently legal.
type AdminElection struct {
	Election     Election         `json:"election"`
	Candidates   []Candidate      `json:"candidates"`
	Results      []ElectionResult `json:"results"`
	NextStatuses []ElectionStatus `json:"nextStatuses"`
}

// DashboardElection is an open election annotated with the caller's own
// voting state.
type DashboardElection struct {
	Election      Election `json:"election"`
	HasVoted      bool     `json:"hasVoted"`
	Eligible      bool     `json:"eligible"`
	Reason        string   `json:"reason,omitempty"`
	TimeRemaining string   `json:"timeRemaining"`
}

type VoteStats struct {
	ActiveElections  int    `json:"activeElections"`
	VotesCast        int    `json:"votesCast"`
	PendingElections int    `json:"pendingElections"`
	TimeRemaining    string `json:"timeRemaining"`
}

type DashboardResponse struct {
	Voter     *Voter              `json:"voter"`
	Elections []DashboardElection `json:"elections"`
	Votes     []Vote              `json:"votes"`
	Stats     VoteStats           `json:"stats"`
}

// AdminOverview is the admin landing page summary, aggregated from the
// voter, election, and elector listings.
type AdminOverview struct {
	TotalVoters          int `json:"totalVoters"`
	VerifiedVoters       int `json:"verifiedVoters"`
	PendingVerifications int `json:"pendingVerifications"`
	TotalElections       int `json:"totalElections"`
	ActiveElections      int `json:"activeElections"`
	UpcomingElections    int `json:"upcomingElections"`
	TotalElectors        int `json:"totalElectors"`
}

// CandidateTally is one row of a presentable result: the backend tally
// joined with the candidate record plus a display share percentage.
type CandidateTally struct {
	CandidateID int64   `json:"candidateId"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Party       string  `json:"party"`
	VoteCount   int     `json:"voteCount"`
	Share       float64 `json:"share"`
}

type ElectionResultsResponse struct {
	Election   Election         `json:"election"`
	Tally      []CandidateTally `json:"tally"`
	TotalVotes int              `json:"totalVotes"`
	Winner     *CandidateTally  `json:"winner,omitempty"`
}

type ResultsSummary struct {
	Election  Election `json:"election"`
	Available bool     `json:"available"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
