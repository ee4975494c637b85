// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the console.

# Domain Types

Entities mirrored from the voting backend:

  - Election: time-boxed voting event with a lifecycle status and candidate set
  - Candidate: a person eligible to receive votes once verified
  - Voter: an end user authorized to cast votes once identity-verified
  - Vote: the current user's own ballot record
  - ElectionResult: precomputed per-candidate tally

JSON tags match the backend wire format (camelCase).

# Request Types

Types for parsing incoming JSON:

  - LoginRequest / RegisterRequest: username, password
  - CreateElectionRequest: title, description, startAt, endAt
  - VoteRequest: electionId, candidateId
  - RejectVoterRequest: reason

# Response Types

Types for JSON responses:

  - SessionResponse: token, username, role, expiresAt
  - AdminElection: election + resolved candidates + results + legal transitions
  - DashboardResponse: voter, annotated open elections, own votes, stats
  - ElectionResultsResponse: election, tally, totalVotes, winner
  - ErrorResponse: error, message

# Constants

Election statuses:

	DRAFT, PUBLISHED, OPEN, CLOSED, ARCHIVED

Candidate statuses:

	PENDING, VERIFIED, REJECTED, SUSPENDED, BANNED

Voter statuses:

	PENDING, VERIFIED, REJECTED

Roles:

	RoleVoter = "VOTER"
	RoleAdmin = "ADMIN"
*/
package models
