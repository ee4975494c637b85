// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the election console API.

# Handler Types

Each handler is a struct holding the voting backend client and the session
store:

  - AuthHandler: Registration, login, and logout against the backend
  - AdminHandler: Election lifecycle, elector management, voter approval,
    and the overview counters
  - DashboardHandler: Voter dashboard and ballot submission
  - ResultsHandler: Results listing and per-election tallies

Handlers are created via constructor functions that accept the upstream client
and session store:

	adminHandler := handlers.NewAdminHandler(backend, sessions)

All methods except registration and login use the middleware.SessionHandler
signature and receive the resolved session.

# Election Lifecycle

Elections progress through five states:

	DRAFT → PUBLISHED → OPEN → CLOSED → ARCHIVED

Status changes go through PUT /admin/elections/{id}/status and are validated
by the lifecycle package before the backend is called. Archiving additionally
requires published results. Admin operations require an ADMIN session.

# Voting Flow

Voters interact through the dashboard:

	GET  /dashboard → GetDashboard (open elections, eligibility, stats)
	POST /vote      → Vote (gated by lifecycle.CanVote)
	POST /verify    → SubmitVerification (forwards identity documents)

A vote that fails an eligibility check is rejected with 409 before anything
reaches the backend. The backend remains the final authority on recorded
votes.

# Backend Errors

Failures from the voting backend go through writeBackendError: a 401 from the
backend means the stored access token has gone stale and the client must log
in again; everything else is reported as 502.
*/
package handlers
