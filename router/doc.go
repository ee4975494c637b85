// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the election console API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Authentication:

	POST /auth/register - Create account and session
	POST /auth/login    - Create session
	POST /auth/logout   - Destroy session (requires session)

Voter dashboard (requires session):

	GET  /dashboard - Open elections with eligibility and stats
	POST /vote      - Cast a ballot
	POST /verify    - Submit identity verification (multipart)

Results (requires session; sealed until available):

	GET /results      - Ended elections with availability flags
	GET /results/{id} - Tally, shares, and winner

Admin console (requires ADMIN session):

	GET    /admin/overview                               - Aggregate counters
	GET    /admin/electors                               - List electors
	POST   /admin/electors                               - Create elector (multipart)
	POST   /admin/elections                              - Create election
	GET    /admin/elections                              - List with candidates, results, next statuses
	PUT    /admin/elections/{id}/status                  - Change lifecycle status
	POST   /admin/elections/{id}/candidates/{candidateID} - Attach candidate
	DELETE /admin/elections/{id}                          - Delete election
	POST   /admin/elections/{id}/publish                  - Publish results
	GET    /admin/voters                                  - List voter records
	PUT    /admin/voters/{id}/approve                     - Approve verification
	PUT    /admin/voters/{id}/reject                      - Reject verification

# Handler Initialization

The router builds the upstream client and session store once and injects them
into every handler:

	backend := upstream.New(cfg.UpstreamURL)
	sessions := session.NewStore(db, cfg.SessionSalt, cfg.SessionTTL)

Session tokens travel in the Authorization header as a bearer token. Routes
wrapped in RequireSession resolve the token to a session before the handler
runs; RequireAdmin additionally checks the role.
*/
package router
