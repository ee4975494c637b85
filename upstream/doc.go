// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package upstream is the HTTP client for the voting backend gateway.

The console itself owns no election data: elections, electors, votes, and
results are read from the backend, and every write (vote, status change,
candidate attach, publish, voter approval, identity verification) is
delegated to it. Methods take the acting user's bearer token per call, so one
Client serves all sessions.

Failures surface as *Error carrying the backend status code and message,
unclassified; callers decide how to render them. A transport failure has
StatusCode 0.

ParseClaims reads userId and role from the access token payload the way the
original browser client did: decoded, not verified, since verification is the
backend's job.
*/
package upstream
