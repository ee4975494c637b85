// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and JSON helpers.

# Middleware

  - WithLogging: request/response logging via slog
  - RequireSession: resolves the bearer session token, 401 on failure
  - RequireAdmin: RequireSession plus an ADMIN role check
  - CORS: cross-origin headers and preflight handling

# Helpers

  - JSONResponse: write a JSON body with status code
  - ErrorResponse: write a models.ErrorResponse
  - ParseJSONBody: decode a request body
  - BearerToken: extract the Authorization bearer value

Handlers behind RequireSession receive the resolved *session.Session as an
explicit argument rather than digging it out of the request context.
*/
package middleware
