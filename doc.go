// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the election console server.

The election console is a browser-facing gateway for an e-voting system. It
sits between the web frontend and the voting backend: it owns login sessions,
decides locally which election actions are currently legal (lifecycle
transitions, vote eligibility, result availability), and forwards only the
actions that pass those checks. The backend remains the source of truth for
all persisted election data.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	UPSTREAM_URL=http://backend:8080 DATABASE_URL=sessions.db SESSION_SALT=... go run main.go

Or with flags:

	go run main.go -p 4170 -u "http://backend:8080" -d "sessions.db" --session-salt "..."

A .env file in the working directory is loaded if present.

# Configuration

Required settings:

  - UPSTREAM_URL (-u): Voting backend base URL
  - DATABASE_URL (-d): Session database (SQLite path or PostgreSQL URL)
  - SESSION_SALT (--session-salt): Secret for session token hashing

Optional settings:

  - PORT (-p): Server port (default: 4170)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - SESSION_TTL_MINUTES (--session-ttl): Session lifetime (default: 720)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - lifecycle: Pure election state machine and vote eligibility rules
  - upstream: HTTP client for the voting backend
  - session: SQL-backed login sessions
  - handlers: HTTP request handlers (auth, admin, dashboard, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Session resolution, CORS, logging, JSON helpers
  - models: Domain and request/response types
  - auth: Token generation and hashing
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
