// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 4170)
  - UpstreamURL: Voting backend base URL (required)
  - DatabaseURL: Session database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - SessionSalt: Secret for session token hashing (required)
  - SessionTTL: Session lifetime (default: 12 hours)

# CLI Flags

	-p             Server port
	-u             Backend base URL
	-d             Session database URL
	-t             Session database type
	--session-salt Session token salt
	--session-ttl  Session lifetime in minutes

# Environment Variables

Flags fall back to environment variables:

	PORT                → -p
	UPSTREAM_URL        → -u
	DATABASE_URL        → -d
	DATABASE_TYPE       → -t
	SESSION_SALT        → --session-salt
	SESSION_TTL_MINUTES → --session-ttl

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - UPSTREAM_URL must be provided
  - DATABASE_URL must be provided
  - SESSION_SALT must be provided
  - DATABASE_TYPE, when set, must be sqlite or postgres
*/
package cliparse
