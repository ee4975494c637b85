// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db creates the database schema for the console's own state.

The console is a thin gateway in front of the voting backend and stores no
election data of its own; the only table is the browser session store. The
schema avoids engine-specific defaults so it runs unchanged on SQLite
(development, tests) and PostgreSQL (production).

	session: id, token_hash, username, user_id, role, access_token,
	         created_at, expires_at (unix seconds)
*/
package db
