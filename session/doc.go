// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session stores browser sessions server-side.

The original client kept bearer tokens in browser storage; here the browser
only holds an opaque random token, and the console keeps the upstream access
token, username, and role in a SQL-backed store. Handlers receive the
resolved Session as an explicit argument and never touch ambient state.

Tokens are stored hashed (see the auth package). Lookup of an unknown or
expired token yields auth.ErrInvalidToken, which the middleware turns into a
401 so the browser can return to the login surface.
*/
package session
