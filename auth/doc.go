// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token generation and hashing for browser sessions.

Session tokens are 192-bit random values encoded as unpadded URL-safe base64.
The raw token travels to the browser once; the store only keeps an HMAC-SHA256
hash of it (salted from configuration), so a leaked database does not leak
usable tokens. Lookups hash the presented token and query by the result, so
there is no separate comparison step.

  - GenerateSessionToken: random bearer token for the browser
  - HashToken: salted HMAC for at-rest storage
  - ErrInvalidToken: sentinel for unknown or expired tokens
*/
package auth
