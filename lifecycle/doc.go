// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package lifecycle is the election lifecycle and eligibility engine: a pure
decision layer that, given an election's current status and the votes and
results known to the client, determines which status transitions are legal,
whether a voter may cast a ballot, and whether results may be displayed.

Every operation is a synchronous, side-effect-free function over in-memory
values supplied by the caller. The package performs no I/O, holds no locks,
and never mutates shared state: Transition returns a proposed copy, and it is
the caller's job to persist the change through the backend.

# State Machine

	DRAFT -> PUBLISHED -> OPEN -> CLOSED -> ARCHIVED

with one backward edge, PUBLISHED -> DRAFT. ARCHIVED is terminal and
immutable. CLOSED -> ARCHIVED is additionally gated on results having been
published.

# Eligibility

CanVote runs five ordered checks (voter verified, election open, candidate in
election, candidate verified, not already voted); the first failing check
wins, so rejection reasons are deterministic and user-legible. The check only
exists to avoid sending doomed requests: the backend remains authoritative,
and two tabs racing each other are resolved by the backend rejecting the
second write.

# Results

ResultsAvailable, Winner, TotalVotes, and Share derive the presentable view
of a precomputed tally. Winner ties are broken explicitly by lowest candidate
ID rather than by incidental result ordering.
*/
package lifecycle
