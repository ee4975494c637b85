// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lifecycle

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/danielhkuo/election-console/models"
)

var (
	ErrElectionArchived         = errors.New("archived elections are immutable")
	ErrCandidateNotVerified     = errors.New("only verified candidates may be attached to an election")
	ErrCandidateAlreadyAttached = errors.New("candidate is already attached to this election")
)

// transitions is the allowed-next table for the election lifecycle.
// Linear DRAFT -> PUBLISHED -> OPEN -> CLOSED -> ARCHIVED, with a single
// backward edge PUBLISHED -> DRAFT. ARCHIVED is terminal.
var transitions = map[models.ElectionStatus][]models.ElectionStatus{
	models.StatusDraft:     {models.StatusPublished},
	models.StatusPublished: {models.StatusOpen, models.StatusDraft},
	models.StatusOpen:      {models.StatusClosed},
	models.StatusClosed:    {models.StatusArchived},
	models.StatusArchived:  {},
}

// NextValidStatuses returns the statuses an election in the given status may
// legally move to. The returned slice is a copy; callers may mutate it.
func NextValidStatuses(status models.ElectionStatus) []models.ElectionStatus {
	next, ok := transitions[status]
	if !ok {
		return []models.ElectionStatus{}
	}
	out := make([]models.ElectionStatus, len(next))
	copy(out, next)
	return out
}

// InvalidTransitionError reports an illegal or unguarded state-machine move.
type InvalidTransitionError struct {
	From   models.ElectionStatus
	To     models.ElectionStatus
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s: %s", e.From, e.To, e.Reason)
}

// Transition validates a status change and returns the proposed updated
// election. It never mutates shared state; on success the caller is
// responsible for persisting the change through the backend.
//
// results is the set of published results known for this election, used to
// gate CLOSED -> ARCHIVED: an election may only be archived once at least one
// result has been published.
func Transition(election models.Election, target models.ElectionStatus, results []models.ElectionResult) (models.Election, error) {
	if election.Status == models.StatusArchived {
		return models.Election{}, &InvalidTransitionError{
			From:   election.Status,
			To:     target,
			Reason: "archived elections are immutable",
		}
	}

	allowed := false
	for _, next := range transitions[election.Status] {
		if next == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return models.Election{}, &InvalidTransitionError{
			From:   election.Status,
			To:     target,
			Reason: fmt.Sprintf("%s is not a valid next status for %s", target, election.Status),
		}
	}

	if target == models.StatusArchived && len(results) == 0 {
		return models.Election{}, &InvalidTransitionError{
			From:   election.Status,
			To:     target,
			Reason: "Results must be published before archiving.",
		}
	}

	election.Status = target
	return election, nil
}

// RejectionKind classifies why a vote attempt was refused.
type RejectionKind string

const (
	VoterNotVerified       RejectionKind = "VOTER_NOT_VERIFIED"
	ElectionNotOpen        RejectionKind = "ELECTION_NOT_OPEN"
	CandidateNotInElection RejectionKind = "CANDIDATE_NOT_IN_ELECTION"
	CandidateNotVerified   RejectionKind = "CANDIDATE_NOT_VERIFIED"
	AlreadyVoted           RejectionKind = "ALREADY_VOTED"
)

// VoteRejectionError reports the first failing eligibility check.
type VoteRejectionError struct {
	Kind RejectionKind
}

func (e *VoteRejectionError) Error() string {
	switch e.Kind {
	case VoterNotVerified:
		return "your identity must be verified before voting"
	case ElectionNotOpen:
		return "this election is not open for voting"
	case CandidateNotInElection:
		return "candidate is not part of this election"
	case CandidateNotVerified:
		return "candidate is not verified"
	case AlreadyVoted:
		return "you have already voted in this election"
	default:
		return "vote rejected"
	}
}

// CanVote decides whether the voter may cast a ballot for the candidate in the
// election, given the voter's own existing votes. Checks run in a fixed order
// and the first failing check determines the reported reason:
//
//  1. voter exists and is verified
//  2. election is open and now lies within [startAt, endAt)
//  3. candidate belongs to the election
//  4. candidate is verified
//  5. voter has not already voted in the election
//
// The check is advisory: the backend remains the authority on double votes.
// Safe to call repeatedly, no side effects.
func CanVote(voter *models.Voter, election models.Election, candidate models.Candidate, votes []models.Vote, now time.Time) error {
	if err := checkVoter(voter); err != nil {
		return err
	}
	if err := checkOpen(election, now); err != nil {
		return err
	}

	member := false
	for _, id := range election.CandidateIDs {
		if id == candidate.ID {
			member = true
			break
		}
	}
	if !member {
		return &VoteRejectionError{Kind: CandidateNotInElection}
	}
	if candidate.Status != models.CandidateVerified {
		return &VoteRejectionError{Kind: CandidateNotVerified}
	}

	if HasVoted(votes, election.ID) {
		return &VoteRejectionError{Kind: AlreadyVoted}
	}
	return nil
}

// Eligibility is the candidate-independent subset of CanVote, used to render
// enabled/disabled voting state for an election before a candidate is chosen.
// Check order matches CanVote.
func Eligibility(voter *models.Voter, election models.Election, votes []models.Vote, now time.Time) error {
	if err := checkVoter(voter); err != nil {
		return err
	}
	if err := checkOpen(election, now); err != nil {
		return err
	}
	if HasVoted(votes, election.ID) {
		return &VoteRejectionError{Kind: AlreadyVoted}
	}
	return nil
}

func checkVoter(voter *models.Voter) error {
	if voter == nil || voter.Status != models.VoterVerified {
		return &VoteRejectionError{Kind: VoterNotVerified}
	}
	return nil
}

func checkOpen(election models.Election, now time.Time) error {
	if election.Status != models.StatusOpen {
		return &VoteRejectionError{Kind: ElectionNotOpen}
	}
	if !election.StartAt.IsZero() && now.Before(election.StartAt) {
		return &VoteRejectionError{Kind: ElectionNotOpen}
	}
	if !election.EndAt.IsZero() && !now.Before(election.EndAt) {
		return &VoteRejectionError{Kind: ElectionNotOpen}
	}
	return nil
}

// HasVoted reports whether the vote set contains a ballot for the election.
func HasVoted(votes []models.Vote, electionID int64) bool {
	for _, v := range votes {
		if v.ElectionID == electionID {
			return true
		}
	}
	return false
}

// CanAttachCandidate decides whether the candidate may be attached to the
// election: the election must not be archived, the candidate must be
// verified, and re-attaching an existing member is refused rather than
// duplicated.
func CanAttachCandidate(election models.Election, candidate models.Candidate) error {
	if election.Status == models.StatusArchived {
		return ErrElectionArchived
	}
	if candidate.Status != models.CandidateVerified {
		return ErrCandidateNotVerified
	}
	for _, id := range election.CandidateIDs {
		if id == candidate.ID {
			return ErrCandidateAlreadyAttached
		}
	}
	return nil
}

// CanDelete decides whether the election may be deleted. Any status is
// deletable except ARCHIVED, which is a permanent record.
func CanDelete(election models.Election) error {
	if election.Status == models.StatusArchived {
		return ErrElectionArchived
	}
	return nil
}

// ResultsAvailable reports whether results may be shown for the election.
// Archived elections are always presentable (their tally may still be loading
// asynchronously); closed elections only once at least one result has been
// published.
func ResultsAvailable(election models.Election, results []models.ElectionResult) bool {
	switch election.Status {
	case models.StatusArchived:
		return true
	case models.StatusClosed:
		return len(results) > 0
	default:
		return false
	}
}

// Winner returns the result with the highest vote count. Ties are broken by
// the lowest candidate ID so the outcome does not depend on result ordering.
// The second return value is false when results is empty.
func Winner(results []models.ElectionResult) (models.ElectionResult, bool) {
	if len(results) == 0 {
		return models.ElectionResult{}, false
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.VoteCount > best.VoteCount ||
			(r.VoteCount == best.VoteCount && r.CandidateID < best.CandidateID) {
			best = r
		}
	}
	return best, true
}

// TotalVotes sums the vote counts across a result set.
func TotalVotes(results []models.ElectionResult) int {
	total := 0
	for _, r := range results {
		total += r.VoteCount
	}
	return total
}

// Share returns voteCount as a percentage of total, rounded to one decimal
// place. A zero total yields 0 for every candidate.
func Share(voteCount, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(voteCount)/float64(total)*1000) / 10
}
