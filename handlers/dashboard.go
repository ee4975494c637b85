// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/election-console/lifecycle"
	"github.com/danielhkuo/election-console/middleware"
	"github.com/danielhkuo/election-console/models"
	"github.com/danielhkuo/election-console/session"
	"github.com/danielhkuo/election-console/upstream"
)

// DashboardHandler is the voter dashboard adapter. Every vote attempt is
// checked by the lifecycle engine first so the browser sees an accurate
// enabled/disabled state and no doomed request reaches the backend. The
// backend still has the final word on double votes.
type DashboardHandler struct {
	backend  *upstream.Client
	sessions *session.Store
}

func NewDashboardHandler(backend *upstream.Client, sessions *session.Store) *DashboardHandler {
	return &DashboardHandler{backend: backend, sessions: sessions}
}

// GetDashboard handles GET /dashboard
// Returns the open elections annotated with the caller's voting state, the
// caller's voter record and votes, and summary stats.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	ctx := r.Context()

	voter, err := h.backend.CurrentVoter(ctx, sess.AccessToken)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	elections, err := h.backend.Elections(ctx, sess.AccessToken)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	votes, err := h.backend.MyVotes(ctx, sess.AccessToken)
	if err != nil {
		writeBackendError(w, err)
		return
	}

	now := time.Now()
	open := make([]models.DashboardElection, 0)
	votesCast := 0
	var soonestEnd time.Time

	for _, e := range elections {
		if e.Status != models.StatusOpen {
			continue
		}

		entry := models.DashboardElection{
			Election:      e,
			HasVoted:      lifecycle.HasVoted(votes, e.ID),
			TimeRemaining: timeRemaining(e.EndAt, now),
		}
		if err := lifecycle.Eligibility(voter, e, votes, now); err != nil {
			entry.Reason = err.Error()
		} else {
			entry.Eligible = true
		}
		open = append(open, entry)

		if entry.HasVoted {
			votesCast++
		}
		if e.EndAt.After(now) && (soonestEnd.IsZero() || e.EndAt.Before(soonestEnd)) {
			soonestEnd = e.EndAt
		}
	}

	stats := models.VoteStats{
		ActiveElections:  len(open),
		VotesCast:        votesCast,
		PendingElections: max(0, len(open)-votesCast),
		TimeRemaining:    "N/A",
	}
	if !soonestEnd.IsZero() {
		stats.TimeRemaining = humanize.Time(soonestEnd)
	}

	if votes == nil {
		votes = []models.Vote{}
	}
	middleware.JSONResponse(w, http.StatusOK, models.DashboardResponse{
		Voter:     voter,
		Elections: open,
		Votes:     votes,
		Stats:     stats,
	})
}

// Vote handles POST /vote
func (h *DashboardHandler) Vote(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ctx := r.Context()

	voter, err := h.backend.CurrentVoter(ctx, sess.AccessToken)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	elections, err := h.backend.Elections(ctx, sess.AccessToken)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	electors, err := h.backend.Electors(ctx, sess.AccessToken)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	votes, err := h.backend.MyVotes(ctx, sess.AccessToken)
	if err != nil {
		writeBackendError(w, err)
		return
	}

	var election *models.Election
	for i := range elections {
		if elections[i].ID == req.ElectionID {
			election = &elections[i]
			break
		}
	}
	if election == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}

	var candidate *models.Candidate
	for i := range electors {
		if electors[i].ID == req.CandidateID {
			candidate = &electors[i]
			break
		}
	}
	if candidate == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}

	if err := lifecycle.CanVote(voter, *election, *candidate, votes, time.Now()); err != nil {
		var rej *lifecycle.VoteRejectionError
		if errors.As(err, &rej) {
			slog.Info("vote rejected",
				"election_id", req.ElectionID,
				"candidate_id", req.CandidateID,
				"kind", rej.Kind,
			)
		}
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
		return
	}

	if err := h.backend.SubmitVote(ctx, sess.AccessToken, req); err != nil {
		writeBackendError(w, err)
		return
	}

	slog.Info("vote cast", "election_id", req.ElectionID, "candidate_id", req.CandidateID)
	middleware.JSONResponse(w, http.StatusCreated, models.MessageResponse{Message: "Vote cast successfully!"})
}

// SubmitVerification handles POST /verify
// Accepts the voter's identity details and document scan as multipart form
// data and forwards them to the backend's verification intake. The backend
// decides the resulting status; the response is the voter record as it now
// stands.
func (h *DashboardHandler) SubmitVerification(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	form := upstream.VerificationForm{
		CIN:       r.FormValue("cin"),
		FirstName: r.FormValue("firstName"),
		LastName:  r.FormValue("lastName"),
		DOB:       r.FormValue("dob"),
	}
	if form.CIN == "" || form.FirstName == "" || form.LastName == "" || form.DOB == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "cin, firstName, lastName and dob are required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "identity document file is required")
		return
	}
	defer file.Close()
	form.Filename = header.Filename
	form.Document = file

	voter, err := h.backend.SubmitVerification(r.Context(), sess.AccessToken, form)
	if err != nil {
		writeBackendError(w, err)
		return
	}

	slog.Info("verification submitted", "username", sess.Username, "status", voter.Status)
	middleware.JSONResponse(w, http.StatusCreated, voter)
}

func timeRemaining(endAt, now time.Time) string {
	if !endAt.After(now) {
		return "Ended"
	}
	return humanize.Time(endAt)
}
