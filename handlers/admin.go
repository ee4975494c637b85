// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/election-console/lifecycle"
	"github.com/danielhkuo/election-console/middleware"
	"github.com/danielhkuo/election-console/models"
	"github.com/danielhkuo/election-console/session"
	"github.com/danielhkuo/election-console/upstream"
)

// AdminHandler is the admin console adapter: it reads backend state, lets the
// lifecycle engine decide whether an action is legal, and only then forwards
// the write upstream. Illegal actions are rejected here with the engine's
// reason, before any request is sent.
type AdminHandler struct {
	backend  *upstream.Client
	sessions *session.Store
}

func NewAdminHandler(backend *upstream.Client, sessions *session.Store) *AdminHandler {
	return &AdminHandler{backend: backend, sessions: sessions}
}

// ListElections handles GET /admin/elections
// Returns every election enriched with resolved candidates, known results,
// and the legal next statuses.
func (h *AdminHandler) ListElections(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	ctx := r.Context()

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

	byID := make(map[int64]models.Candidate, len(electors))
	for _, c := range electors {
		byID[c.ID] = c
	}

	out := make([]models.AdminElection, 0, len(elections))
	for _, e := range elections {
		enriched := models.AdminElection{
			Election:     e,
			Candidates:   []models.Candidate{},
			Results:      []models.ElectionResult{},
			NextStatuses: lifecycle.NextValidStatuses(e.Status),
		}
		for _, id := range e.CandidateIDs {
			if c, ok := byID[id]; ok {
				enriched.Candidates = append(enriched.Candidates, c)
			}
		}

		// Results only exist once voting has ended; a fetch failure for one
		// election should not take down the whole listing.
		if e.Status == models.StatusClosed || e.Status == models.StatusArchived {
			results, err := h.backend.Results(ctx, sess.AccessToken, e.ID)
			if err != nil {
				slog.Warn("failed to fetch results", "election_id", e.ID, "error", err)
			} else {
				enriched.Results = results
			}
		}

		out = append(out, enriched)
	}

	middleware.JSONResponse(w, http.StatusOK, out)
}

// CreateElection handles POST /admin/elections
func (h *AdminHandler) CreateElection(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if !req.EndAt.After(req.StartAt) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "endAt must be after startAt")
		return
	}

	election, err := h.backend.CreateElection(r.Context(), sess.AccessToken, req)
	if err != nil {
		writeBackendError(w, err)
		return
	}

	slog.Info("election created", "election_id", election.ID, "title", election.Title)
	middleware.JSONResponse(w, http.StatusCreated, election)
}

// UpdateStatus handles PUT /admin/elections/{id}/status?status=...
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	election, ok := h.findElection(w, r, sess)
	if !ok {
		return
	}

	target := models.ElectionStatus(r.URL.Query().Get("status"))
	if target == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "status query parameter is required")
		return
	}

	// The archival guard needs to know whether results have been published.
	var results []models.ElectionResult
	if target == models.StatusArchived {
		var err error
		results, err = h.backend.Results(r.Context(), sess.AccessToken, election.ID)
		if err != nil {
			writeBackendError(w, err)
			return
		}
	}

	proposed, err := lifecycle.Transition(election, target, results)
	if err != nil {
		var invalid *lifecycle.InvalidTransitionError
		if errors.As(err, &invalid) {
			middleware.ErrorResponse(w, http.StatusConflict, invalid.Reason)
			return
		}
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
		return
	}

	updated, err := h.backend.UpdateElectionStatus(r.Context(), sess.AccessToken, election.ID, proposed.Status)
	if err != nil {
		writeBackendError(w, err)
		return
	}

	slog.Info("election status updated",
		"election_id", election.ID,
		"from", election.Status,
		"to", updated.Status,
	)
	middleware.JSONResponse(w, http.StatusOK, updated)
}

// AddCandidate handles POST /admin/elections/{id}/candidates/{candidateID}
func (h *AdminHandler) AddCandidate(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	election, ok := h.findElection(w, r, sess)
	if !ok {
		return
	}

	candidateID, err := strconv.ParseInt(r.PathValue("candidateID"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid candidate id")
		return
	}

	electors, err := h.backend.Electors(r.Context(), sess.AccessToken)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	var candidate *models.Candidate
	for i := range electors {
		if electors[i].ID == candidateID {
			candidate = &electors[i]
			break
		}
	}
	if candidate == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}

	if err := lifecycle.CanAttachCandidate(election, *candidate); err != nil {
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
		return
	}

	if err := h.backend.AddCandidate(r.Context(), sess.AccessToken, election.ID, candidateID); err != nil {
		writeBackendError(w, err)
		return
	}

	slog.Info("candidate attached", "election_id", election.ID, "candidate_id", candidateID)
	middleware.JSONResponse(w, http.StatusCreated, models.MessageResponse{Message: "Candidate added"})
}

// DeleteElection handles DELETE /admin/elections/{id}
func (h *AdminHandler) DeleteElection(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	election, ok := h.findElection(w, r, sess)
	if !ok {
		return
	}

	if err := lifecycle.CanDelete(election); err != nil {
		middleware.ErrorResponse(w, http.StatusConflict, "Cannot delete archived elections")
		return
	}

	if err := h.backend.DeleteElection(r.Context(), sess.AccessToken, election.ID); err != nil {
		writeBackendError(w, err)
		return
	}

	slog.Info("election deleted", "election_id", election.ID)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Election deleted"})
}

// PublishResults handles POST /admin/elections/{id}/publish
func (h *AdminHandler) PublishResults(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	election, ok := h.findElection(w, r, sess)
	if !ok {
		return
	}

	if election.Status != models.StatusClosed {
		middleware.ErrorResponse(w, http.StatusConflict, "Results can only be published once voting has closed")
		return
	}

	if err := h.backend.PublishResults(r.Context(), sess.AccessToken, election.ID); err != nil {
		writeBackendError(w, err)
		return
	}

	slog.Info("results published", "election_id", election.ID)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Results published"})
}

// Overview handles GET /admin/overview
// Aggregates the voter, election, and elector listings into the landing page
// counters. "Upcoming" means not yet accepting votes: unreleased elections
// plus open ones whose window has not started.
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	ctx := r.Context()

	voters, err := h.backend.Voters(ctx, sess.AccessToken)
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

	overview := models.AdminOverview{
		TotalVoters:    len(voters),
		TotalElections: len(elections),
		TotalElectors:  len(electors),
	}
	for _, v := range voters {
		switch v.Status {
		case models.VoterVerified:
			overview.VerifiedVoters++
		case models.VoterPending:
			overview.PendingVerifications++
		}
	}
	now := time.Now()
	for _, e := range elections {
		switch {
		case e.Status == models.StatusOpen && e.StartAt.After(now):
			overview.UpcomingElections++
		case e.Status == models.StatusOpen:
			overview.ActiveElections++
		case e.Status == models.StatusDraft || e.Status == models.StatusPublished:
			overview.UpcomingElections++
		}
	}

	middleware.JSONResponse(w, http.StatusOK, overview)
}

// ListElectors handles GET /admin/electors
func (h *AdminHandler) ListElectors(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	electors, err := h.backend.Electors(r.Context(), sess.AccessToken)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	if electors == nil {
		electors = []models.Candidate{}
	}
	middleware.JSONResponse(w, http.StatusOK, electors)
}

// CreateElector handles POST /admin/electors
// Accepts multipart form data with the elector's details and an optional
// photo, forwarded to the backend as-is.
func (h *AdminHandler) CreateElector(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	form := upstream.ElectorForm{
		FirstName: r.FormValue("firstName"),
		LastName:  r.FormValue("lastName"),
		Party:     r.FormValue("party"),
		Bio:       r.FormValue("bio"),
	}
	if form.FirstName == "" || form.LastName == "" || form.Party == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "firstName, lastName and party are required")
		return
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		form.Filename = header.Filename
		form.Photo = file
	}

	elector, err := h.backend.CreateElector(r.Context(), sess.AccessToken, form)
	if err != nil {
		writeBackendError(w, err)
		return
	}

	slog.Info("elector created", "elector_id", elector.ID, "party", elector.Party)
	middleware.JSONResponse(w, http.StatusCreated, elector)
}

// ListVoters handles GET /admin/voters
func (h *AdminHandler) ListVoters(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	voters, err := h.backend.Voters(r.Context(), sess.AccessToken)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	if voters == nil {
		voters = []models.Voter{}
	}
	middleware.JSONResponse(w, http.StatusOK, voters)
}

// ApproveVoter handles PUT /admin/voters/{id}/approve
func (h *AdminHandler) ApproveVoter(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	voterID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid voter id")
		return
	}

	if err := h.backend.ApproveVoter(r.Context(), sess.AccessToken, voterID); err != nil {
		writeBackendError(w, err)
		return
	}

	slog.Info("voter approved", "voter_id", voterID)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Voter approved"})
}

// RejectVoter handles PUT /admin/voters/{id}/reject
func (h *AdminHandler) RejectVoter(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	voterID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid voter id")
		return
	}

	var req models.RejectVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Reason == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "reason is required")
		return
	}

	if err := h.backend.RejectVoter(r.Context(), sess.AccessToken, voterID, req.Reason); err != nil {
		writeBackendError(w, err)
		return
	}

	slog.Info("voter rejected", "voter_id", voterID)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Voter rejected"})
}

// findElection resolves the {id} path value against the backend's election
// list. Writes the error response and returns ok=false when it cannot.
func (h *AdminHandler) findElection(w http.ResponseWriter, r *http.Request, sess *session.Session) (models.Election, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid election id")
		return models.Election{}, false
	}

	elections, err := h.backend.Elections(r.Context(), sess.AccessToken)
	if err != nil {
		writeBackendError(w, err)
		return models.Election{}, false
	}

	for _, e := range elections {
		if e.ID == id {
			return e, true
		}
	}
	middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
	return models.Election{}, false
}
