// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/danielhkuo/election-console/lifecycle"
	"github.com/danielhkuo/election-console/middleware"
	"github.com/danielhkuo/election-console/models"
	"github.com/danielhkuo/election-console/session"
	"github.com/danielhkuo/election-console/upstream"
)

// ResultsHandler is the results viewer adapter. Tallies are never computed
// here: the backend supplies them, and this handler only decides whether they
// are presentable and derives the display view (shares, ordering, winner).
type ResultsHandler struct {
	backend  *upstream.Client
	sessions *session.Store
}

func NewResultsHandler(backend *upstream.Client, sessions *session.Store) *ResultsHandler {
	return &ResultsHandler{backend: backend, sessions: sessions}
}

// ListResults handles GET /results
// Lists elections whose voting has ended, with an availability flag.
func (h *ResultsHandler) ListResults(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	ctx := r.Context()

	elections, err := h.backend.Elections(ctx, sess.AccessToken)
	if err != nil {
		writeBackendError(w, err)
		return
	}

	out := make([]models.ResultsSummary, 0)
	for _, e := range elections {
		if e.Status != models.StatusClosed && e.Status != models.StatusArchived {
			continue
		}

		summary := models.ResultsSummary{Election: e}
		switch e.Status {
		case models.StatusArchived:
			summary.Available = true
		case models.StatusClosed:
			results, err := h.backend.Results(ctx, sess.AccessToken, e.ID)
			if err != nil {
				slog.Warn("failed to fetch results", "election_id", e.ID, "error", err)
			}
			summary.Available = lifecycle.ResultsAvailable(e, results)
		}
		out = append(out, summary)
	}

	middleware.JSONResponse(w, http.StatusOK, out)
}

// GetResults handles GET /results/{id}
// Returns 403 while results are sealed; otherwise the tally with share
// percentages and the winner.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid election id")
		return
	}

	ctx := r.Context()

	elections, err := h.backend.Elections(ctx, sess.AccessToken)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	var election *models.Election
	for i := range elections {
		if elections[i].ID == id {
			election = &elections[i]
			break
		}
	}
	if election == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}

	results, err := h.backend.Results(ctx, sess.AccessToken, id)
	if err != nil {
		writeBackendError(w, err)
		return
	}

	if !lifecycle.ResultsAvailable(*election, results) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Results are not available until the election is closed and results are published")
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

	total := lifecycle.TotalVotes(results)
	tally := make([]models.CandidateTally, 0, len(results))
	for _, res := range results {
		row := models.CandidateTally{
			CandidateID: res.CandidateID,
			VoteCount:   res.VoteCount,
			Share:       lifecycle.Share(res.VoteCount, total),
		}
		if c, ok := byID[res.CandidateID]; ok {
			row.FirstName = c.FirstName
			row.LastName = c.LastName
			row.Party = c.Party
		}
		tally = append(tally, row)
	}

	// Highest count first; equal counts order by candidate ID, matching the
	// winner rule.
	sort.Slice(tally, func(i, j int) bool {
		if tally[i].VoteCount != tally[j].VoteCount {
			return tally[i].VoteCount > tally[j].VoteCount
		}
		return tally[i].CandidateID < tally[j].CandidateID
	})

	resp := models.ElectionResultsResponse{
		Election:   *election,
		Tally:      tally,
		TotalVotes: total,
	}
	if winner, ok := lifecycle.Winner(results); ok {
		for i := range tally {
			if tally[i].CandidateID == winner.CandidateID {
				resp.Winner = &tally[i]
				break
			}
		}
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
