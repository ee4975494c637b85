// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/election-console/cliparse"
	"github.com/danielhkuo/election-console/handlers"
	"github.com/danielhkuo/election-console/middleware"
	"github.com/danielhkuo/election-console/session"
	"github.com/danielhkuo/election-console/upstream"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	backend := upstream.New(cfg.UpstreamURL)
	sessions := session.NewStore(db, cfg.SessionSalt, cfg.SessionTTL)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(backend, sessions)
	adminHandler := handlers.NewAdminHandler(backend, sessions)
	dashboardHandler := handlers.NewDashboardHandler(backend, sessions)
	resultsHandler := handlers.NewResultsHandler(backend, sessions)

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Authentication
	mux.HandleFunc("POST /auth/register", middleware.WithLogging(authHandler.Register))
	mux.HandleFunc("POST /auth/login", middleware.WithLogging(authHandler.Login))
	mux.HandleFunc("POST /auth/logout", middleware.WithLogging(middleware.RequireSession(sessions, authHandler.Logout)))

	// Voter dashboard
	mux.HandleFunc("GET /dashboard", middleware.WithLogging(middleware.RequireSession(sessions, dashboardHandler.GetDashboard)))
	mux.HandleFunc("POST /vote", middleware.WithLogging(middleware.RequireSession(sessions, dashboardHandler.Vote)))
	mux.HandleFunc("POST /verify", middleware.WithLogging(middleware.RequireSession(sessions, dashboardHandler.SubmitVerification)))

	// Results (any session; sealed until published)
	mux.HandleFunc("GET /results", middleware.WithLogging(middleware.RequireSession(sessions, resultsHandler.ListResults)))
	mux.HandleFunc("GET /results/{id}", middleware.WithLogging(middleware.RequireSession(sessions, resultsHandler.GetResults)))

	// Admin console
	mux.HandleFunc("GET /admin/overview", middleware.WithLogging(middleware.RequireAdmin(sessions, adminHandler.Overview)))
	mux.HandleFunc("GET /admin/electors", middleware.WithLogging(middleware.RequireAdmin(sessions, adminHandler.ListElectors)))
	mux.HandleFunc("POST /admin/electors", middleware.WithLogging(middleware.RequireAdmin(sessions, adminHandler.CreateElector)))
	mux.HandleFunc("GET /admin/elections", middleware.WithLogging(middleware.RequireAdmin(sessions, adminHandler.ListElections)))
	mux.HandleFunc("POST /admin/elections", middleware.WithLogging(middleware.RequireAdmin(sessions, adminHandler.CreateElection)))
	mux.HandleFunc("PUT /admin/elections/{id}/status", middleware.WithLogging(middleware.RequireAdmin(sessions, adminHandler.UpdateStatus)))
	mux.HandleFunc("POST /admin/elections/{id}/candidates/{candidateID}", middleware.WithLogging(middleware.RequireAdmin(sessions, adminHandler.AddCandidate)))
	mux.HandleFunc("DELETE /admin/elections/{id}", middleware.WithLogging(middleware.RequireAdmin(sessions, adminHandler.DeleteElection)))
	mux.HandleFunc("POST /admin/elections/{id}/publish", middleware.WithLogging(middleware.RequireAdmin(sessions, adminHandler.PublishResults)))
	mux.HandleFunc("GET /admin/voters", middleware.WithLogging(middleware.RequireAdmin(sessions, adminHandler.ListVoters)))
	mux.HandleFunc("PUT /admin/voters/{id}/approve", middleware.WithLogging(middleware.RequireAdmin(sessions, adminHandler.ApproveVoter)))
	mux.HandleFunc("PUT /admin/voters/{id}/reject", middleware.WithLogging(middleware.RequireAdmin(sessions, adminHandler.RejectVoter)))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("election-console API v1"))
	})

	return mux
}
