// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/election-console/middleware"
	"github.com/danielhkuo/election-console/models"
	"github.com/danielhkuo/election-console/session"
	"github.com/danielhkuo/election-console/upstream"
)

type AuthHandler struct {
	backend  *upstream.Client
	sessions *session.Store
}

func NewAuthHandler(backend *upstream.Client, sessions *session.Store) *AuthHandler {
	return &AuthHandler{backend: backend, sessions: sessions}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Username == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username is required")
		return
	}
	if len(req.Password) < 8 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	pair, err := h.backend.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		var upErr *upstream.Error
		if errors.As(err, &upErr) && upErr.StatusCode == http.StatusConflict {
			middleware.ErrorResponse(w, http.StatusConflict, "Username already taken")
			return
		}
		writeBackendError(w, err)
		return
	}

	resp, err := h.mintSession(req.Username, pair)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	slog.Info("user registered", "username", req.Username)
	middleware.JSONResponse(w, http.StatusCreated, resp)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Username == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username and password are required")
		return
	}

	pair, err := h.backend.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		var upErr *upstream.Error
		if errors.As(err, &upErr) && upErr.StatusCode == http.StatusUnauthorized {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		writeBackendError(w, err)
		return
	}

	resp, err := h.mintSession(req.Username, pair)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	slog.Info("user logged in", "username", req.Username, "role", resp.Role)
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := h.sessions.Delete(middleware.BearerToken(r)); err != nil {
		slog.Error("failed to delete session", "error", err, "session_id", sess.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log out")
		return
	}

	slog.Info("user logged out", "username", sess.Username)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Logged out"})
}

func (h *AuthHandler) mintSession(username string, pair upstream.TokenPair) (models.SessionResponse, error) {
	claims, err := upstream.ParseClaims(pair.AccessToken)
	if err != nil {
		return models.SessionResponse{}, err
	}

	token, sess, err := h.sessions.Create(username, claims.UserID, claims.Role, pair.AccessToken)
	if err != nil {
		return models.SessionResponse{}, err
	}

	return models.SessionResponse{
		Token:     token,
		Username:  username,
		Role:      claims.Role,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}
