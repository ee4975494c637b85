// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/election-console/middleware"
	"github.com/danielhkuo/election-console/upstream"
)

// writeBackendError renders a backend failure. The cause is logged but the
// browser only sees a generic gateway error; retry is left to the user. A 401
// from the backend means the stored access token has expired, which the
// browser handles like any other 401 by returning to login.
func writeBackendError(w http.ResponseWriter, err error) {
	var upErr *upstream.Error
	if errors.As(err, &upErr) && upErr.StatusCode == http.StatusUnauthorized {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Backend session expired, please log in again")
		return
	}
	slog.Error("backend request failed", "error", err)
	middleware.ErrorResponse(w, http.StatusBadGateway, "Voting backend request failed")
}
