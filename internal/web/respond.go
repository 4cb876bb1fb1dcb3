// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/banterchat/banter/pkg/errutil"
)

// writeJSON writes a JSON response with status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError sends the uniform error shape.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps a service error onto an HTTP status. Known codes
// surface their message to the client; anything else is a 500 with a generic
// body and the cause logged server-side only.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	code := errutil.Code(err)
	switch {
	case code == "AUTH_VALIDATION",
		code == "AUTH_CONFLICT",
		code == "AUTH_INVALID_CREDENTIALS",
		code == "CHAT_VALIDATION":
		writeError(w, http.StatusBadRequest, err.Error())
	case strings.HasSuffix(code, "_NOT_FOUND"):
		writeError(w, http.StatusNotFound, err.Error())
	case code == "AUTH_TOKEN_INVALID":
		writeError(w, http.StatusUnauthorized, "authentication required")
	default:
		errutil.LogError(logger, "request failed", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
