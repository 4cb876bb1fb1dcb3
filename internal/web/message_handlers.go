// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
)

func (rt *Router) handleSendMessage(w http.ResponseWriter, req *http.Request) {
	user, ok := userFromContext(req.Context())
	if !ok {
		rt.logger.Error("auth context missing", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	receiver, err := ulid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid receiver id")
		return
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	msg, err := rt.chat.Send(req.Context(), user.ID, receiver, payload.Message)
	if err != nil {
		writeServiceError(w, rt.logger, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.MessagesSentTotal.Inc()
	}
	writeJSON(w, http.StatusCreated, msg.View())
}

func (rt *Router) handleConversation(w http.ResponseWriter, req *http.Request) {
	user, ok := userFromContext(req.Context())
	if !ok {
		rt.logger.Error("auth context missing", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	other, err := ulid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	views, err := rt.chat.Conversation(req.Context(), user.ID, other)
	if err != nil {
		writeServiceError(w, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}
