// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

package web

import (
	"net/http"

	"github.com/banterchat/banter/internal/realtime"
)

func (rt *Router) handleWebsocket(w http.ResponseWriter, req *http.Request) {
	user, ok := userFromContext(req.Context())
	if !ok {
		rt.logger.Error("auth context missing", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	conn, err := rt.upgrader.Upgrade(w, req, nil)
	if err != nil {
		rt.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	userID := user.ID.String()
	client := realtime.NewClient(conn, rt.logger)
	rt.hub.Register(userID, client)
	if rt.metrics != nil {
		rt.metrics.WSConnections.Inc()
	}

	go func() {
		defer func() {
			rt.hub.Unregister(userID, client)
			client.Close()
			if rt.metrics != nil {
				rt.metrics.WSConnections.Dec()
			}
		}()
		client.ReadUntilClose()
	}()
}
