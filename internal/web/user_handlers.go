// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

package web

import "net/http"

func (rt *Router) handleListUsers(w http.ResponseWriter, req *http.Request) {
	user, ok := userFromContext(req.Context())
	if !ok {
		rt.logger.Error("auth context missing", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	profiles, err := rt.auth.ListOthers(req.Context(), user.ID)
	if err != nil {
		writeServiceError(w, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}
