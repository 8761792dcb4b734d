// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"contentdesk/internal/cache"
	"contentdesk/internal/model"
)

// StatsResponse summarizes the state of every content collection.
type StatsResponse struct {
	Collections []cache.KindStats `json:"collections"`
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{
		Collections: make([]cache.KindStats, 0, len(model.ValidKinds)),
	}

	for _, kind := range model.ValidKinds {
		stats, err := h.contents.Stats(r.Context(), kind)
		if err != nil {
			WriteInternalError(w, "Failed to collect content stats")
			return
		}
		resp.Collections = append(resp.Collections, stats)
	}

	WriteSuccess(w, resp, nil)
}
