// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"contentdesk/internal/model"
	"contentdesk/internal/store"
)

// EventResponse represents an event log entry in API responses.
type EventResponse struct {
	ID        int64          `json:"id"`
	Level     string         `json:"level"`
	Category  string         `json:"category"`
	Message   string         `json:"message"`
	UserID    *int64         `json:"user_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func eventToResponse(e model.Event) EventResponse {
	resp := EventResponse{
		ID:        e.ID,
		Level:     e.Level,
		Category:  e.Category,
		Message:   e.Message,
		CreatedAt: e.CreatedAt,
	}
	if e.UserID.Valid {
		id := e.UserID.Int64
		resp.UserID = &id
	}
	if e.Metadata != "" && e.Metadata != "{}" {
		var metadata map[string]any
		if err := json.Unmarshal([]byte(e.Metadata), &metadata); err == nil {
			resp.Metadata = metadata
		}
	}
	return resp
}

// ListEvents handles GET /api/v1/events. Admin only.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, 50, 200)
	offset := (page - 1) * perPage

	events, err := h.queries.ListEvents(r.Context(), store.ListEventsParams{
		Limit:  int64(perPage),
		Offset: int64(offset),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list events")
		return
	}

	total, err := h.queries.CountEvents(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to count events")
		return
	}

	responses := make([]EventResponse, 0, len(events))
	for _, e := range events {
		responses = append(responses, eventToResponse(e))
	}

	pages := int((total + int64(perPage) - 1) / int64(perPage))
	WriteSuccess(w, responses, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   pages,
	})
}
