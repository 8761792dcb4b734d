// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"contentdesk/internal/model"
	"contentdesk/internal/service"
)

func TestListEvents(t *testing.T) {
	h, handler := newTestHandler(t)

	created := createItem(t, handler, model.KindBlog, ContentItemRequest{
		Title:   "Audited post",
		Excerpt: "Leaves a trail.",
		Body:    publishableBody(),
	})
	rec := doRequest(t, handler, http.MethodPost,
		"/api/v1/content/blog/"+created.ID+"/publish", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	rec = httptest.NewRecorder()
	h.ListEvents(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var events []EventResponse
	meta := decodeData(t, rec, &events)
	require.NotEmpty(t, events)
	require.NotNil(t, meta)

	var sawPublish bool
	for _, e := range events {
		if e.Category == model.EventCategoryContent && e.Metadata["item_id"] == created.ID {
			sawPublish = true
		}
	}
	require.True(t, sawPublish, "expected a content event for the published item")
}

func TestListEventsPagination(t *testing.T) {
	h, _ := newTestHandler(t)

	eventSvc := service.NewEventService(h.db)
	for i := 0; i < 3; i++ {
		require.NoError(t, eventSvc.LogSystemEvent(context.Background(),
			model.EventLevelInfo, "startup checkpoint", nil, nil))
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events?per_page=1&page=1", nil)
	rec := httptest.NewRecorder()
	h.ListEvents(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var events []EventResponse
	meta := decodeData(t, rec, &events)
	require.Len(t, events, 1)
	require.GreaterOrEqual(t, meta.Total, int64(1))
}
