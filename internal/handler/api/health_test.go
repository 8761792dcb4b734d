// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t)
	hh := NewHealthHandler(h)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	hh.Health(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.Equal(t, "healthy", status.Status)
	require.Equal(t, "healthy", status.Checks["database"].Status)
	require.Nil(t, status.System)
}

func TestHealthVerbose(t *testing.T) {
	h, _ := newTestHandler(t)
	hh := NewHealthHandler(h)

	req := httptest.NewRequest(http.MethodGet, "/health?verbose=true", nil)
	rec := httptest.NewRecorder()
	hh.Health(rec, req)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.NotNil(t, status.System)
	require.NotEmpty(t, status.System.GoVersion)
}

func TestLiveness(t *testing.T) {
	h, _ := newTestHandler(t)
	hh := NewHealthHandler(h)

	rec := httptest.NewRecorder()
	hh.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestReadiness(t *testing.T) {
	h, _ := newTestHandler(t)
	hh := NewHealthHandler(h)

	rec := httptest.NewRecorder()
	hh.Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ready", body["status"])
}
