// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"

	"contentdesk/internal/model"
)

func TestGetUser(t *testing.T) {
	t.Run("no user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if user := GetUser(req); user != nil {
			t.Errorf("GetUser() = %v, want nil", user)
		}
	})

	t.Run("user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		testUser := model.User{
			ID:    123,
			Email: "editor@example.com",
			Role:  RoleEditor,
			Name:  "Test Editor",
		}
		ctx := context.WithValue(req.Context(), ContextKeyUser, testUser)
		req = req.WithContext(ctx)

		user := GetUser(req)
		if user == nil {
			t.Fatal("GetUser() = nil, want user")
		}
		if user.ID != 123 {
			t.Errorf("GetUser().ID = %d, want 123", user.ID)
		}
		if user.Email != "editor@example.com" {
			t.Errorf("GetUser().Email = %q, want %q", user.Email, "editor@example.com")
		}
	})
}

func TestGetUserID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id := GetUserID(req); id != 0 {
		t.Errorf("GetUserID() = %d, want 0", id)
	}

	ctx := context.WithValue(req.Context(), ContextKeyUser, model.User{ID: 456})
	req = req.WithContext(ctx)
	if id := GetUserID(req); id != 456 {
		t.Errorf("GetUserID() = %d, want 456", id)
	}
}

func TestGetUserIDPtr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if ptr := GetUserIDPtr(req); ptr != nil {
		t.Errorf("GetUserIDPtr() = %v, want nil", ptr)
	}

	ctx := context.WithValue(req.Context(), ContextKeyUser, model.User{ID: 789})
	req = req.WithContext(ctx)
	ptr := GetUserIDPtr(req)
	if ptr == nil {
		t.Fatal("GetUserIDPtr() = nil, want pointer")
	}
	if *ptr != 789 {
		t.Errorf("*GetUserIDPtr() = %d, want 789", *ptr)
	}
}

func TestAuth_RejectsAnonymous(t *testing.T) {
	sm := scs.New()

	handler := sm.LoadAndSave(Auth(sm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/blog", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestAuth_AllowsAuthenticated(t *testing.T) {
	sm := scs.New()

	handler := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Simulate a logged-in session before hitting the guarded handler
		sm.Put(r.Context(), SessionKeyUserID, int64(1))
		Auth(sm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})).ServeHTTP(w, r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/blog", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		user       *model.User
		minRole    string
		wantStatus int
	}{
		{"no user", nil, RoleEditor, http.StatusUnauthorized},
		{"editor needs editor", &model.User{ID: 1, Role: RoleEditor}, RoleEditor, http.StatusOK},
		{"admin needs editor", &model.User{ID: 1, Role: RoleAdmin}, RoleEditor, http.StatusOK},
		{"editor needs admin", &model.User{ID: 1, Role: RoleEditor}, RoleAdmin, http.StatusForbidden},
		{"admin needs admin", &model.User{ID: 1, Role: RoleAdmin}, RoleAdmin, http.StatusOK},
		{"unknown role", &model.User{ID: 1, Role: "viewer"}, RoleEditor, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireRole(tt.minRole)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.user != nil {
				ctx := context.WithValue(req.Context(), ContextKeyUser, *tt.user)
				req = req.WithContext(ctx)
			}

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequestPath(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := GetRequestPath(r.Context())
		_, _ = w.Write([]byte(path))
	})

	wrapped := RequestPath(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/blog", nil)
	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)

	if body := rr.Body.String(); body != "/api/v1/blog" {
		t.Errorf("GetRequestPath() = %q, want %q", body, "/api/v1/blog")
	}
}

func TestGetRequestPath_Empty(t *testing.T) {
	if path := GetRequestPath(context.Background()); path != "" {
		t.Errorf("GetRequestPath() = %q, want empty", path)
	}
}
