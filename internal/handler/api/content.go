// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"contentdesk/internal/middleware"
	"contentdesk/internal/model"
	"contentdesk/internal/snapshot"
	"contentdesk/internal/store"
)

// ContentItemResponse represents a content item in API responses.
type ContentItemResponse struct {
	ID              string     `json:"id"`
	Kind            string     `json:"kind"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Category        string     `json:"category,omitempty"`
	Difficulty      string     `json:"difficulty,omitempty"`
	Author          string     `json:"author,omitempty"`
	ReadTime        int64      `json:"read_time"`
	Excerpt         string     `json:"excerpt,omitempty"`
	Body            string     `json:"body,omitempty"`
	Image           string     `json:"image,omitempty"`
	ImageAlt        string     `json:"image_alt,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	MetaTitle       string     `json:"meta_title,omitempty"`
	MetaDescription string     `json:"meta_description,omitempty"`
	FocusKeyword    string     `json:"focus_keyword,omitempty"`
	SEOScore        int64      `json:"seo_score"`
	Status          string     `json:"status"`
	PublishAt       *time.Time `json:"publish_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// SnapshotResponse represents an autosave snapshot in API responses.
type SnapshotResponse struct {
	SavedAt time.Time           `json:"saved_at"`
	Item    ContentItemResponse `json:"item"`
}

// ContentItemRequest is the request body for creating or updating a
// content item. Derived fields (slug when empty, read time, SEO score)
// are computed server-side.
type ContentItemRequest struct {
	Title           string   `json:"title"`
	Slug            string   `json:"slug,omitempty"`
	Category        string   `json:"category,omitempty"`
	Difficulty      string   `json:"difficulty,omitempty"`
	Author          string   `json:"author,omitempty"`
	Excerpt         string   `json:"excerpt,omitempty"`
	Body            string   `json:"body,omitempty"`
	Image           string   `json:"image,omitempty"`
	ImageAlt        string   `json:"image_alt,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	MetaTitle       string   `json:"meta_title,omitempty"`
	MetaDescription string   `json:"meta_description,omitempty"`
	FocusKeyword    string   `json:"focus_keyword,omitempty"`
}

func itemToResponse(item model.ContentItem) ContentItemResponse {
	resp := ContentItemResponse{
		ID:              item.ID,
		Kind:            item.Kind,
		Title:           item.Title,
		Slug:            item.Slug,
		Category:        item.Category,
		Difficulty:      item.Difficulty,
		Author:          item.Author,
		ReadTime:        item.ReadTime,
		Excerpt:         item.Excerpt,
		Body:            item.Body,
		Image:           item.Image,
		ImageAlt:        item.ImageAlt,
		Tags:            item.Tags,
		MetaTitle:       item.MetaTitle,
		MetaDescription: item.MetaDescription,
		FocusKeyword:    item.FocusKeyword,
		SEOScore:        item.SEOScore,
		Status:          item.Status,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
	if item.PublishAt.Valid {
		t := item.PublishAt.Time
		resp.PublishAt = &t
	}
	return resp
}

func (req *ContentItemRequest) toItem(kind, id string) model.ContentItem {
	return model.ContentItem{
		ID:              id,
		Kind:            kind,
		Title:           req.Title,
		Slug:            req.Slug,
		Category:        req.Category,
		Difficulty:      req.Difficulty,
		Author:          req.Author,
		Excerpt:         req.Excerpt,
		Body:            req.Body,
		Image:           req.Image,
		ImageAlt:        req.ImageAlt,
		Tags:            req.Tags,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		FocusKeyword:    req.FocusKeyword,
	}
}

// kindParam extracts and validates the {kind} route parameter.
// Writes a 404 and returns false for unknown collections.
func kindParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	kind := chi.URLParam(r, "kind")
	if !model.IsValidKind(kind) {
		WriteNotFound(w, "Unknown content collection")
		return "", false
	}
	return kind, true
}

// ListContent handles GET /api/v1/content/{kind}.
// Supports status filtering and pagination. Anonymous callers only see
// published items; the status filter is session-only.
func (h *Handler) ListContent(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}

	status := r.URL.Query().Get("status")
	if status != "" && !model.IsValidStatus(status) {
		WriteBadRequest(w, "Unknown status filter", map[string]string{"status": status})
		return
	}
	if middleware.GetUser(r) == nil {
		status = model.StatusPublished
	}

	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, 20, 100)
	offset := (page - 1) * perPage

	items, err := h.contents.List(r.Context(), kind, status, int64(perPage), int64(offset))
	if err != nil {
		WriteInternalError(w, "Failed to list content items")
		return
	}

	stats, err := h.contents.Stats(r.Context(), kind)
	if err != nil {
		WriteInternalError(w, "Failed to count content items")
		return
	}
	total := stats.Total
	switch status {
	case model.StatusDraft:
		total = stats.Draft
	case model.StatusScheduled:
		total = stats.Scheduled
	case model.StatusPublished:
		total = stats.Published
	}

	responses := make([]ContentItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, itemToResponse(item))
	}

	pages := int((total + int64(perPage) - 1) / int64(perPage))
	WriteSuccess(w, responses, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   pages,
	})
}

// EditResponse bundles an item with its autosave snapshot, if any.
type EditResponse struct {
	Item     ContentItemResponse `json:"item"`
	Snapshot *SnapshotResponse   `json:"snapshot,omitempty"`
}

// GetContent handles GET /api/v1/content/{kind}/{id}.
// Returns the stored item plus, for authenticated callers, any pending
// autosave snapshot. Anonymous callers only see published items.
func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	item, snap, err := h.manager.LoadForEdit(r.Context(), kind, id)
	if err != nil {
		writeEditorError(w, err)
		return
	}

	if middleware.GetUser(r) == nil {
		if item.Status != model.StatusPublished {
			WriteNotFound(w, "Content item not found")
			return
		}
		WriteSuccess(w, EditResponse{Item: itemToResponse(item)}, nil)
		return
	}

	resp := EditResponse{Item: itemToResponse(item)}
	if snap != nil {
		resp.Snapshot = &SnapshotResponse{
			SavedAt: snap.SavedAt,
			Item:    itemToResponse(snap.Item),
		}
	}

	WriteSuccess(w, resp, nil)
}

// GetContentBySlug handles GET /api/v1/content/{kind}/slug/{slug}.
// Anonymous callers only see published items.
func (h *Handler) GetContentBySlug(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	slug := chi.URLParam(r, "slug")

	item, err := h.queries.GetContentItemBySlug(r.Context(), store.GetContentItemBySlugParams{
		Kind: kind,
		Slug: slug,
	})
	if errors.Is(err, sql.ErrNoRows) {
		WriteNotFound(w, "Content item not found")
		return
	}
	if err != nil {
		WriteInternalError(w, "Content store failure")
		return
	}

	if middleware.GetUser(r) == nil && item.Status != model.StatusPublished {
		WriteNotFound(w, "Content item not found")
		return
	}

	WriteSuccess(w, itemToResponse(item), nil)
}

// CreateContent handles POST /api/v1/content/{kind}.
func (h *Handler) CreateContent(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}

	var req ContentItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	saved, err := h.manager.SaveDraft(r.Context(), req.toItem(kind, ""))
	if err != nil {
		writeEditorError(w, err)
		return
	}

	h.invalidate(r, kind)
	WriteCreated(w, itemToResponse(saved))
}

// UpdateContent handles PUT /api/v1/content/{kind}/{id}.
func (h *Handler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var req ContentItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	saved, err := h.manager.SaveDraft(r.Context(), req.toItem(kind, id))
	if err != nil {
		writeEditorError(w, err)
		return
	}

	h.invalidate(r, kind)
	WriteSuccess(w, itemToResponse(saved), nil)
}

// AutosaveContent handles POST /api/v1/content/{kind}/autosave and
// POST /api/v1/content/{kind}/{id}/autosave. The edit is queued for a
// debounced snapshot write and the request returns immediately; write
// failures are logged, never surfaced to the editor.
func (h *Handler) AutosaveContent(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var req ContentItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	h.autosaver.Queue(req.toItem(kind, id))

	WriteJSON(w, http.StatusAccepted, Response{Data: map[string]string{
		"status": "queued",
		"key":    snapshot.Key(kind, id),
	}})
}

// PublishRequest is the request body for publishing a content item.
type PublishRequest struct {
	// PublishAt schedules publication for an RFC3339 instant. Absent
	// means publish immediately.
	PublishAt *string `json:"publish_at,omitempty"`
}

// PublishContent handles POST /api/v1/content/{kind}/{id}/publish.
func (h *Handler) PublishContent(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var req PublishRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteBadRequest(w, "Invalid JSON body", nil)
			return
		}
	}

	var scheduleAt *time.Time
	if req.PublishAt != nil && *req.PublishAt != "" {
		parsed, err := time.Parse(time.RFC3339, *req.PublishAt)
		if err != nil {
			WriteBadRequest(w, "publish_at must be an RFC3339 timestamp", map[string]string{"publish_at": *req.PublishAt})
			return
		}
		scheduleAt = &parsed
	}

	updated, err := h.manager.Publish(r.Context(), kind, id, scheduleAt)
	if err != nil {
		writeEditorError(w, err)
		return
	}

	h.invalidate(r, kind)
	WriteSuccess(w, itemToResponse(updated), nil)
}

// ToggleContent handles POST /api/v1/content/{kind}/{id}/toggle.
// Flips published items to draft and drafts to published; scheduled
// items are rejected.
func (h *Handler) ToggleContent(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	updated, err := h.manager.ToggleStatus(r.Context(), kind, id)
	if err != nil {
		writeEditorError(w, err)
		return
	}

	h.invalidate(r, kind)
	WriteSuccess(w, itemToResponse(updated), nil)
}

// DeleteContent handles DELETE /api/v1/content/{kind}/{id}.
// Requires confirm=true to guard against accidental deletion.
func (h *Handler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if r.URL.Query().Get("confirm") != "true" {
		WriteBadRequest(w, "Deletion requires confirm=true", nil)
		return
	}

	if err := h.manager.Delete(r.Context(), kind, id); err != nil {
		writeEditorError(w, err)
		return
	}

	h.invalidate(r, kind)
	WriteJSON(w, http.StatusOK, Response{Data: map[string]string{
		"status": "deleted",
		"id":     id,
	}})
}

// invalidate drops the cached listings for a collection after a write.
func (h *Handler) invalidate(r *http.Request, kind string) {
	if h.contents != nil {
		_ = h.contents.InvalidateKind(r.Context(), kind)
	}
}
