// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package editor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"contentdesk/internal/model"
	"contentdesk/internal/service"
	"contentdesk/internal/snapshot"
	"contentdesk/internal/store"
)

// Manager coordinates content item reads and writes. Writes to the
// same item are serialized by a per-identifier in-flight guard: a
// second writer gets ErrSaveInFlight instead of queueing.
type Manager struct {
	queries   *store.Queries
	snapshots *snapshot.Store
	events    *service.EventService

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewManager creates a Manager over the given database and snapshot store.
func NewManager(db *sql.DB, snapshots *snapshot.Store) *Manager {
	return &Manager{
		queries:   store.New(db),
		snapshots: snapshots,
		events:    service.NewEventService(db),
		inFlight:  make(map[string]struct{}),
	}
}

// acquire marks a write as in flight for key. Returns false when one
// is already running.
func (m *Manager) acquire(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := m.inFlight[key]; busy {
		return false
	}
	m.inFlight[key] = struct{}{}
	return true
}

func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inFlight, key)
}

// LoadForEdit fetches an item for editing along with its autosave
// snapshot, when one exists. The snapshot is nil when there is none.
func (m *Manager) LoadForEdit(ctx context.Context, kind, id string) (model.ContentItem, *snapshot.Snapshot, error) {
	item, err := m.queries.GetContentItem(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ContentItem{}, nil, ErrNotFound
	}
	if err != nil {
		return model.ContentItem{}, nil, storeErr("get", err)
	}
	if item.Kind != kind {
		return model.ContentItem{}, nil, ErrNotFound
	}

	snap, err := m.snapshots.Load(snapshot.Key(kind, id))
	if errors.Is(err, snapshot.ErrNotFound) {
		return item, nil, nil
	}
	if err != nil {
		// A broken snapshot must not block editing
		slog.Warn("failed to load autosave snapshot", "item_id", id, "error", err)
		return item, nil, nil
	}
	return item, snap, nil
}

// SaveDraft persists the authored state of an item. A first save
// assigns the identifier; later saves update in place. Derived fields
// are recomputed and the autosave snapshot is dropped on success.
func (m *Manager) SaveDraft(ctx context.Context, item model.ContentItem) (model.ContentItem, error) {
	if err := validateDraft(&item); err != nil {
		return model.ContentItem{}, err
	}

	key := snapshot.Key(item.Kind, item.ID)
	if !m.acquire(key) {
		return model.ContentItem{}, ErrSaveInFlight
	}
	defer m.release(key)

	applyDerived(&item)
	if item.Status == "" {
		item.Status = model.StatusDraft
	}

	slug, err := m.uniqueSlug(ctx, item.Kind, item.Slug, item.ID)
	if err != nil {
		return model.ContentItem{}, err
	}
	item.Slug = slug

	now := time.Now()
	var saved model.ContentItem
	if !item.IsPersisted() {
		saved, err = m.queries.CreateContentItem(ctx, store.CreateContentItemParams{
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
			PublishAt:       item.PublishAt,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			return model.ContentItem{}, storeErr("create", err)
		}
	} else {
		saved, err = m.queries.UpdateContentItem(ctx, store.UpdateContentItemParams{
			ID:              item.ID,
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
			PublishAt:       item.PublishAt,
			UpdatedAt:       now,
		})
		if errors.Is(err, sql.ErrNoRows) {
			return model.ContentItem{}, ErrNotFound
		}
		if err != nil {
			return model.ContentItem{}, storeErr("update", err)
		}
	}

	// The persisted row supersedes any autosave snapshot. The unsaved
	// slot is cleared too so a completed first save leaves nothing behind.
	_ = m.snapshots.Delete(key)
	_ = m.snapshots.Delete(snapshot.Key(item.Kind, ""))

	return saved, nil
}

// Publish makes an item public, immediately or at a scheduled instant.
// A nil scheduleAt publishes now; otherwise the instant is stored
// verbatim, even when it lies in the past.
func (m *Manager) Publish(ctx context.Context, kind, id string, scheduleAt *time.Time) (model.ContentItem, error) {
	if !m.acquire(id) {
		return model.ContentItem{}, ErrSaveInFlight
	}
	defer m.release(id)

	item, err := m.queries.GetContentItem(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ContentItem{}, ErrNotFound
	}
	if err != nil {
		return model.ContentItem{}, storeErr("get", err)
	}
	if item.Kind != kind {
		return model.ContentItem{}, ErrNotFound
	}

	if err := validatePublishable(&item); err != nil {
		return model.ContentItem{}, err
	}

	now := time.Now()
	status := model.StatusPublished
	publishAt := sql.NullTime{Time: now, Valid: true}
	if scheduleAt != nil {
		status = model.StatusScheduled
		publishAt = sql.NullTime{Time: *scheduleAt, Valid: true}
	}

	updated, err := m.queries.UpdateContentItemStatus(ctx, store.UpdateContentItemStatusParams{
		ID:        id,
		Status:    status,
		PublishAt: publishAt,
		UpdatedAt: now,
	})
	if err != nil {
		return model.ContentItem{}, storeErr("update status", err)
	}

	msg := "content item published"
	if scheduleAt != nil {
		msg = "content item scheduled"
	}
	_ = m.events.LogContentEvent(ctx, model.EventLevelInfo, msg, nil, map[string]any{
		"item_id": id,
		"kind":    updated.Kind,
		"slug":    updated.Slug,
	})

	return updated, nil
}

// ToggleStatus flips an item between published and draft. Scheduled
// items are excluded: their pending instant makes the flip ambiguous,
// so callers must publish or revert them explicitly.
func (m *Manager) ToggleStatus(ctx context.Context, kind, id string) (model.ContentItem, error) {
	if !m.acquire(id) {
		return model.ContentItem{}, ErrSaveInFlight
	}
	defer m.release(id)

	item, err := m.queries.GetContentItem(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ContentItem{}, ErrNotFound
	}
	if err != nil {
		return model.ContentItem{}, storeErr("get", err)
	}
	if item.Kind != kind {
		return model.ContentItem{}, ErrNotFound
	}

	now := time.Now()
	var status string
	var publishAt sql.NullTime
	switch item.Status {
	case model.StatusPublished:
		status = model.StatusDraft
	case model.StatusDraft:
		status = model.StatusPublished
		publishAt = sql.NullTime{Time: now, Valid: true}
	default:
		return model.ContentItem{}, &ValidationError{
			Field:   "status",
			Message: "scheduled items cannot be toggled; publish now or save as draft instead",
		}
	}

	updated, err := m.queries.UpdateContentItemStatus(ctx, store.UpdateContentItemStatusParams{
		ID:        id,
		Status:    status,
		PublishAt: publishAt,
		UpdatedAt: now,
	})
	if err != nil {
		return model.ContentItem{}, storeErr("update status", err)
	}

	_ = m.events.LogContentEvent(ctx, model.EventLevelInfo, "content item status toggled", nil, map[string]any{
		"item_id": id,
		"status":  status,
	})

	return updated, nil
}

// Delete removes an item permanently, along with its autosave snapshot.
func (m *Manager) Delete(ctx context.Context, kind, id string) error {
	if !m.acquire(id) {
		return ErrSaveInFlight
	}
	defer m.release(id)

	item, err := m.queries.GetContentItem(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return storeErr("get", err)
	}
	if item.Kind != kind {
		return ErrNotFound
	}

	if err := m.queries.DeleteContentItem(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return storeErr("delete", err)
	}

	_ = m.snapshots.Delete(snapshot.Key(item.Kind, id))

	_ = m.events.LogContentEvent(ctx, model.EventLevelInfo, "content item deleted", nil, map[string]any{
		"item_id": id,
		"kind":    item.Kind,
		"slug":    item.Slug,
	})

	return nil
}

// uniqueSlug resolves a slug that is free within the item's collection,
// suffixing a counter when the candidate is taken.
func (m *Manager) uniqueSlug(ctx context.Context, kind, slug, excludeID string) (string, error) {
	if slug == "" {
		return "", nil
	}

	candidate := slug
	for i := 2; ; i++ {
		taken, err := m.queries.SlugExists(ctx, store.SlugExistsParams{
			Kind:      kind,
			Slug:      candidate,
			ExcludeID: excludeID,
		})
		if err != nil {
			return "", storeErr("slug lookup", err)
		}
		if !taken {
			return candidate, nil
		}
		if i > 100 {
			return "", &ValidationError{Field: "slug", Message: fmt.Sprintf("could not find a free slug for %q", slug)}
		}
		candidate = fmt.Sprintf("%s-%d", slug, i)
	}
}
