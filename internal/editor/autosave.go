// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package editor

import (
	"log/slog"
	"sync"
	"time"

	"contentdesk/internal/model"
	"contentdesk/internal/snapshot"
)

// DefaultAutosaveInterval is the debounce window for autosave.
const DefaultAutosaveInterval = time.Second

// pendingSave tracks the latest queued state for one item.
type pendingSave struct {
	item  model.ContentItem
	timer *time.Timer
}

// Autosaver coalesces rapid edits into a single snapshot write per
// debounce window. Each new edit replaces the pending state and resets
// the timer; only the last state within a window is written.
type Autosaver struct {
	snapshots *snapshot.Store
	interval  time.Duration

	mu      sync.Mutex
	pending map[string]*pendingSave
	wg      sync.WaitGroup
}

// NewAutosaver creates an Autosaver writing to the given snapshot store.
// A non-positive interval falls back to DefaultAutosaveInterval.
func NewAutosaver(snapshots *snapshot.Store, interval time.Duration) *Autosaver {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	return &Autosaver{
		snapshots: snapshots,
		interval:  interval,
		pending:   make(map[string]*pendingSave),
	}
}

// Queue records an edit for debounced snapshotting. If an edit for the
// same item is already pending, its state is replaced and the timer reset.
func (a *Autosaver) Queue(item model.ContentItem) {
	key := snapshot.Key(item.Kind, item.ID)

	a.mu.Lock()
	defer a.mu.Unlock()

	if existing, ok := a.pending[key]; ok {
		existing.item = item
		existing.timer.Reset(a.interval)
		return
	}

	ps := &pendingSave{item: item}
	ps.timer = time.AfterFunc(a.interval, func() {
		a.mu.Lock()
		a.writeLocked(key)
		a.mu.Unlock()
	})
	a.pending[key] = ps
}

// writeLocked persists one pending snapshot. Must be called with the lock held.
func (a *Autosaver) writeLocked(key string) {
	ps, ok := a.pending[key]
	if !ok {
		return
	}

	ps.timer.Stop()
	delete(a.pending, key)

	item := ps.item
	// Snapshots always record drafts: autosave must never flip an item public
	item.Status = model.StatusDraft

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		// Autosave failures are logged, not surfaced: the editor keeps working
		if err := a.snapshots.Save(key, item); err != nil {
			slog.Error("autosave snapshot failed", "key", key, "error", err)
		}
	}()
}

// Flush immediately writes all pending snapshots.
func (a *Autosaver) Flush() {
	a.mu.Lock()
	for key := range a.pending {
		a.writeLocked(key)
	}
	a.mu.Unlock()
	a.wg.Wait()
}

// Stop flushes pending snapshots and waits for writes to finish.
func (a *Autosaver) Stop() {
	a.Flush()
}

// PendingCount returns the number of items awaiting a snapshot write.
func (a *Autosaver) PendingCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}
