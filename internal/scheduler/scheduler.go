// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler promotes scheduled content items to published once
// their publish instant has passed.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"contentdesk/internal/cache"
	"contentdesk/internal/model"
	"contentdesk/internal/service"
	"contentdesk/internal/store"
)

// DefaultCronSpec runs the promotion sweep every minute.
const DefaultCronSpec = "* * * * *"

// Scheduler periodically publishes content items whose scheduled
// instant is due. An item scheduled for the past is picked up on the
// next sweep; its stored instant is never rewritten.
type Scheduler struct {
	queries  *store.Queries
	events   *service.EventService
	contents *cache.ContentCache
	cron     *cron.Cron
	spec     string
	logger   *slog.Logger
}

// New creates a scheduler. The content cache is optional; when present,
// each promotion invalidates the affected collection.
func New(db *sql.DB, contents *cache.ContentCache, spec string, logger *slog.Logger) *Scheduler {
	if spec == "" {
		spec = DefaultCronSpec
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		queries:  store.New(db),
		events:   service.NewEventService(db),
		contents: contents,
		cron:     cron.New(),
		spec:     spec,
		logger:   logger,
	}
}

// Start registers the promotion job and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.RunOnce(context.Background()); err != nil {
			s.logger.Error("scheduled publish sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "spec", s.spec)
	return nil
}

// Stop stops the cron loop and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// RunOnce performs a single promotion sweep and returns how many items
// were published. Exposed so callers can force a sweep outside the
// cron cadence.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	now := time.Now()

	due, err := s.queries.ListScheduledDue(ctx, now)
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	s.logger.Info("promoting due scheduled items", "count", len(due))

	published := 0
	for _, item := range due {
		if err := s.promote(ctx, item, now); err != nil {
			s.logger.Error("failed to publish scheduled item",
				"item_id", item.ID,
				"title", item.Title,
				"error", err,
			)
			continue
		}
		published++
	}

	return published, nil
}

// promote flips one due item to published. The scheduled instant stays
// in publish_at so the item records when it was meant to go out.
func (s *Scheduler) promote(ctx context.Context, item model.ContentItem, now time.Time) error {
	updated, err := s.queries.UpdateContentItemStatus(ctx, store.UpdateContentItemStatusParams{
		ID:        item.ID,
		Status:    model.StatusPublished,
		PublishAt: item.PublishAt,
		UpdatedAt: now,
	})
	if err != nil {
		return err
	}

	if s.contents != nil {
		if err := s.contents.InvalidateKind(ctx, updated.Kind); err != nil {
			s.logger.Warn("failed to invalidate content cache", "kind", updated.Kind, "error", err)
		}
	}

	_ = s.events.LogContentEvent(ctx, model.EventLevelInfo,
		"content item published by scheduler: "+updated.Title, nil, map[string]any{
			"item_id":      updated.ID,
			"kind":         updated.Kind,
			"slug":         updated.Slug,
			"scheduled_at": item.PublishAt.Time.Format(time.RFC3339),
			"published_at": now.Format(time.RFC3339),
		})

	s.logger.Info("published scheduled item",
		"item_id", updated.ID,
		"title", updated.Title,
		"scheduled_at", item.PublishAt.Time,
	)

	return nil
}
