// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"fmt"
	"time"

	"contentdesk/internal/model"
	"contentdesk/internal/store"
)

// ContentCache provides cached access to content listings and per-kind
// counts. Entries carry a short TTL but every write path is expected to
// call InvalidateKind, so the TTL only matters when writes bypass the
// editor (direct SQL, another instance without Redis).
type ContentCache struct {
	lists   *TypedCache[[]model.ContentItem]
	stats   *TypedCache[KindStats]
	queries *store.Queries
}

// KindStats summarizes one collection's lifecycle distribution.
type KindStats struct {
	Kind      string `json:"kind"`
	Total     int64  `json:"total"`
	Draft     int64  `json:"draft"`
	Scheduled int64  `json:"scheduled"`
	Published int64  `json:"published"`
}

// NewContentCache creates a ContentCache over the given backend and queries.
func NewContentCache(backend Cache, queries *store.Queries, ttl time.Duration) *ContentCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ContentCache{
		lists:   NewTypedCache[[]model.ContentItem](backend, ttl),
		stats:   NewTypedCache[KindStats](backend, ttl),
		queries: queries,
	}
}

func listKey(kind, status string, limit, offset int64) string {
	if status == "" {
		status = "any"
	}
	return fmt.Sprintf("content:list:%s:%s:%d:%d", kind, status, limit, offset)
}

func statsKey(kind string) string {
	return "content:stats:" + kind
}

// List returns one page of a collection, optionally filtered by status.
// An empty status means all lifecycle states.
func (c *ContentCache) List(ctx context.Context, kind, status string, limit, offset int64) ([]model.ContentItem, error) {
	items, err := c.lists.GetOrSet(ctx, listKey(kind, status, limit, offset), func() (*[]model.ContentItem, error) {
		var (
			rows []model.ContentItem
			err  error
		)
		if status == "" {
			rows, err = c.queries.ListContentItems(ctx, store.ListContentItemsParams{
				Kind:   kind,
				Limit:  limit,
				Offset: offset,
			})
		} else {
			rows, err = c.queries.ListContentItemsByStatus(ctx, store.ListContentItemsByStatusParams{
				Kind:   kind,
				Status: status,
				Limit:  limit,
				Offset: offset,
			})
		}
		if err != nil {
			return nil, err
		}
		return &rows, nil
	})
	if err != nil {
		return nil, err
	}
	return *items, nil
}

// Stats returns the lifecycle counts for one collection.
func (c *ContentCache) Stats(ctx context.Context, kind string) (KindStats, error) {
	stats, err := c.stats.GetOrSet(ctx, statsKey(kind), func() (*KindStats, error) {
		total, err := c.queries.CountContentItems(ctx, kind)
		if err != nil {
			return nil, err
		}

		s := KindStats{Kind: kind, Total: total}
		for _, status := range []string{model.StatusDraft, model.StatusScheduled, model.StatusPublished} {
			count, err := c.queries.CountContentItemsByStatus(ctx, store.CountContentItemsByStatusParams{
				Kind:   kind,
				Status: status,
			})
			if err != nil {
				return nil, err
			}
			switch status {
			case model.StatusDraft:
				s.Draft = count
			case model.StatusScheduled:
				s.Scheduled = count
			case model.StatusPublished:
				s.Published = count
			}
		}
		return &s, nil
	})
	if err != nil {
		return KindStats{}, err
	}
	return *stats, nil
}

// InvalidateKind drops every cached listing and the stats entry for one
// collection. Called after any write to an item of that kind.
func (c *ContentCache) InvalidateKind(ctx context.Context, kind string) error {
	if err := c.lists.cache.DeleteByPrefix(ctx, "content:list:"+kind+":"); err != nil {
		return err
	}
	return c.stats.Delete(ctx, statsKey(kind))
}

// InvalidateAll drops all cached content entries.
func (c *ContentCache) InvalidateAll(ctx context.Context) error {
	return c.lists.cache.DeleteByPrefix(ctx, "content:")
}
