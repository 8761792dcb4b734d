// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application including ContentItem, User, Event, and configuration
// structures.
package model

import (
	"database/sql"
	"time"
)

// Content kinds. Each kind maps to one logical collection: blog posts
// and news articles share a single schema.
const (
	KindBlog = "blog"
	KindNews = "news"
)

// ValidKinds contains all valid content kinds.
var ValidKinds = []string{KindBlog, KindNews}

// IsValidKind reports whether kind names a known collection.
func IsValidKind(kind string) bool {
	return kind == KindBlog || kind == KindNews
}

// Content item statuses.
const (
	StatusDraft     = "draft"
	StatusScheduled = "scheduled"
	StatusPublished = "published"
)

// ValidStatuses contains all valid content statuses.
var ValidStatuses = []string{StatusDraft, StatusScheduled, StatusPublished}

// IsValidStatus reports whether status is one of the closed status set.
func IsValidStatus(status string) bool {
	return status == StatusDraft || status == StatusScheduled || status == StatusPublished
}

// ContentItem represents one blog post or news article document.
// The ID is an opaque identifier assigned by the store on first
// persistence; an unsaved item has an empty ID.
type ContentItem struct {
	ID              string       `json:"id"`
	Kind            string       `json:"kind"`
	Title           string       `json:"title"`
	Slug            string       `json:"slug"`
	Category        string       `json:"category"`
	Difficulty      string       `json:"difficulty,omitempty"`
	Author          string       `json:"author"`
	ReadTime        int64        `json:"read_time"`
	Excerpt         string       `json:"excerpt"`
	Body            string       `json:"body"`
	Image           string       `json:"image,omitempty"`
	ImageAlt        string       `json:"image_alt,omitempty"`
	Tags            []string     `json:"tags"`
	MetaTitle       string       `json:"meta_title,omitempty"`
	MetaDescription string       `json:"meta_description,omitempty"`
	FocusKeyword    string       `json:"focus_keyword,omitempty"`
	SEOScore        int64        `json:"seo_score"`
	Status          string       `json:"status"`
	PublishAt       sql.NullTime `json:"publish_at,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// IsPublished returns true if the item is published.
func (c *ContentItem) IsPublished() bool {
	return c.Status == StatusPublished
}

// IsDraft returns true if the item is a draft.
func (c *ContentItem) IsDraft() bool {
	return c.Status == StatusDraft
}

// IsScheduled returns true if the item is scheduled for publishing.
// Invariant: a scheduled item always carries a publish instant; the
// instant is stored verbatim and may be in the past.
func (c *ContentItem) IsScheduled() bool {
	return c.Status == StatusScheduled
}

// IsPersisted returns true once the store has assigned an identifier.
func (c *ContentItem) IsPersisted() bool {
	return c.ID != ""
}

// BlogCategories are the selectable categories for blog posts.
var BlogCategories = []string{
	"tutorials", "case-studies", "tools", "analytics",
	"social", "email", "seo", "leads",
}

// NewsCategories are the selectable categories for news articles.
var NewsCategories = []string{
	"ai-tools", "marketing-tech", "platform-updates",
	"industry", "research", "automation",
}

// CategoriesForKind returns the category set for a content kind.
func CategoriesForKind(kind string) []string {
	if kind == KindNews {
		return NewsCategories
	}
	return BlogCategories
}
