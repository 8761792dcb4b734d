// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"contentdesk/internal/model"
)

func testSite() *SiteConfig {
	return &SiteConfig{
		SiteName:        "ContentDesk",
		SiteURL:         "https://example.com",
		SiteDescription: "A marketing site",
		DefaultOGImage:  "/images/og-default.jpg",
		TwitterHandle:   "@contentdesk",
	}
}

func TestBuildMetaHomepage(t *testing.T) {
	meta := BuildMeta(nil, testSite())

	if meta.Title != "ContentDesk" {
		t.Errorf("Title = %q, want %q", meta.Title, "ContentDesk")
	}
	if meta.Description != "A marketing site" {
		t.Errorf("Description = %q, want %q", meta.Description, "A marketing site")
	}
	if meta.OGType != "website" {
		t.Errorf("OGType = %q, want %q", meta.OGType, "website")
	}
	if meta.Canonical != "https://example.com" {
		t.Errorf("Canonical = %q, want %q", meta.Canonical, "https://example.com")
	}
	if meta.Robots != "index,follow" {
		t.Errorf("Robots = %q, want %q", meta.Robots, "index,follow")
	}
	if meta.OGImage != "https://example.com/images/og-default.jpg" {
		t.Errorf("OGImage = %q, want %q", meta.OGImage, "https://example.com/images/og-default.jpg")
	}
	if meta.TwitterSite != "@contentdesk" {
		t.Errorf("TwitterSite = %q, want %q", meta.TwitterSite, "@contentdesk")
	}
}

func TestBuildMetaItem(t *testing.T) {
	item := &model.ContentItem{
		Kind:            model.KindBlog,
		Title:           "A Post",
		Slug:            "a-post",
		MetaTitle:       "A Post That Ranks",
		MetaDescription: "The meta description",
		FocusKeyword:    "marketing",
		Tags:            []string{"seo", "content"},
		Image:           "/uploads/cover.jpg",
		Status:          model.StatusPublished,
	}

	meta := BuildMeta(item, testSite())

	if meta.Title != "A Post That Ranks" {
		t.Errorf("Title = %q, want %q", meta.Title, "A Post That Ranks")
	}
	if meta.Description != "The meta description" {
		t.Errorf("Description = %q, want %q", meta.Description, "The meta description")
	}
	if meta.Keywords != "marketing, seo, content" {
		t.Errorf("Keywords = %q, want %q", meta.Keywords, "marketing, seo, content")
	}
	if meta.OGType != "article" {
		t.Errorf("OGType = %q, want %q", meta.OGType, "article")
	}
	if meta.Canonical != "https://example.com/blog/a-post" {
		t.Errorf("Canonical = %q, want %q", meta.Canonical, "https://example.com/blog/a-post")
	}
	if meta.OGImage != "https://example.com/uploads/cover.jpg" {
		t.Errorf("OGImage = %q, want %q", meta.OGImage, "https://example.com/uploads/cover.jpg")
	}
	if meta.Robots != "index,follow" {
		t.Errorf("Robots = %q, want %q", meta.Robots, "index,follow")
	}
}

func TestBuildMetaNewsCanonical(t *testing.T) {
	item := &model.ContentItem{
		Kind:   model.KindNews,
		Title:  "Company News",
		Slug:   "company-news",
		Status: model.StatusPublished,
	}

	meta := BuildMeta(item, testSite())

	if meta.Canonical != "https://example.com/news/company-news" {
		t.Errorf("Canonical = %q, want %q", meta.Canonical, "https://example.com/news/company-news")
	}
}

func TestBuildMetaFallbacks(t *testing.T) {
	item := &model.ContentItem{
		Kind:   model.KindBlog,
		Title:  "Plain Title",
		Slug:   "plain",
		Body:   "<p>Body text with <strong>markup</strong> inside.</p>",
		Status: model.StatusDraft,
	}

	meta := BuildMeta(item, testSite())

	if meta.Title != "Plain Title" {
		t.Errorf("Title = %q, want %q", meta.Title, "Plain Title")
	}
	if strings.Contains(meta.Description, "<") {
		t.Errorf("Description should not contain HTML: %q", meta.Description)
	}
	if !strings.Contains(meta.Description, "Body text with markup") {
		t.Errorf("Description should contain stripped body text: %q", meta.Description)
	}
	// Drafts must not be indexed
	if meta.Robots != "noindex,nofollow" {
		t.Errorf("Robots = %q, want %q", meta.Robots, "noindex,nofollow")
	}
	// Falls back to the site default image
	if meta.OGImage != "https://example.com/images/og-default.jpg" {
		t.Errorf("OGImage = %q, want %q", meta.OGImage, "https://example.com/images/og-default.jpg")
	}
}

func TestBuildMetaExcerptBeforeBody(t *testing.T) {
	item := &model.ContentItem{
		Kind:    model.KindBlog,
		Title:   "T",
		Slug:    "t",
		Excerpt: "Short excerpt",
		Body:    "<p>Long body</p>",
		Status:  model.StatusPublished,
	}

	meta := BuildMeta(item, testSite())

	if meta.Description != "Short excerpt" {
		t.Errorf("Description = %q, want %q", meta.Description, "Short excerpt")
	}
}

func TestBuildArticleSchema(t *testing.T) {
	publishAt := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	item := &model.ContentItem{
		Kind:            model.KindBlog,
		Title:           "Test Article",
		Slug:            "test-article",
		MetaDescription: "Article description",
		Image:           "/images/article.jpg",
		Author:          "Jane Doe",
		Status:          model.StatusPublished,
		PublishAt:       sql.NullTime{Time: publishAt, Valid: true},
		UpdatedAt:       time.Date(2026, 1, 20, 14, 30, 0, 0, time.UTC),
	}

	schema := string(BuildArticleSchema(item, testSite()))

	if schema == "" {
		t.Fatal("BuildArticleSchema() returned empty")
	}
	if !strings.Contains(schema, `"@type": "Article"`) {
		t.Error("Schema should contain @type Article")
	}
	if !strings.Contains(schema, `"headline": "Test Article"`) {
		t.Error("Schema should contain headline")
	}
	if !strings.Contains(schema, "2026-01-15") {
		t.Error("Schema should contain published date")
	}
	if !strings.Contains(schema, "2026-01-20") {
		t.Error("Schema should contain modified date")
	}
	if !strings.Contains(schema, `"name": "Jane Doe"`) {
		t.Error("Schema should contain author name")
	}
}

func TestBuildArticleSchemaNilItem(t *testing.T) {
	if schema := BuildArticleSchema(nil, testSite()); schema != "" {
		t.Errorf("BuildArticleSchema(nil, ...) = %q, want empty", schema)
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<p>Hello World</p>", "Hello World"},
		{"<div><p>Hello <strong>World</strong></p></div>", "Hello World"},
		{"", ""},
		{"Plain text", "Plain text"},
	}

	for _, tt := range tests {
		if got := stripHTML(tt.input); got != tt.want {
			t.Errorf("stripHTML(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		text   string
		maxLen int
		want   string
	}{
		{"Hello", 100, "Hello"},
		{"Hello", 5, "Hello"},
		{"Hello World and more text here", 15, "Hello World..."},
		{"  Hello World  ", 100, "Hello World"},
	}

	for _, tt := range tests {
		if got := truncateText(tt.text, tt.maxLen); got != tt.want {
			t.Errorf("truncateText(%q, %d) = %q, want %q", tt.text, tt.maxLen, got, tt.want)
		}
	}
}

func TestMakeAbsoluteURL(t *testing.T) {
	tests := []struct {
		url, siteURL, want string
	}{
		{"/images/test.jpg", "https://example.com", "https://example.com/images/test.jpg"},
		{"images/test.jpg", "https://example.com", "https://example.com/images/test.jpg"},
		{"https://cdn.com/image.jpg", "https://example.com", "https://cdn.com/image.jpg"},
		{"", "https://example.com", ""},
		{"/image.jpg", "https://example.com/", "https://example.com/image.jpg"},
	}

	for _, tt := range tests {
		if got := makeAbsoluteURL(tt.url, tt.siteURL); got != tt.want {
			t.Errorf("makeAbsoluteURL(%q, %q) = %q, want %q", tt.url, tt.siteURL, got, tt.want)
		}
	}
}
