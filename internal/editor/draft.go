// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package editor

import (
	"fmt"

	"contentdesk/internal/model"
	"contentdesk/internal/richtext"
	"contentdesk/internal/seo"
	"contentdesk/internal/util"
)

// MinPublishWords is the minimum body word count for publishing.
const MinPublishWords = 100

// applyDerived recomputes the fields that follow from the authored
// content: slug, read time, and the SEO score. Called on every save so
// stored items never carry stale derived values.
func applyDerived(item *model.ContentItem) {
	if item.Slug == "" && item.Title != "" {
		item.Slug = util.Slugify(item.Title)
	}

	plain := richtext.PlainText(item.Body)
	words := seo.WordCount(plain)
	item.ReadTime = seo.ReadTime(words)
	item.SEOScore = seo.Score(item.Title, item.Excerpt, item.Image, item.ImageAlt, plain)
}

// validateDraft checks the invariants that hold for every save,
// regardless of lifecycle state.
func validateDraft(item *model.ContentItem) error {
	if !model.IsValidKind(item.Kind) {
		return &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown content kind %q", item.Kind)}
	}
	if item.Status != "" && !model.IsValidStatus(item.Status) {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", item.Status)}
	}
	if item.Slug != "" && !util.IsValidSlug(item.Slug) {
		return &ValidationError{Field: "slug", Message: "slug may only contain lowercase letters, digits and single hyphens"}
	}
	return nil
}

// validatePublishable checks the stricter rules for making an item public.
func validatePublishable(item *model.ContentItem) error {
	if item.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required to publish"}
	}
	if item.Excerpt == "" {
		return &ValidationError{Field: "excerpt", Message: "excerpt is required to publish"}
	}
	words := seo.WordCount(richtext.PlainText(item.Body))
	if words < MinPublishWords {
		return &ValidationError{
			Field:   "body",
			Message: fmt.Sprintf("body has %d words, at least %d are required to publish", words, MinPublishWords),
		}
	}
	return nil
}
