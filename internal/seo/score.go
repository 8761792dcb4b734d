// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo provides the content SEO score heuristic and meta tag
// building for published items.
package seo

import "strings"

// Scoring thresholds. Each check is worth BucketPoints; there is no
// partial credit for intermediate lengths.
const (
	TitleMinLen   = 50
	TitleMaxLen   = 60
	ExcerptMinLen = 140
	ExcerptMaxLen = 160
	MinBodyWords  = 300
	BucketPoints  = 25
	MaxScore      = 100
)

// WordsPerMinute is the assumed average reading speed.
const WordsPerMinute = 200

// Checks holds the four independent SEO checklist results.
type Checks struct {
	Title   bool `json:"title"`
	Excerpt bool `json:"excerpt"`
	Image   bool `json:"image"`
	Body    bool `json:"body"`
}

// Score returns the total score for the checks, the sum of four
// 25-point buckets.
func (c Checks) Score() int64 {
	var score int64
	if c.Title {
		score += BucketPoints
	}
	if c.Excerpt {
		score += BucketPoints
	}
	if c.Image {
		score += BucketPoints
	}
	if c.Body {
		score += BucketPoints
	}
	return score
}

// Evaluate runs the SEO checklist against the given fields.
// Title and excerpt are checked by character length, the image bucket
// requires both an image reference and alt text, and the body bucket
// requires at least MinBodyWords words of plain text.
func Evaluate(title, excerpt, image, imageAlt, bodyText string) Checks {
	titleLen := len(title)
	excerptLen := len(excerpt)

	return Checks{
		Title:   titleLen >= TitleMinLen && titleLen <= TitleMaxLen,
		Excerpt: excerptLen >= ExcerptMinLen && excerptLen <= ExcerptMaxLen,
		Image:   image != "" && imageAlt != "",
		Body:    WordCount(bodyText) >= MinBodyWords,
	}
}

// Score computes the total SEO score for the given fields.
func Score(title, excerpt, image, imageAlt, bodyText string) int64 {
	return Evaluate(title, excerpt, image, imageAlt, bodyText).Score()
}

// WordCount counts whitespace-separated tokens in trimmed text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ReadTime estimates reading time in minutes for the given word count,
// never less than one minute.
func ReadTime(words int) int64 {
	if words <= 0 {
		return 1
	}
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return int64(minutes)
}
