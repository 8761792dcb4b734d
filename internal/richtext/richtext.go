// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package richtext converts and sanitizes content item bodies. Bodies
// are authored as Markdown, rendered to HTML for the public site, and
// reduced to plain text for word counts and meta descriptions.
package richtext

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// htmlSanitizer strips dangerous elements like <script> and event
// handlers while keeping the safe tags allowed for user content.
var htmlSanitizer = bluemonday.UGCPolicy()

// textOnly strips every tag.
var textOnly = bluemonday.StrictPolicy()

// Render converts Markdown to sanitized HTML.
func Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}

// Sanitize cleans untrusted HTML without Markdown conversion.
func Sanitize(html string) string {
	return htmlSanitizer.Sanitize(html)
}

// PlainText reduces a body to whitespace-normalized plain text.
// Markdown punctuation survives; only HTML markup is removed.
func PlainText(body string) string {
	stripped := textOnly.Sanitize(body)
	return strings.Join(strings.Fields(stripped), " ")
}
