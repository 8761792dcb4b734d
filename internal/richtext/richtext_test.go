// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package richtext

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	html, err := Render("# Heading\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(html, "<h1") {
		t.Errorf("rendered HTML missing heading: %q", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("rendered HTML missing bold text: %q", html)
	}
}

func TestRenderStripsScripts(t *testing.T) {
	html, err := Render("hello <script>alert(1)</script> world")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(html, "<script") {
		t.Errorf("rendered HTML contains script tag: %q", html)
	}
	if !strings.Contains(html, "hello") || !strings.Contains(html, "world") {
		t.Errorf("rendered HTML lost surrounding text: %q", html)
	}
}

func TestSanitize(t *testing.T) {
	got := Sanitize(`<p onclick="evil()">ok</p><script>bad()</script>`)
	if strings.Contains(got, "onclick") || strings.Contains(got, "script") {
		t.Errorf("Sanitize left dangerous markup: %q", got)
	}
	if !strings.Contains(got, "ok") {
		t.Errorf("Sanitize dropped safe content: %q", got)
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<p>Hello <strong>World</strong></p>", "Hello World"},
		{"plain already", "plain already"},
		{"<div>a</div>\n\n<div>b</div>", "a b"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := PlainText(tt.input); got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
