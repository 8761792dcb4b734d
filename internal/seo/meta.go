// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/json"
	"html/template"
	"strings"
	"time"

	"contentdesk/internal/model"
)

// Meta holds all SEO meta tag data for a content item page.
type Meta struct {
	Title         string // Page title (for <title> tag)
	Description   string // Meta description
	Keywords      string // Meta keywords
	Canonical     string // Canonical URL
	OGTitle       string // Open Graph title
	OGDescription string // Open Graph description
	OGImage       string // Open Graph image URL (absolute)
	OGType        string // Open Graph type (website, article)
	OGSiteName    string // Open Graph site name
	OGURL         string // Open Graph URL
	Robots        string // Robots directive (index,follow / noindex,nofollow)
	TwitterCard   string // Twitter card type
	TwitterSite   string // Twitter @username
}

// SiteConfig contains site-wide settings for SEO.
type SiteConfig struct {
	SiteName        string
	SiteURL         string
	SiteDescription string
	DefaultOGImage  string
	TwitterHandle   string
}

// SectionPath maps a content kind to its public URL section.
func SectionPath(kind string) string {
	switch kind {
	case model.KindNews:
		return "news"
	default:
		return "blog"
	}
}

// BuildMeta creates a Meta struct from item and site data with proper fallbacks.
// A nil item yields homepage defaults.
func BuildMeta(item *model.ContentItem, site *SiteConfig) *Meta {
	meta := &Meta{
		OGType:      "website",
		TwitterCard: "summary_large_image",
		OGSiteName:  site.SiteName,
		TwitterSite: site.TwitterHandle,
	}

	if item == nil {
		// Homepage defaults
		meta.Title = site.SiteName
		meta.OGTitle = site.SiteName
		meta.Description = site.SiteDescription
		meta.OGDescription = site.SiteDescription
		meta.Canonical = site.SiteURL
		meta.OGURL = site.SiteURL
		meta.Robots = "index,follow"

		if site.DefaultOGImage != "" {
			meta.OGImage = makeAbsoluteURL(site.DefaultOGImage, site.SiteURL)
		}
		return meta
	}

	meta.OGType = "article"

	// Title: meta_title → item title
	if item.MetaTitle != "" {
		meta.Title = item.MetaTitle
		meta.OGTitle = item.MetaTitle
	} else if item.Title != "" {
		meta.Title = item.Title
		meta.OGTitle = item.Title
	}

	// Description: meta_description → excerpt → truncated body
	switch {
	case item.MetaDescription != "":
		meta.Description = item.MetaDescription
	case item.Excerpt != "":
		meta.Description = item.Excerpt
	case item.Body != "":
		meta.Description = truncateText(stripHTML(item.Body), ExcerptMaxLen)
	}
	meta.OGDescription = meta.Description

	// Keywords come from the focus keyword plus tags.
	keywords := make([]string, 0, len(item.Tags)+1)
	if item.FocusKeyword != "" {
		keywords = append(keywords, item.FocusKeyword)
	}
	keywords = append(keywords, item.Tags...)
	meta.Keywords = strings.Join(keywords, ", ")

	// OG Image: item image → site default
	if item.Image != "" {
		meta.OGImage = makeAbsoluteURL(item.Image, site.SiteURL)
	} else if site.DefaultOGImage != "" {
		meta.OGImage = makeAbsoluteURL(site.DefaultOGImage, site.SiteURL)
	}

	// Canonical URL from the kind section and slug
	if item.Slug != "" {
		meta.Canonical = site.SiteURL + "/" + SectionPath(item.Kind) + "/" + item.Slug
	}
	meta.OGURL = meta.Canonical

	// Unpublished items must not be indexed.
	if item.IsPublished() {
		meta.Robots = "index,follow"
	} else {
		meta.Robots = "noindex,nofollow"
	}

	return meta
}

// ArticleSchema represents JSON-LD Article structured data.
type ArticleSchema struct {
	Context          string        `json:"@context"`
	Type             string        `json:"@type"`
	Headline         string        `json:"headline"`
	Description      string        `json:"description,omitempty"`
	Image            string        `json:"image,omitempty"`
	DatePublished    string        `json:"datePublished,omitempty"`
	DateModified     string        `json:"dateModified,omitempty"`
	Author           *PersonSchema `json:"author,omitempty"`
	Publisher        *OrgSchema    `json:"publisher,omitempty"`
	MainEntityOfPage string        `json:"mainEntityOfPage,omitempty"`
}

// PersonSchema represents JSON-LD Person structured data.
type PersonSchema struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// OrgSchema represents JSON-LD Organization structured data.
type OrgSchema struct {
	Type string       `json:"@type"`
	Name string       `json:"name"`
	Logo *ImageSchema `json:"logo,omitempty"`
}

// ImageSchema represents JSON-LD ImageObject structured data.
type ImageSchema struct {
	Type string `json:"@type"`
	URL  string `json:"url"`
}

// BuildArticleSchema creates JSON-LD Article structured data for a content item.
func BuildArticleSchema(item *model.ContentItem, site *SiteConfig) template.JS {
	if item == nil {
		return ""
	}

	article := ArticleSchema{
		Context:          "https://schema.org",
		Type:             "Article",
		Headline:         item.Title,
		Description:      item.MetaDescription,
		MainEntityOfPage: site.SiteURL + "/" + SectionPath(item.Kind) + "/" + item.Slug,
	}

	if item.Image != "" {
		article.Image = makeAbsoluteURL(item.Image, site.SiteURL)
	}

	if item.PublishAt.Valid {
		article.DatePublished = item.PublishAt.Time.Format(time.RFC3339)
	}
	if !item.UpdatedAt.IsZero() {
		article.DateModified = item.UpdatedAt.Format(time.RFC3339)
	}

	if item.Author != "" {
		article.Author = &PersonSchema{
			Type: "Person",
			Name: item.Author,
		}
	}

	article.Publisher = &OrgSchema{
		Type: "Organization",
		Name: site.SiteName,
	}
	if site.DefaultOGImage != "" {
		article.Publisher.Logo = &ImageSchema{
			Type: "ImageObject",
			URL:  makeAbsoluteURL(site.DefaultOGImage, site.SiteURL),
		}
	}

	return marshalJSONLD(article)
}

// marshalJSONLD marshals structured data to JSON-LD script tag content.
func marshalJSONLD(v any) template.JS {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return template.JS(data)
}

// Helper functions

// stripHTML removes HTML tags from a string.
func stripHTML(html string) string {
	var result strings.Builder
	inTag := false
	for _, r := range html {
		if r == '<' {
			inTag = true
			continue
		}
		if r == '>' {
			inTag = false
			result.WriteRune(' ') // Replace tags with space
			continue
		}
		if !inTag {
			result.WriteRune(r)
		}
	}
	// Collapse whitespace
	return strings.Join(strings.Fields(result.String()), " ")
}

// truncateText truncates text to maxLen characters at word boundary.
func truncateText(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if len(text) <= maxLen {
		return text
	}

	truncated := text[:maxLen]
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > maxLen/2 {
		truncated = truncated[:lastSpace]
	}

	return strings.TrimSpace(truncated) + "..."
}

// makeAbsoluteURL ensures a URL is absolute by prepending site URL if needed.
func makeAbsoluteURL(url, siteURL string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	siteURL = strings.TrimSuffix(siteURL, "/")
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return siteURL + url
}
