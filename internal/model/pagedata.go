package model

import "html/template"

// Site holds the site-wide values every layout can reach.
type Site struct {
	Title         string
	Description   string
	BaseURL       string
	Locale        string
	DefaultLocale string
	Locales       []string
}

// PageData is the context handed to a layout when rendering one output page.
// Only the fields relevant to the page kind are populated: Post for single
// post pages, Posts plus pagination fields for listings, Tag/Tags for tag
// pages.
type PageData struct {
	Site        Site
	Title       string
	Description string
	Content     template.HTML

	Post  *Document
	Posts []*Document

	Tag  string
	Tags []TagCount

	CurrentPage int
	TotalPages  int

	// AlternateURLs maps each locale to this page's URL in that locale.
	AlternateURLs map[string]string
}
