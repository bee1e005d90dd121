package feed

import (
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/lapeyrade/portfolio/internal/model"
)

var testSite = Site{
	Title:       "Portfolio Blog",
	Description: "Articles from the Portfolio blog",
	URL:         "https://example.com",
	Language:    "en-us",
}

type rssDoc struct {
	Channel struct {
		Title       string `xml:"title"`
		Link        string `xml:"link"`
		Description string `xml:"description"`
		Items       []struct {
			Title       string `xml:"title"`
			Link        string `xml:"link"`
			GUID        string `xml:"guid"`
			Description string `xml:"description"`
			PubDate     string `xml:"pubDate"`
		} `xml:"item"`
	} `xml:"channel"`
}

func TestRSSCDATAEscaping(t *testing.T) {
	posts := []*model.Document{{
		Slug:        "tricky",
		Title:       "Closing ]]> a CDATA section",
		Description: "contains ]]> inside",
		Date:        "2024-03-05",
	}}

	out := RSS(posts, testSite)

	var doc rssDoc
	if err := xml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("rss output is not well-formed XML: %v", err)
	}
	if len(doc.Channel.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(doc.Channel.Items))
	}
	item := doc.Channel.Items[0]
	if item.Title != "Closing ]]> a CDATA section" {
		t.Errorf("title round-trip = %q", item.Title)
	}
	if item.Description != "contains ]]> inside" {
		t.Errorf("description round-trip = %q", item.Description)
	}
	if item.Link != "https://example.com/blog/tricky" || item.GUID != item.Link {
		t.Errorf("link = %q guid = %q", item.Link, item.GUID)
	}
}

func TestRSSExcerptAndPubDate(t *testing.T) {
	long := strings.Repeat("x", 500)
	posts := []*model.Document{{
		Slug:    "nodesc",
		Title:   "No Description",
		Content: long,
		Date:    "2024-03-05",
	}}

	var doc rssDoc
	if err := xml.Unmarshal([]byte(RSS(posts, testSite)), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	item := doc.Channel.Items[0]
	if len(item.Description) != excerptLength {
		t.Errorf("excerpt length = %d, want %d", len(item.Description), excerptLength)
	}
	parsed, err := time.Parse(rfc2822, item.PubDate)
	if err != nil {
		t.Fatalf("pubDate %q not RFC-2822-style: %v", item.PubDate, err)
	}
	if parsed.Year() != 2024 || parsed.Month() != time.March || parsed.Day() != 5 {
		t.Errorf("pubDate = %q, want 2024-03-05", item.PubDate)
	}
}

func TestRSSEmptyIndex(t *testing.T) {
	var doc rssDoc
	if err := xml.Unmarshal([]byte(RSS(nil, testSite)), &doc); err != nil {
		t.Fatalf("empty feed is not well-formed: %v", err)
	}
	if len(doc.Channel.Items) != 0 {
		t.Errorf("got %d items, want 0", len(doc.Channel.Items))
	}
	if doc.Channel.Title != testSite.Title {
		t.Errorf("channel title = %q", doc.Channel.Title)
	}
}

func TestJSONFeedShape(t *testing.T) {
	posts := []*model.Document{
		{Slug: "with-author", Title: "A", Description: "desc", Author: "Jane", Date: "2024-03-05", Tags: []string{"go"}},
		{Slug: "no-author", Title: "B", Content: "full body", Date: "2024-04-01"},
	}

	raw, err := json.Marshal(NewJSONFeed(posts, testSite))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["version"] != "https://jsonfeed.org/version/1.1" {
		t.Errorf("version = %v", decoded["version"])
	}

	items := decoded["items"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	first := items[0].(map[string]interface{})
	if _, ok := first["authors"]; !ok {
		t.Error("post with an author should carry authors")
	}
	if first["id"] != "https://example.com/blog/with-author" {
		t.Errorf("id = %v", first["id"])
	}
	if _, err := time.Parse(time.RFC3339, first["date_published"].(string)); err != nil {
		t.Errorf("date_published = %v: %v", first["date_published"], err)
	}

	second := items[1].(map[string]interface{})
	if _, ok := second["authors"]; ok {
		t.Error("post without an author must omit authors")
	}
	if second["content_text"] != "full body" {
		t.Errorf("content_text = %v, want content fallback", second["content_text"])
	}
}

func TestJSONFeedEmptyIndex(t *testing.T) {
	raw, err := json.Marshal(NewJSONFeed(nil, testSite))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"items":[]`) {
		t.Errorf("empty feed should serialize items as [], got %s", raw)
	}
}

func TestSitemapEntries(t *testing.T) {
	locales := []string{"en", "fr"}
	staticPaths := []string{"/", "/blog", "/contact", "/terms", "/privacy"}
	postsByLocale := map[string][]*model.Document{
		"en": {{Slug: "hello", Date: "2024-01-01", LastModified: "2024-02-01T00:00:00Z"}},
		"fr": {{Slug: "bonjour", Date: "2024-01-01"}},
	}
	translate := func(slug, locale string) (string, bool) {
		table := map[string]map[string]string{
			"hello":   {"en": "hello", "fr": "bonjour"},
			"bonjour": {"en": "hello", "fr": "bonjour"},
		}
		if m, ok := table[slug]; ok {
			return m[locale], true
		}
		return "", false
	}

	entries := SitemapEntries(postsByLocale, staticPaths, "https://example.com/", locales, translate)

	// 5 static paths x 2 locales + 2 posts.
	if len(entries) != 12 {
		t.Fatalf("got %d entries, want 12", len(entries))
	}

	byURL := make(map[string]SitemapEntry, len(entries))
	for _, e := range entries {
		byURL[e.URL] = e
	}

	home := byURL["https://example.com/en"]
	if home.Priority != 1.0 || home.ChangeFrequency != "weekly" {
		t.Errorf("home entry = %+v", home)
	}
	if home.Alternates["fr"] != "https://example.com/fr" {
		t.Errorf("home alternates = %v", home.Alternates)
	}

	contact := byURL["https://example.com/fr/contact"]
	if contact.Priority != 0.7 {
		t.Errorf("static priority = %v, want 0.7", contact.Priority)
	}

	post := byURL["https://example.com/en/blog/hello"]
	if post.Priority != 0.6 || post.ChangeFrequency != "monthly" {
		t.Errorf("post entry = %+v", post)
	}
	if post.LastModified != "2024-02-01T00:00:00Z" {
		t.Errorf("post lastModified = %q", post.LastModified)
	}
	if post.Alternates["fr"] != "https://example.com/fr/blog/bonjour" {
		t.Errorf("post alternates = %v, want translated slug", post.Alternates)
	}
}

func TestSitemapXMLWellFormed(t *testing.T) {
	entries := []SitemapEntry{
		{
			URL:             "https://example.com/en",
			LastModified:    "2024-01-01T00:00:00Z",
			ChangeFrequency: "weekly",
			Priority:        1.0,
			Alternates: map[string]string{
				"en": "https://example.com/en",
				"fr": "https://example.com/fr",
			},
		},
	}
	out, err := SitemapXML(entries)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var parsed struct {
		URLs []struct {
			Loc      string `xml:"loc"`
			Priority string `xml:"priority"`
			Links    []struct {
				Rel      string `xml:"rel,attr"`
				HrefLang string `xml:"hreflang,attr"`
				Href     string `xml:"href,attr"`
			} `xml:"link"`
		} `xml:"url"`
	}
	if err := xml.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("sitemap is not well-formed XML: %v", err)
	}
	if len(parsed.URLs) != 1 || parsed.URLs[0].Loc != "https://example.com/en" {
		t.Fatalf("parsed = %+v", parsed)
	}
	if parsed.URLs[0].Priority != "1.0" {
		t.Errorf("priority = %q, want 1.0", parsed.URLs[0].Priority)
	}
	if len(parsed.URLs[0].Links) != 2 || parsed.URLs[0].Links[0].HrefLang != "en" {
		t.Errorf("alternate links = %+v", parsed.URLs[0].Links)
	}
}

func TestSitemapXMLEmpty(t *testing.T) {
	out, err := SitemapXML(nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var parsed struct {
		XMLName xml.Name `xml:"urlset"`
	}
	if err := xml.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("empty sitemap is not well-formed: %v", err)
	}
}
