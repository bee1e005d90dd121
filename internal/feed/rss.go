// Package feed renders the post index into syndication formats: RSS 2.0,
// JSON Feed 1.1 and an XML sitemap. Every transform is deterministic and
// total; a post with missing optional fields still yields valid output.
package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/lapeyrade/portfolio/internal/model"
)

// Site carries the channel-level feed metadata.
type Site struct {
	Title       string
	Description string
	URL         string
	Language    string
}

const (
	excerptLength = 280
	rfc2822       = "Mon, 02 Jan 2006 15:04:05 GMT"
)

// escapeCDATA splits any literal "]]>" so it cannot terminate the enclosing
// CDATA section early.
func escapeCDATA(text string) string {
	return strings.ReplaceAll(text, "]]>", "]]]]><![CDATA[>")
}

// excerpt returns the post's description, or the first characters of its
// content when no explicit description exists.
func excerpt(post *model.Document) string {
	if post.Description != "" {
		return post.Description
	}
	runes := []rune(post.Content)
	if len(runes) > excerptLength {
		runes = runes[:excerptLength]
	}
	return string(runes)
}

func rfc2822Date(value string) string {
	t, err := dateparse.ParseAny(value)
	if err != nil {
		return value
	}
	return t.UTC().Format(rfc2822)
}

func isoDate(value string) string {
	t, err := dateparse.ParseAny(value)
	if err != nil {
		return value
	}
	return t.UTC().Format(time.RFC3339)
}

// RSS renders the posts as an RSS 2.0 document. Links and guids are absolute
// URLs under the site's base URL.
func RSS(posts []*model.Document, site Site) string {
	var items strings.Builder
	for _, post := range posts {
		url := site.URL + "/blog/" + post.Slug
		fmt.Fprintf(&items, `
    <item>
      <title><![CDATA[%s]]></title>
      <link>%s</link>
      <guid isPermaLink="true">%s</guid>
      <description><![CDATA[%s]]></description>
      <pubDate>%s</pubDate>
    </item>`,
			escapeCDATA(post.Title), url, url, escapeCDATA(excerpt(post)), rfc2822Date(post.Date))
	}

	language := site.Language
	if language == "" {
		language = "en-us"
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title><![CDATA[%s]]></title>
    <link>%s</link>
    <description><![CDATA[%s]]></description>
    <language>%s</language>%s
  </channel>
</rss>
`, escapeCDATA(site.Title), site.URL, escapeCDATA(site.Description), language, items.String())
}
