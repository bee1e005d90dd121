package feed

import (
	"encoding/xml"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lapeyrade/portfolio/internal/model"
)

// SitemapEntry is one sitemap URL, optionally carrying per-locale alternates
// of the same logical page for cross-language discovery.
type SitemapEntry struct {
	URL             string
	LastModified    string
	ChangeFrequency string
	Priority        float64
	Alternates      map[string]string
}

const (
	priorityHome   = 1.0
	priorityStatic = 0.7
	priorityPost   = 0.6
)

// SitemapEntries emits one entry per (static path, locale) and one per
// (post, locale). Post alternates are resolved through translateSlug when
// provided; a slug with no known translation alternates to itself, which is
// where the locale fallback serves the untranslated copy anyway.
func SitemapEntries(postsByLocale map[string][]*model.Document, staticPaths []string, siteURL string, locales []string, translateSlug func(slug, locale string) (string, bool)) []SitemapEntry {
	siteURL = strings.TrimRight(siteURL, "/")
	now := time.Now().UTC().Format(time.RFC3339)

	var entries []SitemapEntry
	for _, path := range staticPaths {
		suffix := path
		if suffix == "/" {
			suffix = ""
		}
		alternates := make(map[string]string, len(locales))
		for _, locale := range locales {
			alternates[locale] = siteURL + "/" + locale + suffix
		}
		priority := priorityStatic
		if suffix == "" {
			priority = priorityHome
		}
		for _, locale := range locales {
			entries = append(entries, SitemapEntry{
				URL:             alternates[locale],
				LastModified:    now,
				ChangeFrequency: "weekly",
				Priority:        priority,
				Alternates:      alternates,
			})
		}
	}

	for _, locale := range locales {
		for _, post := range postsByLocale[locale] {
			lastMod := post.LastModified
			if lastMod == "" {
				lastMod = post.Date
			}
			if lastMod == "" {
				lastMod = now
			}
			alternates := make(map[string]string, len(locales))
			for _, alt := range locales {
				slug := post.Slug
				if translateSlug != nil {
					if translated, ok := translateSlug(post.Slug, alt); ok {
						slug = translated
					}
				}
				alternates[alt] = siteURL + "/" + alt + "/blog/" + slug
			}
			entries = append(entries, SitemapEntry{
				URL:             alternates[locale],
				LastModified:    lastMod,
				ChangeFrequency: "monthly",
				Priority:        priorityPost,
				Alternates:      alternates,
			})
		}
	}
	return entries
}

type sitemapURL struct {
	Loc        string         `xml:"loc"`
	LastMod    string         `xml:"lastmod,omitempty"`
	ChangeFreq string         `xml:"changefreq,omitempty"`
	Priority   string         `xml:"priority,omitempty"`
	Links      []alternateRef `xml:"xhtml:link"`
}

type alternateRef struct {
	Rel      string `xml:"rel,attr"`
	HrefLang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

type urlSet struct {
	XMLName  xml.Name     `xml:"urlset"`
	Xmlns    string       `xml:"xmlns,attr"`
	XhtmlNS  string       `xml:"xmlns:xhtml,attr"`
	Elements []sitemapURL `xml:"url"`
}

// SitemapXML renders entries as sitemap-protocol XML with xhtml alternate
// links for each locale variant.
func SitemapXML(entries []SitemapEntry) (string, error) {
	set := urlSet{
		Xmlns:   "http://www.sitemaps.org/schemas/sitemap/0.9",
		XhtmlNS: "http://www.w3.org/1999/xhtml",
	}
	for _, entry := range entries {
		element := sitemapURL{
			Loc:        entry.URL,
			LastMod:    entry.LastModified,
			ChangeFreq: entry.ChangeFrequency,
			Priority:   strconv.FormatFloat(entry.Priority, 'f', 1, 64),
		}
		locales := make([]string, 0, len(entry.Alternates))
		for locale := range entry.Alternates {
			locales = append(locales, locale)
		}
		sort.Strings(locales)
		for _, locale := range locales {
			element.Links = append(element.Links, alternateRef{
				Rel:      "alternate",
				HrefLang: locale,
				Href:     entry.Alternates[locale],
			})
		}
		set.Elements = append(set.Elements, element)
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return "", err
	}
	return xml.Header + string(out) + "\n", nil
}
