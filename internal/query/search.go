package query

import (
	"sort"
	"strings"

	"github.com/lapeyrade/portfolio/internal/model"
)

const (
	browseLimit = 10
	searchLimit = 12
)

// SearchItem is the transient projection of a page or post used for search.
// The score and the content haystack never serialize.
type SearchItem struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
	Date        string `json:"date,omitempty"`

	content string
	score   float64
}

type staticPage struct {
	path        string
	title       map[string]string
	description map[string]string
}

// The fixed static page catalog. Titles and descriptions are owned here, not
// derived from content files.
var staticPages = []staticPage{
	{
		path:        "/",
		title:       map[string]string{"en": "Home", "fr": "Accueil"},
		description: map[string]string{"en": "Portfolio home page", "fr": "Page d'accueil du portfolio"},
	},
	{
		path:        "/blog",
		title:       map[string]string{"en": "Blog", "fr": "Blog"},
		description: map[string]string{"en": "Articles and tutorials", "fr": "Articles et tutoriels"},
	},
	{
		path:        "/contact",
		title:       map[string]string{"en": "Contact", "fr": "Contact"},
		description: map[string]string{"en": "Get in touch", "fr": "Entrer en contact"},
	},
	{
		path:        "/terms",
		title:       map[string]string{"en": "Terms", "fr": "Conditions"},
		description: map[string]string{"en": "Terms and Conditions", "fr": "Conditions générales d'utilisation"},
	},
	{
		path:        "/privacy",
		title:       map[string]string{"en": "Privacy", "fr": "Confidentialité"},
		description: map[string]string{"en": "Privacy Policy", "fr": "Politique de confidentialité"},
	},
}

// StaticPaths lists the catalog's paths, home first. The sitemap reuses it.
func StaticPaths() []string {
	paths := make([]string, len(staticPages))
	for i, page := range staticPages {
		paths[i] = page.path
	}
	return paths
}

func localized(values map[string]string, locale string) string {
	if v, ok := values[locale]; ok {
		return v
	}
	return values["en"]
}

// StaticPageItems projects the catalog into search items for a locale, URLs
// carrying the locale prefix.
func StaticPageItems(locale string) []SearchItem {
	items := make([]SearchItem, 0, len(staticPages))
	for _, page := range staticPages {
		url := "/" + locale
		if page.path != "/" {
			url += page.path
		}
		items = append(items, SearchItem{
			URL:         url,
			Title:       localized(page.title, locale),
			Description: localized(page.description, locale),
			Type:        "page",
		})
	}
	return items
}

func postItems(posts []*model.Document, locale string) []SearchItem {
	items := make([]SearchItem, 0, len(posts))
	for _, post := range posts {
		items = append(items, SearchItem{
			URL:         "/" + locale + "/blog/" + post.Slug,
			Title:       post.Title,
			Description: post.Description,
			Type:        "blog",
			Date:        post.Date,
			content:     post.Content,
		})
	}
	return items
}

func scoreItem(item SearchItem, q string) float64 {
	title := strings.ToLower(item.Title)
	desc := strings.ToLower(item.Description)
	body := strings.ToLower(item.content)

	var score float64
	if strings.Contains(title, q) {
		score += 6
	}
	if strings.HasPrefix(title, q) {
		score += 2
	}
	if strings.Contains(desc, q) {
		score += 3
	}
	if strings.Contains(body, q) {
		score++
	}
	// The recency nudge only tips the ranking of posts that already match.
	if score > 0 && item.Type == "blog" && item.Date != "" {
		score += 0.5
	}
	return score
}

// Search merges the static page catalog with the locale's posts. An empty
// query is browse mode: the unscored pages-then-posts listing, truncated.
// A non-empty query keeps only items with a positive relevance score, ordered
// by score descending with insertion order preserved on ties.
func (e *Engine) Search(q, locale string) []SearchItem {
	items := append(StaticPageItems(locale), postItems(e.index.GetAllPosts(locale), locale)...)

	query := strings.ToLower(strings.TrimSpace(q))
	if query == "" {
		if len(items) > browseLimit {
			items = items[:browseLimit]
		}
		return items
	}

	var matched []SearchItem
	for _, item := range items {
		score := scoreItem(item, query)
		if score <= 0 {
			continue
		}
		item.score = score
		matched = append(matched, item)
	}
	sort.SliceStable(matched, func(a, b int) bool {
		return matched[a].score > matched[b].score
	})
	if len(matched) > searchLimit {
		matched = matched[:searchLimit]
	}
	return matched
}
