// Package query turns the raw per-locale post list into paginated, tagged and
// searchable views. Everything here is a pure function over already-loaded
// data; nothing touches the file system.
package query

import (
	"sort"
	"strings"

	"github.com/lapeyrade/portfolio/internal/index"
	"github.com/lapeyrade/portfolio/internal/model"
)

// Engine binds the query operations to a post index and the static page
// catalog so callers pass only a locale.
type Engine struct {
	index *index.Index
}

func NewEngine(idx *index.Index) *Engine {
	return &Engine{index: idx}
}

// Paginated is one page of a post listing.
type Paginated struct {
	Posts       []*model.Document
	CurrentPage int
	TotalPages  int
	TotalItems  int
	PageSize    int
}

// Paginate slices posts into one page. Out-of-range page numbers are clamped
// into [1, totalPages] instead of failing, so page-based routes never 500 on
// a bad page number.
func Paginate(posts []*model.Document, page, pageSize int) Paginated {
	if pageSize < 1 {
		pageSize = 1
	}
	totalItems := len(posts)
	totalPages := (totalItems + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	currentPage := page
	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > totalPages {
		currentPage = totalPages
	}
	start := (currentPage - 1) * pageSize
	end := start + pageSize
	if start > totalItems {
		start = totalItems
	}
	if end > totalItems {
		end = totalItems
	}
	return Paginated{
		Posts:       posts[start:end],
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		PageSize:    pageSize,
	}
}

// PostsByTag filters to posts carrying the tag, matched case-insensitively
// after trimming. No partial or fuzzy matching.
func (e *Engine) PostsByTag(tag, locale string) []*model.Document {
	return FilterByTag(e.index.GetAllPosts(locale), tag)
}

func FilterByTag(posts []*model.Document, tag string) []*model.Document {
	normalized := strings.ToLower(strings.TrimSpace(tag))
	var out []*model.Document
	for _, post := range posts {
		for _, t := range post.Tags {
			if strings.ToLower(strings.TrimSpace(t)) == normalized {
				out = append(out, post)
				break
			}
		}
	}
	return out
}

// AllTags aggregates tag frequency across the locale's posts, ordered by
// count descending then tag ascending. That ordering drives the tag cloud.
func (e *Engine) AllTags(locale string) []model.TagCount {
	return AggregateTags(e.index.GetAllPosts(locale))
}

func AggregateTags(posts []*model.Document) []model.TagCount {
	counts := make(map[string]int)
	for _, post := range posts {
		for _, tag := range post.Tags {
			key := strings.TrimSpace(tag)
			if key == "" {
				continue
			}
			counts[key]++
		}
	}
	tags := make([]model.TagCount, 0, len(counts))
	for tag, count := range counts {
		tags = append(tags, model.TagCount{Tag: tag, Count: count})
	}
	sort.Slice(tags, func(a, b int) bool {
		if tags[a].Count != tags[b].Count {
			return tags[a].Count > tags[b].Count
		}
		return tags[a].Tag < tags[b].Tag
	})
	return tags
}
