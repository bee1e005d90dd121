// Package index memoizes per-locale post listings so that pagination, tag
// filters, search and feed generation within one process lifetime share a
// single file-system scan per locale.
package index

import (
	"sort"
	"sync"

	"github.com/lapeyrade/portfolio/internal/content"
	"github.com/lapeyrade/portfolio/internal/model"
)

// Index caches the sorted post list per locale. Concurrent first requests for
// the same locale may each scan the directory and race to populate the entry;
// the computed value is deterministic so last writer wins harmlessly, and an
// entry is always published as one fully-built slice.
type Index struct {
	store *content.Store

	mu    sync.RWMutex
	posts map[string][]*model.Document
}

func New(store *content.Store) *Index {
	return &Index{
		store: store,
		posts: make(map[string][]*model.Document),
	}
}

// GetAllPosts returns the locale's posts sorted by date descending, building
// and caching the list on first use. Equal dates keep discovery order.
func (i *Index) GetAllPosts(locale string) []*model.Document {
	i.mu.RLock()
	cached, ok := i.posts[locale]
	i.mu.RUnlock()
	if ok {
		return cached
	}

	docs := i.store.ListDocuments(locale)
	sort.SliceStable(docs, func(a, b int) bool {
		return docs[a].Date > docs[b].Date
	})

	i.mu.Lock()
	i.posts[locale] = docs
	i.mu.Unlock()
	return docs
}

// ClearCache drops the cached lists for the given locales, or every locale
// when called with none. This is the only invalidation mechanism; edited
// content does not appear until a clear or a process restart.
func (i *Index) ClearCache(locales ...string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if len(locales) == 0 {
		i.posts = make(map[string][]*model.Document)
		return
	}
	for _, locale := range locales {
		delete(i.posts, locale)
	}
}
