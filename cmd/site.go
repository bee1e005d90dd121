package cmd

import (
	"fmt"
	"log/slog"

	"github.com/lapeyrade/portfolio/internal/config"
	"github.com/lapeyrade/portfolio/internal/content"
	"github.com/lapeyrade/portfolio/internal/feed"
	"github.com/lapeyrade/portfolio/internal/i18n"
	"github.com/lapeyrade/portfolio/internal/index"
	"github.com/lapeyrade/portfolio/internal/model"
	"github.com/lapeyrade/portfolio/internal/query"
)

// site wires the content pipeline together for one process: store, post
// index, query engine and the locale/translation helpers.
type site struct {
	cfg        config.Config
	store      *content.Store
	index      *index.Index
	engine     *query.Engine
	locales    *i18n.Set
	slugs      i18n.SlugTranslations
	translator *i18n.Translator
	logger     *slog.Logger
}

func newSite(cfg config.Config, logger *slog.Logger) (*site, error) {
	locales, err := i18n.NewSet(cfg.DefaultLocale, cfg.Locales)
	if err != nil {
		return nil, err
	}
	slugs, err := i18n.LoadSlugTranslations(cfg.TranslationsFile)
	if err != nil {
		return nil, fmt.Errorf("loading slug translations: %w", err)
	}

	store := content.NewStore(cfg.ContentDir, cfg.DefaultLocale, logger)
	idx := index.New(store)
	return &site{
		cfg:        cfg,
		store:      store,
		index:      idx,
		engine:     query.NewEngine(idx),
		locales:    locales,
		slugs:      slugs,
		translator: i18n.NewTranslator(locales, slugs),
		logger:     logger,
	}, nil
}

func (s *site) feedSite() feed.Site {
	return feed.Site{
		Title:       s.cfg.SiteTitle,
		Description: s.cfg.SiteDescription,
		URL:         s.cfg.BaseURL,
		Language:    "en-us",
	}
}

// sitemapEntries gathers every locale's posts and the static catalog into the
// locale-aware sitemap.
func (s *site) sitemapEntries() []feed.SitemapEntry {
	postsByLocale := make(map[string][]*model.Document, len(s.locales.All()))
	for _, locale := range s.locales.All() {
		postsByLocale[locale] = s.index.GetAllPosts(locale)
	}
	return feed.SitemapEntries(postsByLocale, query.StaticPaths(), s.cfg.BaseURL,
		s.locales.All(), s.slugs.Equivalent)
}
