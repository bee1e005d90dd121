package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lapeyrade/portfolio/internal/feed"
	"github.com/lapeyrade/portfolio/internal/i18n"
	"github.com/lapeyrade/portfolio/internal/model"
	"github.com/lapeyrade/portfolio/internal/query"
)

const baseLayout = "base.html"

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the static site from content, layouts, and static assets",
	Long: `The build command parses Markdown files with frontmatter from the
content directory, renders every locale's pages through the layouts
directory, copies static assets, and writes the RSS feed, JSON feed and
sitemap into the configured output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSite(appConfig, slog.Default())
		if err != nil {
			return err
		}
		return runBuild(s)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

type builder struct {
	site      *site
	templates *template.Template
	markdown  goldmark.Markdown
	outputDir string
	titler    cases.Caser
}

func runBuild(s *site) error {
	cfg := s.cfg

	if _, err := os.Stat(cfg.ContentDir); os.IsNotExist(err) {
		s.logger.Warn("content directory not found, building an empty site", "dir", cfg.ContentDir)
	}
	if _, err := os.Stat(cfg.LayoutsDir); os.IsNotExist(err) {
		return fmt.Errorf("layouts directory '%s' not found", cfg.LayoutsDir)
	}

	if err := os.RemoveAll(cfg.OutputDir); err != nil {
		return fmt.Errorf("failed to remove output directory '%s': %w", cfg.OutputDir, err)
	}
	if err := os.MkdirAll(cfg.OutputDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %w", cfg.OutputDir, err)
	}

	if _, err := os.Stat(cfg.StaticDir); err == nil {
		if err := copyDirContents(cfg.StaticDir, cfg.OutputDir); err != nil {
			return fmt.Errorf("failed to copy static assets: %w", err)
		}
	}

	templates, err := parseLayouts(cfg.LayoutsDir, s.locales)
	if err != nil {
		return err
	}

	b := &builder{
		site:      s,
		templates: templates,
		outputDir: cfg.OutputDir,
		titler:    cases.Title(language.English),
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
	}

	for _, locale := range s.locales.All() {
		if err := b.renderLocale(locale); err != nil {
			return err
		}
	}
	if err := b.writeFeeds(); err != nil {
		return err
	}

	s.logger.Info("build complete", "output", cfg.OutputDir)
	return nil
}

// parseLayouts loads base.html and partials first, then the page layouts, so
// page templates can redefine blocks the base declares. Mirrors the layouts
// directory convention: base.html at the root, partials under partials/.
func parseLayouts(layoutsDir string, locales *i18n.Set) (*template.Template, error) {
	var basePath string
	var partials, pages []string
	err := filepath.WalkDir(layoutsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
			return nil
		}
		switch {
		case d.Name() == baseLayout && filepath.Dir(path) == layoutsDir:
			basePath = path
		case strings.HasPrefix(filepath.Dir(path), filepath.Join(layoutsDir, "partials")):
			partials = append(partials, path)
		default:
			pages = append(pages, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find layout files in '%s': %w", layoutsDir, err)
	}
	if basePath == "" {
		return nil, fmt.Errorf("%s not found in layouts directory '%s'", baseLayout, layoutsDir)
	}

	funcs := template.FuncMap{
		"formatDate": i18n.FormatDate,
		"pathFor":    locales.PathFor,
	}
	templates, err := template.New(baseLayout).Funcs(funcs).ParseFiles(append([]string{basePath}, partials...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s and partials: %w", baseLayout, err)
	}
	if len(pages) > 0 {
		if templates, err = templates.ParseFiles(pages...); err != nil {
			return nil, fmt.Errorf("failed to parse page layouts: %w", err)
		}
	}
	return templates, nil
}

func (b *builder) siteData(locale string) model.Site {
	return model.Site{
		Title:         b.site.cfg.SiteTitle,
		Description:   b.site.cfg.SiteDescription,
		BaseURL:       b.site.cfg.BaseURL,
		Locale:        locale,
		DefaultLocale: b.site.locales.Default(),
		Locales:       b.site.locales.All(),
	}
}

func (b *builder) renderLocale(locale string) error {
	posts := b.site.index.GetAllPosts(locale)
	tags := query.AggregateTags(posts)
	pageSize := b.site.cfg.PageSize

	// Home page with the most recent posts.
	home := query.Paginate(posts, 1, pageSize)
	err := b.renderPage("home.html", filepath.Join(locale, "index.html"), model.PageData{
		Site:          b.siteData(locale),
		Title:         b.site.cfg.SiteTitle,
		Description:   b.site.cfg.SiteDescription,
		Posts:         home.Posts,
		AlternateURLs: b.staticAlternates("/"),
	})
	if err != nil {
		return err
	}

	// Paginated blog index: /blog and /blog/page/N.
	for page := 1; page <= home.TotalPages; page++ {
		paged := query.Paginate(posts, page, pageSize)
		out := filepath.Join(locale, "blog", "index.html")
		if page > 1 {
			out = filepath.Join(locale, "blog", "page", fmt.Sprint(page), "index.html")
		}
		err := b.renderPage("list.html", out, model.PageData{
			Site:          b.siteData(locale),
			Title:         "Blog",
			Description:   b.site.cfg.SiteDescription,
			Posts:         paged.Posts,
			Tags:          tags,
			CurrentPage:   paged.CurrentPage,
			TotalPages:    paged.TotalPages,
			AlternateURLs: b.staticAlternates("/blog"),
		})
		if err != nil {
			return err
		}
	}

	// One page per slug. Non-default locales also render untranslated posts
	// through the store's locale fallback, so /fr/blog/some-post serves the
	// original-language copy instead of a 404.
	for _, slug := range b.postSlugs(locale) {
		post := b.site.store.GetDocument(slug, locale)
		if post == nil {
			continue
		}
		html, err := b.renderMarkdown(post.Content)
		if err != nil {
			return fmt.Errorf("rendering markdown for '%s': %w", post.Slug, err)
		}
		out := filepath.Join(locale, "blog", post.Slug, "index.html")
		err = b.renderPage("post.html", out, model.PageData{
			Site:          b.siteData(locale),
			Title:         post.Title,
			Description:   post.Description,
			Content:       html,
			Post:          post,
			AlternateURLs: b.postAlternates(post.Slug),
		})
		if err != nil {
			return err
		}
	}

	// One listing page per tag.
	for _, tc := range tags {
		out := filepath.Join(locale, "blog", "tag", tc.Tag, "index.html")
		err := b.renderPage("tag.html", out, model.PageData{
			Site:        b.siteData(locale),
			Title:       b.titler.String(tc.Tag),
			Description: b.site.cfg.SiteDescription,
			Tag:         tc.Tag,
			Posts:       query.FilterByTag(posts, tc.Tag),
			Tags:        tags,
		})
		if err != nil {
			return err
		}
	}

	// Static catalog pages (contact, terms, privacy). Home and the blog
	// index already have dedicated layouts above.
	for _, item := range query.StaticPageItems(locale) {
		path := strings.TrimPrefix(item.URL, "/"+locale)
		if path == "" || path == "/blog" {
			continue
		}
		out := filepath.Join(locale, filepath.FromSlash(strings.TrimPrefix(path, "/")), "index.html")
		err := b.renderPage("page.html", out, model.PageData{
			Site:          b.siteData(locale),
			Title:         item.Title,
			Description:   item.Description,
			AlternateURLs: b.staticAlternates(path),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// postSlugs is the set of post URLs to render for a locale: its own slugs
// plus, for non-default locales, the default locale's slugs that have no
// locale-specific copy.
func (b *builder) postSlugs(locale string) []string {
	slugs := b.site.store.Slugs(locale)
	if locale == b.site.locales.Default() {
		return slugs
	}
	seen := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		seen[slug] = true
	}
	for _, slug := range b.site.store.Slugs(b.site.locales.Default()) {
		if !seen[slug] {
			slugs = append(slugs, slug)
		}
	}
	return slugs
}

func (b *builder) renderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := b.markdown.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func (b *builder) staticAlternates(path string) map[string]string {
	alternates := make(map[string]string, len(b.site.locales.All()))
	for _, locale := range b.site.locales.All() {
		alternates[locale] = b.site.locales.PathFor(locale, path)
	}
	return alternates
}

func (b *builder) postAlternates(slug string) map[string]string {
	alternates := make(map[string]string, len(b.site.locales.All()))
	for _, locale := range b.site.locales.All() {
		target := slug
		if translated, ok := b.site.slugs.Equivalent(slug, locale); ok {
			target = translated
		}
		alternates[locale] = b.site.locales.PathFor(locale, "/blog/"+target)
	}
	return alternates
}

// renderPage executes the named layout, falling back to base.html when the
// layout is not present, and writes the result under the output directory.
func (b *builder) renderPage(layout, relPath string, data model.PageData) error {
	if b.templates.Lookup(layout) == nil {
		b.site.logger.Warn("layout not found, using base layout", "layout", layout)
		layout = baseLayout
	}

	outPath := filepath.Join(b.outputDir, relPath)
	if err := os.MkdirAll(filepath.Dir(outPath), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory for '%s': %w", outPath, err)
	}
	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output file '%s': %w", outPath, err)
	}
	defer outFile.Close()

	if err := b.templates.ExecuteTemplate(outFile, layout, data); err != nil {
		return fmt.Errorf("failed to execute layout '%s' for '%s': %w", layout, outPath, err)
	}
	return nil
}

func (b *builder) writeFeeds() error {
	defaultPosts := b.site.index.GetAllPosts(b.site.locales.Default())
	meta := b.site.feedSite()

	rss := feed.RSS(defaultPosts, meta)
	if err := os.WriteFile(filepath.Join(b.outputDir, "rss.xml"), []byte(rss), 0o644); err != nil {
		return fmt.Errorf("failed to write rss.xml: %w", err)
	}

	jsonFeed, err := json.MarshalIndent(feed.NewJSONFeed(defaultPosts, meta), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode feed.json: %w", err)
	}
	if err := os.WriteFile(filepath.Join(b.outputDir, "feed.json"), jsonFeed, 0o644); err != nil {
		return fmt.Errorf("failed to write feed.json: %w", err)
	}

	sitemap, err := feed.SitemapXML(b.site.sitemapEntries())
	if err != nil {
		return fmt.Errorf("failed to encode sitemap.xml: %w", err)
	}
	if err := os.WriteFile(filepath.Join(b.outputDir, "sitemap.xml"), []byte(sitemap), 0o644); err != nil {
		return fmt.Errorf("failed to write sitemap.xml: %w", err)
	}
	return nil
}

// copyDirContents recursively copies files and directories from src to dst.
func copyDirContents(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", path, err)
		}
		dstPath := filepath.Join(dst, relPath)

		if d.IsDir() {
			if err := os.MkdirAll(dstPath, os.ModePerm); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dstPath, err)
			}
			return nil
		}
		return copyFile(path, dstPath)
	})
}

func copyFile(srcFile, dstFile string) error {
	srcF, err := os.Open(srcFile)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", srcFile, err)
	}
	defer srcF.Close()

	if err := os.MkdirAll(filepath.Dir(dstFile), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create destination directory for %s: %w", dstFile, err)
	}
	dstF, err := os.Create(dstFile)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dstFile, err)
	}
	defer dstF.Close()

	if _, err := io.Copy(dstF, srcF); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", srcFile, dstFile, err)
	}
	return nil
}
