// Package content reads the on-disk blog directory and turns Markdown files
// with YAML frontmatter into Document records. Every metadata field falls back
// to a documented default, so a malformed header never fails a page.
package content

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/araddon/dateparse"

	"github.com/lapeyrade/portfolio/internal/model"
)

// Extension is the only file extension the store recognizes.
const Extension = ".md"

// Store enumerates and parses documents for a locale. The default locale's
// files live at the content root; every other locale lives in a subdirectory
// named after the locale tag.
type Store struct {
	root          string
	defaultLocale string
	logger        *slog.Logger
}

func NewStore(root, defaultLocale string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		root:          filepath.Clean(root),
		defaultLocale: defaultLocale,
		logger:        logger,
	}
}

func (s *Store) localeDir(locale string) string {
	if locale == s.defaultLocale {
		return s.root
	}
	return filepath.Join(s.root, locale)
}

// ListDocuments scans the locale's directory and parses every recognized
// file. A missing directory yields an empty list; a file that cannot be read
// is logged and skipped so one bad file cannot take down the whole listing.
func (s *Store) ListDocuments(locale string) []*model.Document {
	dir := s.localeDir(locale)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error("reading content directory", "dir", dir, "error", err)
		}
		return nil
	}

	var docs []*model.Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), Extension) {
			continue
		}
		doc, err := s.ParseDocument(filepath.Join(dir, entry.Name()), locale)
		if err != nil {
			s.logger.Error("parsing document", "file", entry.Name(), "error", err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

type docFrontmatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Date        string   `yaml:"date"`
	Author      string   `yaml:"author"`
	Tags        []string `yaml:"tags"`

	// Accepted spellings for the update timestamp, in priority order.
	Updated      string `yaml:"updated"`
	LastModified string `yaml:"lastModified"`
	Modified     string `yaml:"modified"`
	UpdateDate   string `yaml:"updateDate"`
}

// ParseDocument reads one file and builds its Document. The slug is the
// filename minus extension. Missing or unparseable metadata fields fall back
// to their defaults; only an unreadable file returns an error.
func (s *Store) ParseDocument(path, locale string) (*model.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fm docFrontmatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		s.logger.Warn("unparseable frontmatter, treating file as plain markdown",
			"file", filepath.Base(path), "error", err)
		body = raw
		fm = docFrontmatter{}
	}

	doc := &model.Document{
		Slug:        strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Locale:      locale,
		Title:       fm.Title,
		Description: fm.Description,
		Author:      fm.Author,
		Date:        fm.Date,
		Tags:        fm.Tags,
		Content:     string(body),
	}
	if doc.Title == "" {
		doc.Title = "Untitled"
	}
	if doc.Author == "" {
		doc.Author = "Anonymous"
	}
	if doc.Date == "" {
		doc.Date = time.Now().UTC().Format(time.RFC3339)
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	doc.LastModified = s.resolveLastModified(path, fm)
	doc.ReadingTime, doc.ReadingTimeMinutes, doc.WordCount = readingMetrics(doc.Content)
	return doc, nil
}

// resolveLastModified walks the accepted frontmatter spellings in priority
// order and takes the first one that parses as a timestamp; otherwise the
// file's mtime wins. The zero time is returned only if even stat fails.
func (s *Store) resolveLastModified(path string, fm docFrontmatter) string {
	for _, candidate := range []string{fm.Updated, fm.LastModified, fm.Modified, fm.UpdateDate} {
		if candidate == "" {
			continue
		}
		if iso, ok := normalizeToISO(candidate); ok {
			return iso
		}
		s.logger.Warn("discarding unparseable update timestamp",
			"file", filepath.Base(path), "value", candidate)
	}
	info, err := os.Stat(path)
	if err != nil {
		return time.Now().UTC().Format(time.RFC3339)
	}
	return info.ModTime().UTC().Format(time.RFC3339)
}

func normalizeToISO(value string) (string, bool) {
	t, err := dateparse.ParseAny(value)
	if err != nil {
		return "", false
	}
	return t.UTC().Format(time.RFC3339), true
}

// GetDocument resolves a single document for the requested locale. The
// candidate paths are tried in order and the first existing one is parsed; a
// post translated into no locale still resolves through the root copy instead
// of disappearing.
func (s *Store) GetDocument(slug, locale string) *model.Document {
	for _, path := range s.candidatePaths(slug, locale) {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		doc, err := s.ParseDocument(path, locale)
		if err != nil {
			s.logger.Error("parsing document", "file", filepath.Base(path), "error", err)
			return nil
		}
		return doc
	}
	return nil
}

// candidatePaths returns the ordered locale-resolution candidates for a slug.
// Non-default locales try their own subdirectory before the root; the default
// locale prefers the root but will fall back to its own subdirectory if
// someone filed content there.
func (s *Store) candidatePaths(slug, locale string) []string {
	rootFile := filepath.Join(s.root, slug+Extension)
	localeFile := filepath.Join(s.root, locale, slug+Extension)
	if locale == s.defaultLocale {
		return []string{rootFile, localeFile}
	}
	return []string{localeFile, rootFile}
}

// Slugs lists the slugs available for a locale without parsing bodies.
func (s *Store) Slugs(locale string) []string {
	entries, err := os.ReadDir(s.localeDir(locale))
	if err != nil {
		return nil
	}
	var slugs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(name), Extension) {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(name, filepath.Ext(name)))
	}
	return slugs
}
