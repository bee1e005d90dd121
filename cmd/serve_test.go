package cmd

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func testServeSite(t *testing.T) *site {
	t.Helper()
	cfg := testBuildConfig(t)

	translations := "hello-world:\n  en: hello-world\n  fr: bonjour-monde\nbonjour-monde:\n  en: hello-world\n  fr: bonjour-monde\n"
	if err := os.WriteFile(cfg.TranslationsFile, []byte(translations), 0o644); err != nil {
		t.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := newSite(cfg, logger)
	if err != nil {
		t.Fatalf("new site: %v", err)
	}
	return s
}

func TestHandleSearch(t *testing.T) {
	s := testServeSite(t)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=hello&locale=en", nil)
	rec := httptest.NewRecorder()
	s.handleSearch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var results []map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected the hello-world post in results")
	}
	if results[0]["url"] != "/en/blog/hello-world" {
		t.Errorf("top result = %v", results[0])
	}
	if _, ok := results[0]["score"]; ok {
		t.Error("score must be stripped from the response")
	}
}

func TestHandleSearchEmptyQuery(t *testing.T) {
	s := testServeSite(t)

	req := httptest.NewRequest(http.MethodGet, "/api/search?locale=en", nil)
	rec := httptest.NewRecorder()
	s.handleSearch(rec, req)

	var results []map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("browse mode should list pages and posts")
	}
	if results[0]["type"] != "page" {
		t.Errorf("browse mode should list pages first, got %v", results[0])
	}
}

func TestHandleTranslatePath(t *testing.T) {
	s := testServeSite(t)

	body := strings.NewReader(`{"pathname":"/en/blog/hello-world","targetLocale":"fr"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/translate-path", body)
	rec := httptest.NewRecorder()
	s.handleTranslatePath(rec, req)

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["path"] != "/blog/bonjour-monde" {
		t.Errorf("path = %q, want /blog/bonjour-monde", resp["path"])
	}
}

func TestHandleTranslatePathMalformedBody(t *testing.T) {
	s := testServeSite(t)

	req := httptest.NewRequest(http.MethodPost, "/api/translate-path", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.handleTranslatePath(rec, req)

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["path"] != "/" {
		t.Errorf("path = %q, want / for malformed input", resp["path"])
	}
}

func TestHandleFeeds(t *testing.T) {
	s := testServeSite(t)

	rec := httptest.NewRecorder()
	s.handleRSS(rec, httptest.NewRequest(http.MethodGet, "/rss.xml", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<rss") {
		t.Errorf("rss handler: status %d body %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	s.handleJSONFeed(rec, httptest.NewRequest(http.MethodGet, "/feed.json", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "jsonfeed.org/version/1.1") {
		t.Errorf("json feed handler: status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.handleSitemap(rec, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<urlset") {
		t.Errorf("sitemap handler: status %d", rec.Code)
	}

	// The sitemap carries locale-prefixed URLs and alternates.
	if !strings.Contains(rec.Body.String(), "https://example.com/fr/blog/bonjour-monde") {
		t.Error("sitemap should include the translated post alternate")
	}
}

func TestResolveLocale(t *testing.T) {
	s := testServeSite(t)

	req := httptest.NewRequest(http.MethodGet, "/api/search?locale=fr", nil)
	if got := s.resolveLocale(req); got != "fr" {
		t.Errorf("locale param = %q, want fr", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/search?locale=xx", nil)
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9")
	if got := s.resolveLocale(req); got != "fr" {
		t.Errorf("negotiated locale = %q, want fr", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/search", nil)
	if got := s.resolveLocale(req); got != "en" {
		t.Errorf("default locale = %q, want en", got)
	}
}
