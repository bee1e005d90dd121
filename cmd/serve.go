package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/lapeyrade/portfolio/internal/feed"
	"github.com/lapeyrade/portfolio/internal/query"
)

var serverPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the site locally and watches for changes",
	Long: `The serve command performs an initial build, then starts a local web
server for the output directory alongside the dynamic endpoints (search,
path translation, RSS, JSON feed, sitemap). Content, layout and static
directories are watched; changes clear the post cache and rebuild.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()
		s, err := newSite(appConfig, logger)
		if err != nil {
			return err
		}

		logger.Info("performing initial build")
		if err := runBuild(s); err != nil {
			return fmt.Errorf("initial build failed: %w", err)
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create file watcher: %w", err)
		}
		defer watcher.Close()

		go watchAndRebuild(s, watcher)

		for _, root := range []string{appConfig.ContentDir, appConfig.LayoutsDir, appConfig.StaticDir} {
			if _, err := os.Stat(root); os.IsNotExist(err) {
				continue
			}
			err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					logger.Warn("walking watch directory", "path", path, "error", err)
					return nil
				}
				if d.IsDir() {
					if watchErr := watcher.Add(path); watchErr != nil {
						logger.Warn("failed to watch directory", "path", path, "error", watchErr)
					}
				}
				return nil
			})
			if err != nil {
				logger.Warn("setting up watches", "root", root, "error", err)
			}
		}

		mux := http.NewServeMux()
		mux.HandleFunc("/api/search", s.handleSearch)
		mux.HandleFunc("/api/translate-path", s.handleTranslatePath)
		mux.HandleFunc("/rss.xml", s.handleRSS)
		mux.HandleFunc("/feed.json", s.handleJSONFeed)
		mux.HandleFunc("/sitemap.xml", s.handleSitemap)
		mux.HandleFunc("/", serveFiles(appConfig.OutputDir))

		addr := fmt.Sprintf(":%d", serverPort)
		logger.Info("serving site", "dir", appConfig.OutputDir, "addr", "http://localhost"+addr)
		return http.ListenAndServe(addr, mux)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 1313, "Port to serve the site on")
	rootCmd.AddCommand(serveCmd)
}

// watchAndRebuild debounces file events, clears the post cache (the explicit
// invalidation escape hatch) and rebuilds.
func watchAndRebuild(s *site, watcher *fsnotify.Watcher) {
	var buildTimer *time.Timer
	const debounce = 500 * time.Millisecond

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			s.logger.Info("change detected", "path", event.Name, "op", event.Op.String())

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						s.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}

			if buildTimer != nil {
				buildTimer.Stop()
			}
			buildTimer = time.AfterFunc(debounce, func() {
				s.index.ClearCache()
				if err := runBuild(s); err != nil {
					s.logger.Error("rebuild failed", "error", err)
					return
				}
				s.logger.Info("site rebuilt")
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// serveFiles serves the output directory without directory listings and with
// caching disabled for development.
func serveFiles(dir string) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") && r.URL.Path != "/" {
			if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(r.URL.Path), "index.html")); os.IsNotExist(err) {
				http.NotFound(w, r)
				return
			}
		}
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		fileServer.ServeHTTP(w, r)
	}
}

// resolveLocale validates the locale query parameter, negotiating from the
// Accept-Language header when it is absent or unsupported.
func (s *site) resolveLocale(r *http.Request) string {
	locale := r.URL.Query().Get("locale")
	if s.locales.IsValid(locale) {
		return locale
	}
	return s.locales.Match(r.Header.Get("Accept-Language"))
}

func (s *site) handleSearch(w http.ResponseWriter, r *http.Request) {
	results := s.engine.Search(r.URL.Query().Get("q"), s.resolveLocale(r))
	if results == nil {
		results = []query.SearchItem{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *site) handleTranslatePath(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Pathname     string `json:"pathname"`
		TargetLocale string `json:"targetLocale"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"path": "/"})
		return
	}
	if req.Pathname == "" {
		req.Pathname = "/"
	}
	if !s.locales.IsValid(req.TargetLocale) {
		req.TargetLocale = s.locales.Default()
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"path": s.translator.TranslatePath(req.Pathname, req.TargetLocale),
	})
}

func (s *site) handleRSS(w http.ResponseWriter, _ *http.Request) {
	posts := s.index.GetAllPosts(s.locales.Default())
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	fmt.Fprint(w, feed.RSS(posts, s.feedSite()))
}

func (s *site) handleJSONFeed(w http.ResponseWriter, _ *http.Request) {
	posts := s.index.GetAllPosts(s.locales.Default())
	writeJSON(w, http.StatusOK, feed.NewJSONFeed(posts, s.feedSite()))
}

func (s *site) handleSitemap(w http.ResponseWriter, _ *http.Request) {
	sitemap, err := feed.SitemapXML(s.sitemapEntries())
	if err != nil {
		http.Error(w, "failed to generate sitemap", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	fmt.Fprint(w, sitemap)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("encoding response", "error", err)
	}
}
