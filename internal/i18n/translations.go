package i18n

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v2"
)

// SlugTranslations maps a slug in any language to its equivalents per locale.
// The table is symmetric: each translated slug appears as a key too, so a
// reverse lookup needs no extra pass.
type SlugTranslations map[string]map[string]string

// LoadSlugTranslations reads the YAML translation table. A missing file is an
// empty table, not an error; language switching then degrades to keeping the
// current slug.
func LoadSlugTranslations(path string) (SlugTranslations, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return SlugTranslations{}, nil
		}
		return nil, fmt.Errorf("reading translations file %s: %w", path, err)
	}
	var table SlugTranslations
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("unmarshalling translations file %s: %w", path, err)
	}
	if table == nil {
		table = SlugTranslations{}
	}
	return table, nil
}

// Equivalent returns the slug's counterpart in the target locale.
func (t SlugTranslations) Equivalent(slug, targetLocale string) (string, bool) {
	mapping, ok := t[slug]
	if !ok {
		return "", false
	}
	translated, ok := mapping[targetLocale]
	if !ok || translated == "" {
		return "", false
	}
	return translated, true
}

func (t SlugTranslations) Has(slug, targetLocale string) bool {
	_, ok := t.Equivalent(slug, targetLocale)
	return ok
}

// Translator resolves the localized form of a pathname using the locale set
// and the slug table.
type Translator struct {
	locales  *Set
	slugs    SlugTranslations
	postPath *regexp.Regexp
}

func NewTranslator(locales *Set, slugs SlugTranslations) *Translator {
	pattern := fmt.Sprintf(`^(?:/(?:%s))?/blog/(.+)$`, strings.Join(locales.All(), "|"))
	return &Translator{
		locales:  locales,
		slugs:    slugs,
		postPath: regexp.MustCompile(pattern),
	}
}

// TranslatePath maps a pathname to its equivalent in the target locale. Blog
// post paths go through the slug table; a post with no known translation, and
// any non-blog path, comes back stripped of its locale prefix so the caller
// can re-prefix it with the target locale.
func (tr *Translator) TranslatePath(pathname, targetLocale string) string {
	match := tr.postPath.FindStringSubmatch(pathname)
	if match == nil {
		return tr.stripPrefix(pathname)
	}
	if translated, ok := tr.slugs.Equivalent(match[1], targetLocale); ok {
		return "/blog/" + translated
	}
	return tr.stripPrefix(pathname)
}

func (tr *Translator) stripPrefix(pathname string) string {
	for _, locale := range tr.locales.All() {
		prefix := "/" + locale
		if pathname == prefix {
			return "/"
		}
		if strings.HasPrefix(pathname, prefix+"/") {
			return strings.TrimPrefix(pathname, prefix)
		}
	}
	if pathname == "" {
		return "/"
	}
	return pathname
}
