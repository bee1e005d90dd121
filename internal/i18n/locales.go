// Package i18n owns the supported locale set, the "always prefix" URL
// strategy and the slug-translation table that maps blog posts across
// languages.
package i18n

import (
	"fmt"

	"github.com/araddon/dateparse"
	"golang.org/x/text/language"
)

// Set is the fixed list of supported locales, default first.
type Set struct {
	defaultLocale string
	locales       []string
	matcher       language.Matcher
}

func NewSet(defaultLocale string, locales []string) (*Set, error) {
	ordered := []string{defaultLocale}
	for _, l := range locales {
		if l != defaultLocale {
			ordered = append(ordered, l)
		}
	}
	tags := make([]language.Tag, 0, len(ordered))
	for _, l := range ordered {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("unsupported locale tag %q: %w", l, err)
		}
		tags = append(tags, tag)
	}
	return &Set{
		defaultLocale: defaultLocale,
		locales:       ordered,
		matcher:       language.NewMatcher(tags),
	}, nil
}

func (s *Set) Default() string { return s.defaultLocale }

func (s *Set) All() []string { return s.locales }

func (s *Set) IsValid(locale string) bool {
	for _, l := range s.locales {
		if l == locale {
			return true
		}
	}
	return false
}

// Alternate returns the locale to switch to: the first locale that is not the
// current one. With two locales this is simply the other language.
func (s *Set) Alternate(locale string) string {
	for _, l := range s.locales {
		if l != locale {
			return l
		}
	}
	return s.defaultLocale
}

// Match negotiates an Accept-Language header against the supported set,
// falling back to the default locale.
func (s *Set) Match(acceptLanguage string) string {
	if acceptLanguage == "" {
		return s.defaultLocale
	}
	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil {
		return s.defaultLocale
	}
	_, index, conf := s.matcher.Match(desired...)
	if conf == language.No {
		return s.defaultLocale
	}
	return s.locales[index]
}

// PathFor prefixes a site-relative path with the locale. Every locale is
// prefixed, including the default.
func (s *Set) PathFor(locale, path string) string {
	if path == "/" || path == "" {
		return "/" + locale
	}
	return "/" + locale + path
}

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// FormatDate renders an ISO-ish date string for display in the locale's
// conventional long form. Unparseable input is returned unchanged.
func FormatDate(value, locale string) string {
	t, err := dateparse.ParseAny(value)
	if err != nil {
		return value
	}
	if locale == "fr" {
		return fmt.Sprintf("%d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year())
	}
	return t.Format("January 2, 2006")
}
