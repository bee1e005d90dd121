package config

import (
	"fmt"
	"strings"
)

type Config struct {
	SiteTitle       string `mapstructure:"siteTitle"`
	SiteDescription string `mapstructure:"siteDescription"`
	BaseURL         string `mapstructure:"baseURL"`

	ContentDir       string `mapstructure:"contentDir"`
	LayoutsDir       string `mapstructure:"layoutsDir"`
	StaticDir        string `mapstructure:"staticDir"`
	OutputDir        string `mapstructure:"outputDir"`
	TranslationsFile string `mapstructure:"translationsFile"`

	DefaultLocale string   `mapstructure:"defaultLocale"`
	Locales       []string `mapstructure:"locales"`
	PageSize      int      `mapstructure:"pageSize"`
}

// Normalize cleans values that arrive from config files or the environment:
// the base URL loses its trailing slash, the page size is floored at 1 and
// the default locale is guaranteed to be part of the locale list.
func (c *Config) Normalize() error {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.BaseURL == "" {
		return fmt.Errorf("baseURL must be set")
	}
	if c.PageSize < 1 {
		c.PageSize = 1
	}
	if c.DefaultLocale == "" {
		c.DefaultLocale = "en"
	}
	for _, l := range c.Locales {
		if l == c.DefaultLocale {
			return nil
		}
	}
	c.Locales = append([]string{c.DefaultLocale}, c.Locales...)
	return nil
}
