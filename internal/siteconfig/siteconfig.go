// Package siteconfig loads and validates the declarative per-site
// selector configurations that drive extraction.
package siteconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sjsage522/newsharvester/logger"
	apperrors "sjsage522/newsharvester/pkg/errors"
)

// DefaultLimit bounds how many containers are processed per site when the
// config does not say otherwise
const DefaultLimit = 20

// Selectors contains CSS selectors for the fields of one article record.
// Container, Link and Title are load-bearing; the rest are optional.
type Selectors struct {
	Container string `json:"container"`
	Link      string `json:"link"`
	Title     string `json:"title"`
	Image     string `json:"image"`
	Author    string `json:"author"`
	Date      string `json:"date"`
	Snippet   string `json:"snippet"`
}

// Site is one immutable site configuration, loaded fresh each batch
type Site struct {
	Name    string    `json:"site"`
	BaseURL string    `json:"base_url"`
	Limit   int       `json:"limit"`
	Article Selectors `json:"article"`
}

// Load reads and validates a single config file. A config missing a
// required field is rejected wholesale, never partially used.
func Load(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrorTypeConfig, "", fmt.Sprintf("read %s", filepath.Base(path)), err)
	}

	var site Site
	if err := json.Unmarshal(data, &site); err != nil {
		return nil, apperrors.New(apperrors.ErrorTypeConfig, "", fmt.Sprintf("parse %s", filepath.Base(path)), err)
	}

	if site.Name == "" {
		site.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if site.Limit <= 0 {
		site.Limit = DefaultLimit
	}

	if err := site.validate(); err != nil {
		return nil, err
	}

	return &site, nil
}

// validate checks the required fields
func (s *Site) validate() error {
	missing := ""
	switch {
	case s.BaseURL == "":
		missing = "base_url"
	case s.Article.Container == "":
		missing = "article.container"
	case s.Article.Link == "":
		missing = "article.link"
	case s.Article.Title == "":
		missing = "article.title"
	}
	if missing != "" {
		return apperrors.NewConfig(s.Name, fmt.Sprintf("missing required field %q", missing))
	}
	return nil
}

// LoadDir enumerates the JSON config files in dir and returns the subset
// that pass validation. Invalid files are logged and skipped; only an
// unreadable directory is an error.
func LoadDir(dir string) ([]*Site, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrorTypeConfig, "", fmt.Sprintf("read config dir %s", dir), err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var sites []*Site
	for _, name := range names {
		site, err := Load(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("Skipping invalid site config %s: %v", name, err)
			continue
		}
		logger.Debug("Loaded site config %s (%s)", name, site.Name)
		sites = append(sites, site)
	}

	return sites, nil
}
