package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var siteNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,62}$`)

// Site is a tenant of the CMS. Menus and pages are always scoped to one site.
type Site struct {
	ID           string
	Name         string
	Host         string
	RelativePath string // site base URL appended after the request base URL, e.g. "/en"
	Enabled      bool
	IsDefault    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidateName checks that Name is a lowercase slug (e.g. "default", "shop-en").
func (s *Site) ValidateName() error {
	if s.Name == "" {
		return fmt.Errorf("site name is required")
	}
	if !siteNamePattern.MatchString(s.Name) {
		return fmt.Errorf("site name %q must be a lowercase slug (letters, digits, '-' or '_')", s.Name)
	}
	return nil
}

// BaseURL returns the relative path normalised to either "" or a
// slash-prefixed path without a trailing slash.
func (s *Site) BaseURL() string {
	p := strings.TrimRight(strings.TrimSpace(s.RelativePath), "/")
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
