package domain

import (
	"fmt"
	"strings"
	"time"
)

// HomepageURL is the url of the page acting as a site's homepage.
const HomepageURL = "/"

type Page struct {
	ID          string
	SiteID      string
	ParentID    *string
	Name        string
	URL         string
	RouteName   string
	RedirectURL string
	IsDynamic   bool
	Enabled     bool
	ShowInMenu  bool
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsPlaceholderSegment reports whether a single path segment is a route
// placeholder such as "{id}".
func IsPlaceholderSegment(segment string) bool {
	return strings.Contains(segment, "{")
}

// IsDynamicURL reports whether any path segment of url is a placeholder.
func IsDynamicURL(url string) bool {
	for _, seg := range strings.Split(url, "/") {
		if IsPlaceholderSegment(seg) {
			return true
		}
	}
	return false
}

// IsHomepage reports whether the page is its site's homepage.
func (p *Page) IsHomepage() bool {
	return p.URL == HomepageURL
}

// IsVisible is the default visibility predicate used by page repositories.
func (p *Page) IsVisible() bool {
	return p.Enabled && p.ShowInMenu
}

// Normalize derives IsDynamic from the URL and ensures the URL is rooted.
func (p *Page) Normalize() {
	p.URL = strings.TrimSpace(p.URL)
	if p.URL != "" && !strings.HasPrefix(p.URL, "/") {
		p.URL = "/" + p.URL
	}
	p.IsDynamic = IsDynamicURL(p.URL)
}

// Validate checks the fields required to persist a page.
func (p *Page) Validate() error {
	if p.SiteID == "" {
		return fmt.Errorf("page site is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("page name is required")
	}
	if p.URL == "" {
		return fmt.Errorf("page %q: url is required", p.Name)
	}
	if p.ParentID != nil && *p.ParentID == p.ID {
		return fmt.Errorf("page %q cannot be its own parent", p.Name)
	}
	return nil
}
