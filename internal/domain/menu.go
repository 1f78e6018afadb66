package domain

import (
	"fmt"
	"strings"
	"time"
)

// Default menu positions created for every site.
const (
	MenuMain   = "main"
	MenuFooter = "footer"
)

// MaxHeaderLen bounds the markdown header stored on a menu node.
const MaxHeaderLen = 1000

// MenuNode is one entry of a nested-set menu tree. A root (Level 0) names a
// menu position; its descendants are the menu items.
type MenuNode struct {
	ID          string
	SiteID      string
	RootID      string
	ParentID    *string
	Name        string
	Level       int
	Left        int
	Right       int
	Enabled     bool
	Deletable   bool
	ExternalURL string
	PageID      *string
	PageURL     string // url of the linked page, resolved on read
	Header      string
	Class       string
	Template    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsRoot reports whether the node names a menu position.
func (m *MenuNode) IsRoot() bool {
	return m.ParentID == nil
}

// URL returns the raw link target: the linked page's url when a page is
// linked, otherwise the external url.
func (m *MenuNode) URL() string {
	if m.PageID != nil {
		return m.PageURL
	}
	return m.ExternalURL
}

// PrepareURL drops the external url when a page is linked, so a node never
// carries two competing targets.
func (m *MenuNode) PrepareURL() {
	if m.PageID != nil && m.ExternalURL != "" {
		m.ExternalURL = ""
	}
}

// Contains reports whether other lies inside m's nested-set span.
func (m *MenuNode) Contains(other *MenuNode) bool {
	return m.RootID == other.RootID && m.Left < other.Left && other.Right < m.Right
}

// Width is the number of nested-set slots the subtree rooted at m occupies.
func (m *MenuNode) Width() int {
	return m.Right - m.Left + 1
}

// Validate checks the fields an administrator can set.
func (m *MenuNode) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("menu name is required")
	}
	if m.SiteID == "" {
		return fmt.Errorf("menu %q: site is required", m.Name)
	}
	if len(m.Header) > MaxHeaderLen {
		return fmt.Errorf("menu %q: header exceeds %d characters", m.Name, MaxHeaderLen)
	}
	if m.Left != 0 && m.Left >= m.Right {
		return fmt.Errorf("menu %q: left bound %d must be below right bound %d", m.Name, m.Left, m.Right)
	}
	return nil
}
