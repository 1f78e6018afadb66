package testutil

import (
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/sitemenu/internal/domain"
	"github.com/google/uuid"
)

var testSiteCounter atomic.Int64

// Site options
type SiteOption func(*domain.Site)

func WithRelativePath(p string) SiteOption {
	return func(s *domain.Site) {
		s.RelativePath = p
	}
}

func WithDefaultSite() SiteOption {
	return func(s *domain.Site) {
		s.IsDefault = true
	}
}

func NewTestSite(name string, opts ...SiteOption) *domain.Site {
	now := time.Now().UTC()
	if name == "" {
		name = "site-" + strings.ToLower(uuid.New().String()[:8])
	}
	testSiteCounter.Add(1)
	s := &domain.Site{
		ID:        uuid.New().String(),
		Name:      name,
		Host:      "localhost",
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Page options
type PageOption func(*domain.Page)

func WithPageParent(parent *domain.Page) PageOption {
	return func(p *domain.Page) {
		id := parent.ID
		p.ParentID = &id
	}
}

func WithRoute(name string) PageOption {
	return func(p *domain.Page) {
		p.RouteName = name
	}
}

func WithRedirect(url string) PageOption {
	return func(p *domain.Page) {
		p.RedirectURL = url
	}
}

func WithPosition(pos int) PageOption {
	return func(p *domain.Page) {
		p.Position = pos
	}
}

func HiddenFromMenu() PageOption {
	return func(p *domain.Page) {
		p.ShowInMenu = false
	}
}

func DisabledPage() PageOption {
	return func(p *domain.Page) {
		p.Enabled = false
	}
}

func NewTestPage(siteID, name, url string, opts ...PageOption) *domain.Page {
	now := time.Now().UTC()
	p := &domain.Page{
		ID:         uuid.New().String(),
		SiteID:     siteID,
		Name:       name,
		URL:        url,
		Enabled:    true,
		ShowInMenu: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.Normalize()
	return p
}

// Menu options
type MenuOption func(*domain.MenuNode)

func Disabled() MenuOption {
	return func(m *domain.MenuNode) {
		m.Enabled = false
	}
}

func Locked() MenuOption {
	return func(m *domain.MenuNode) {
		m.Deletable = false
	}
}

func WithExternalURL(url string) MenuOption {
	return func(m *domain.MenuNode) {
		m.ExternalURL = url
	}
}

func WithLinkedPage(p *domain.Page) MenuOption {
	return func(m *domain.MenuNode) {
		id := p.ID
		m.PageID = &id
		m.PageURL = p.URL
	}
}

func WithClass(class string) MenuOption {
	return func(m *domain.MenuNode) {
		m.Class = class
	}
}

func WithHeader(header string) MenuOption {
	return func(m *domain.MenuNode) {
		m.Header = header
	}
}

func NewTestMenuNode(siteID, name string, opts ...MenuOption) *domain.MenuNode {
	now := time.Now().UTC()
	m := &domain.MenuNode{
		ID:        uuid.New().String(),
		SiteID:    siteID,
		Name:      name,
		Enabled:   true,
		Deletable: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MenuTreeBuilder assembles an in-memory nested-set tree. Bounds are assigned
// by Feed, so nodes can be added in any order.
type MenuTreeBuilder struct {
	root     *domain.MenuNode
	children map[string][]*domain.MenuNode
}

// NewMenuTreeBuilder starts a tree whose root is named rootName.
func NewMenuTreeBuilder(siteID, rootName string, opts ...MenuOption) *MenuTreeBuilder {
	root := NewTestMenuNode(siteID, rootName, opts...)
	root.RootID = root.ID
	return &MenuTreeBuilder{root: root, children: map[string][]*domain.MenuNode{}}
}

func (b *MenuTreeBuilder) Root() *domain.MenuNode {
	return b.root
}

// Add appends a child named name under parent.
func (b *MenuTreeBuilder) Add(parent *domain.MenuNode, name string, opts ...MenuOption) *domain.MenuNode {
	n := NewTestMenuNode(b.root.SiteID, name, opts...)
	pid := parent.ID
	n.ParentID = &pid
	n.RootID = b.root.ID
	n.Level = parent.Level + 1
	b.children[parent.ID] = append(b.children[parent.ID], n)
	return n
}

// Feed numbers the tree and returns the root's descendants in ascending
// left order.
func (b *MenuTreeBuilder) Feed() []*domain.MenuNode {
	next := 1
	var all []*domain.MenuNode
	var number func(n *domain.MenuNode)
	number = func(n *domain.MenuNode) {
		n.Left = next
		next++
		for _, c := range b.children[n.ID] {
			number(c)
		}
		n.Right = next
		next++
		all = append(all, n)
	}
	number(b.root)

	feed := make([]*domain.MenuNode, 0, len(all)-1)
	for _, n := range all {
		if n != b.root {
			feed = append(feed, n)
		}
	}
	sort.Slice(feed, func(i, j int) bool { return feed[i].Left < feed[j].Left })
	return feed
}
