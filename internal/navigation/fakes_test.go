package navigation

import (
	"context"
	"sort"

	"github.com/alexanderramin/sitemenu/internal/domain"
)

type fakeMenuSource struct {
	roots []*domain.MenuNode
	feeds map[string][]*domain.MenuNode
	err   error
	calls int
}

func newFakeMenuSource() *fakeMenuSource {
	return &fakeMenuSource{feeds: map[string][]*domain.MenuNode{}}
}

func (f *fakeMenuSource) withTree(root *domain.MenuNode, feed []*domain.MenuNode) *fakeMenuSource {
	f.roots = append(f.roots, root)
	f.feeds[root.ID] = feed
	return f
}

func (f *fakeMenuSource) RootByName(_ context.Context, name, siteID string) (*domain.MenuNode, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.roots {
		if r.Name == name && (siteID == "" || r.SiteID == siteID) {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeMenuSource) Descendants(_ context.Context, root *domain.MenuNode) ([]*domain.MenuNode, error) {
	f.calls++
	return f.feeds[root.ID], nil
}

type fakePageSource struct {
	pages []*domain.Page
	err   error
}

func newFakePageSource(pages ...*domain.Page) *fakePageSource {
	return &fakePageSource{pages: pages}
}

func (f *fakePageSource) PageByID(_ context.Context, id string) (*domain.Page, error) {
	for _, p := range f.pages {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePageSource) PageByURL(_ context.Context, siteID, url string) (*domain.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.pages {
		if p.URL == url && (siteID == "" || p.SiteID == siteID) {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePageSource) PageByRoute(_ context.Context, siteID, route string) (*domain.Page, error) {
	for _, p := range f.pages {
		if p.RouteName == route && (siteID == "" || p.SiteID == siteID) {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePageSource) Homepage(ctx context.Context, siteID string) (*domain.Page, error) {
	return f.PageByURL(ctx, siteID, domain.HomepageURL)
}

func (f *fakePageSource) VisibleChildren(_ context.Context, page *domain.Page) ([]*domain.Page, error) {
	var children []*domain.Page
	for _, p := range f.pages {
		if p.ParentID != nil && *p.ParentID == page.ID && p.IsVisible() {
			children = append(children, p)
		}
	}
	sort.SliceStable(children, func(i, j int) bool { return children[i].Position < children[j].Position })
	return children, nil
}

func childNames(n *RenderNode) []string {
	names := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		names = append(names, c.Name)
	}
	return names
}
