package navigation

import (
	"context"
	"fmt"
	"slices"

	"github.com/alexanderramin/sitemenu/internal/domain"
)

// MaxDepth caps ancestor walks so malformed parent data cannot loop forever.
const MaxDepth = 64

// RequestContext holds the page lookup hints bound to the current request.
type RequestContext struct {
	Page  *domain.Page
	Path  string
	Route string
}

// PageRequest carries everything one page projection needs. URL and Route
// are explicit lookups that bypass request inference.
type PageRequest struct {
	SiteID      string
	URL         string
	Route       string
	Context     RequestContext
	RequestPath string
	BaseURL     string
}

// PageProjector builds a breadcrumb-style tree around a resolved page: its
// ancestors from the top section down, each with its visible children, and
// the page's own children nested one level deeper.
type PageProjector struct {
	source PageSource
}

// NewPageProjector creates a PageProjector reading from source.
func NewPageProjector(source PageSource) *PageProjector {
	return &PageProjector{source: source}
}

// Project resolves the page for req and builds its tree.
func (p *PageProjector) Project(ctx context.Context, req PageRequest) (*RenderNode, error) {
	page, lookup, err := p.resolvePage(ctx, req)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, &NotFoundError{Lookup: lookup}
	}

	tree := NewRenderNode(RootName)

	homepage, err := p.source.Homepage(ctx, page.SiteID)
	if err != nil {
		return nil, fmt.Errorf("loading homepage for site %s: %w", page.SiteID, err)
	}

	chain, err := p.ancestors(ctx, page, homepage)
	if err != nil {
		return nil, err
	}
	if len(chain) == 0 && isChildOf(page, homepage) {
		chain = []*domain.Page{page}
	}
	slices.Reverse(chain)

	leaf := tree
	for i, entry := range chain {
		children, err := p.source.VisibleChildren(ctx, entry)
		if err != nil {
			return nil, fmt.Errorf("loading children of page %q: %w", entry.Name, err)
		}

		// A linked entry was already attached as one of its parent's
		// children; reuse that node instead of duplicating it.
		next := leaf.ChildBySource(entry.ID)
		if next == nil || i == 0 {
			next = leaf.AddChild(pageItem(entry, req.BaseURL, i > 0))
		}
		leaf = next

		for _, child := range children {
			item := leaf.AddChild(pageItem(child, req.BaseURL, true))
			if child.ID != page.ID {
				continue
			}
			grandchildren, err := p.source.VisibleChildren(ctx, page)
			if err != nil {
				return nil, fmt.Errorf("loading children of page %q: %w", page.Name, err)
			}
			for _, gc := range grandchildren {
				item.AddChild(pageItem(gc, req.BaseURL, true))
			}
		}
	}

	MarkCurrent(tree, req.RequestPath)
	return tree, nil
}

// resolvePage applies the lookup priority: explicit url, explicit route,
// request-bound page, request path, request route. Explicit lookups do not
// fall through to request inference.
func (p *PageProjector) resolvePage(ctx context.Context, req PageRequest) (*domain.Page, string, error) {
	if req.URL != "" {
		page, err := p.source.PageByURL(ctx, req.SiteID, req.URL)
		if err != nil {
			return nil, "", fmt.Errorf("looking up page by url %q: %w", req.URL, err)
		}
		return page, "url=" + req.URL, nil
	}
	if req.Route != "" {
		page, err := p.source.PageByRoute(ctx, req.SiteID, req.Route)
		if err != nil {
			return nil, "", fmt.Errorf("looking up page by route %q: %w", req.Route, err)
		}
		return page, "route=" + req.Route, nil
	}

	rc := req.Context
	if rc.Page != nil {
		return rc.Page, "", nil
	}
	var lookup string
	if rc.Path != "" {
		page, err := p.source.PageByURL(ctx, req.SiteID, rc.Path)
		if err != nil {
			return nil, "", fmt.Errorf("looking up page by request path %q: %w", rc.Path, err)
		}
		if page != nil {
			return page, "", nil
		}
		lookup = "path=" + rc.Path
	}
	if rc.Route != "" {
		page, err := p.source.PageByRoute(ctx, req.SiteID, rc.Route)
		if err != nil {
			return nil, "", fmt.Errorf("looking up page by request route %q: %w", rc.Route, err)
		}
		if page != nil {
			return page, "", nil
		}
		lookup = "route=" + rc.Route
	}
	return nil, lookup, nil
}

// ancestors collects the strict ancestors of page, nearest first, stopping
// below the homepage. A repeated id or MaxDepth ends the walk.
func (p *PageProjector) ancestors(ctx context.Context, page, homepage *domain.Page) ([]*domain.Page, error) {
	var chain []*domain.Page
	visited := map[string]bool{page.ID: true}
	current := page
	for depth := 0; depth < MaxDepth; depth++ {
		if current.ParentID == nil || isChildOf(current, homepage) {
			break
		}
		parentID := *current.ParentID
		if visited[parentID] {
			break
		}
		parent, err := p.source.PageByID(ctx, parentID)
		if err != nil {
			return nil, fmt.Errorf("loading parent page %s: %w", parentID, err)
		}
		if parent == nil {
			break
		}
		visited[parent.ID] = true
		chain = append(chain, parent)
		current = parent
	}
	return chain, nil
}

func isChildOf(page, parent *domain.Page) bool {
	return parent != nil && page.ParentID != nil && *page.ParentID == parent.ID
}

// pageItem builds the render node for one page. Unlinked items (section
// headers) only get a URI from a redirect.
func pageItem(page *domain.Page, baseURL string, linked bool) *RenderNode {
	item := NewRenderNode(page.Name)
	item.SourceID = page.ID

	if linked {
		item.SetURI(baseURL + page.URL)
	}
	if page.RedirectURL != "" {
		item.SetURI(page.RedirectURL)
		item.Attributes[AttrTarget] = "_blank"
	}
	if page.IsDynamic && item.URI != nil {
		item.SetURI(TruncateDynamic(*item.URI))
	}
	return item
}
