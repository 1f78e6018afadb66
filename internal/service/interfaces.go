package service

import (
	"context"

	"github.com/alexanderramin/sitemenu/internal/domain"
	"github.com/alexanderramin/sitemenu/internal/importer"
	"github.com/alexanderramin/sitemenu/internal/navigation"
)

type SiteService interface {
	// Create stores the site and a root for each named menu in one
	// transaction.
	Create(ctx context.Context, s *domain.Site, menus ...string) error
	SetDefault(ctx context.Context, name string) (*domain.Site, error)
	GetByName(ctx context.Context, name string) (*domain.Site, error)
	// Resolve returns the named site, or the default site when name is empty.
	Resolve(ctx context.Context, name string) (*domain.Site, error)
	List(ctx context.Context) ([]*domain.Site, error)
}

type PageService interface {
	Create(ctx context.Context, p *domain.Page) error
	Update(ctx context.Context, p *domain.Page) error
	GetByURL(ctx context.Context, siteID, url string) (*domain.Page, error)
	ListBySite(ctx context.Context, siteID string) ([]*domain.Page, error)
}

type MenuService interface {
	CreateRoot(ctx context.Context, site *domain.Site, name string) (*domain.MenuNode, error)
	// EnsureDefaultMenus creates the named roots that do not exist yet;
	// with no names it ensures main and footer.
	EnsureDefaultMenus(ctx context.Context, site *domain.Site, names ...string) error
	AppendChild(ctx context.Context, parentID string, node *domain.MenuNode) error
	GetByID(ctx context.Context, id string) (*domain.MenuNode, error)
	RootByName(ctx context.Context, siteID, name string) (*domain.MenuNode, error)
	Update(ctx context.Context, node *domain.MenuNode) error
	SetEnabled(ctx context.Context, id string, enabled bool) error
	Delete(ctx context.Context, id string) error
	ListRoots(ctx context.Context, siteID string) ([]*domain.MenuNode, error)
	// Tree returns the root and every descendant, disabled ones included.
	Tree(ctx context.Context, rootID string) ([]*domain.MenuNode, error)
}

// MenuTreeRequest selects a menu position of a site. A nil Site matches
// roots of any site.
type MenuTreeRequest struct {
	Site        *domain.Site
	Position    string
	RequestPath string
	BaseURL     string
	Attributes  map[string]string
}

// PageTreeRequest selects a page explicitly (URL, Route) or through the
// request-bound hints in Context.
type PageTreeRequest struct {
	Site        *domain.Site
	URL         string
	Route       string
	Context     navigation.RequestContext
	RequestPath string
	BaseURL     string
}

type NavigationService interface {
	MenuTree(ctx context.Context, req MenuTreeRequest) (*navigation.RenderNode, error)
	PageTree(ctx context.Context, req PageTreeRequest) (*navigation.RenderNode, error)
}

type ImportService interface {
	ImportSite(ctx context.Context, filePath string) (*ImportResult, error)
	ImportSiteFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}

// ImportResult summarises one site import.
type ImportResult struct {
	Site      *domain.Site
	PageCount int
	MenuCount int
	ItemCount int
}
