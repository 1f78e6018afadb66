package navigation

import (
	"context"

	"github.com/alexanderramin/sitemenu/internal/domain"
)

// MenuSource supplies nested-set menu data. Lookups return (nil, nil) when
// nothing matches.
type MenuSource interface {
	RootByName(ctx context.Context, name, siteID string) (*domain.MenuNode, error)
	// Descendants returns every descendant of root exactly once, ordered by
	// ascending left bound.
	Descendants(ctx context.Context, root *domain.MenuNode) ([]*domain.MenuNode, error)
}

// PageSource supplies pages. Lookups return (nil, nil) when nothing matches.
type PageSource interface {
	PageByID(ctx context.Context, id string) (*domain.Page, error)
	PageByURL(ctx context.Context, siteID, url string) (*domain.Page, error)
	PageByRoute(ctx context.Context, siteID, route string) (*domain.Page, error)
	Homepage(ctx context.Context, siteID string) (*domain.Page, error)
	// VisibleChildren returns the visible children of page ordered by
	// ascending position. Visibility is the source's decision.
	VisibleChildren(ctx context.Context, page *domain.Page) ([]*domain.Page, error)
}
