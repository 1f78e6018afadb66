package repository

import (
	"context"

	"github.com/alexanderramin/sitemenu/internal/domain"
	"github.com/alexanderramin/sitemenu/internal/navigation"
)

type SiteRepo interface {
	Create(ctx context.Context, s *domain.Site) error
	GetByID(ctx context.Context, id string) (*domain.Site, error)
	GetByName(ctx context.Context, name string) (*domain.Site, error)
	GetDefault(ctx context.Context) (*domain.Site, error)
	List(ctx context.Context) ([]*domain.Site, error)
	Update(ctx context.Context, s *domain.Site) error
	// ClearDefault unflags every default site other than exceptID.
	ClearDefault(ctx context.Context, exceptID string) error
	Delete(ctx context.Context, id string) error
}

type PageRepo interface {
	navigation.PageSource

	Create(ctx context.Context, p *domain.Page) error
	GetByID(ctx context.Context, id string) (*domain.Page, error)
	ListBySite(ctx context.Context, siteID string) ([]*domain.Page, error)
	ListChildren(ctx context.Context, parentID string, visibleOnly bool) ([]*domain.Page, error)
	Update(ctx context.Context, p *domain.Page) error
	Delete(ctx context.Context, id string) error
}

// MenuRepo stores nested-set menu trees. Bound maintenance is left to the
// caller, which runs the shift and the insert in one transaction.
type MenuRepo interface {
	navigation.MenuSource

	Create(ctx context.Context, m *domain.MenuNode) error
	GetByID(ctx context.Context, id string) (*domain.MenuNode, error)
	ListRoots(ctx context.Context, siteID string) ([]*domain.MenuNode, error)
	// ListTree returns the root and all its descendants ordered by left bound.
	ListTree(ctx context.Context, rootID string) ([]*domain.MenuNode, error)
	Update(ctx context.Context, m *domain.MenuNode) error
	SetEnabled(ctx context.Context, id string, enabled bool) error
	// OpenGap shifts every bound >= at by width inside the tree rootID.
	OpenGap(ctx context.Context, rootID string, at, width int) error
	// CloseGap shifts every bound > after down by width inside the tree rootID.
	CloseGap(ctx context.Context, rootID string, after, width int) error
	// DeleteSubtree removes m and every node inside its span.
	DeleteSubtree(ctx context.Context, m *domain.MenuNode) error
}
