package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/sitemenu/internal/domain"
	"github.com/google/uuid"
)

// GeneratedSite holds the domain objects produced from an import file, in
// an order that satisfies foreign keys: parents before children.
type GeneratedSite struct {
	Site  *domain.Site
	Pages []*domain.Page
	// Menus lists every root followed by its items in ascending left order.
	Menus []*domain.MenuNode
}

// Convert transforms a validated ImportSchema into domain objects ready for persistence.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema) (*GeneratedSite, error) {
	now := time.Now().UTC()

	site := &domain.Site{
		ID:           uuid.New().String(),
		Name:         schema.Site.Name,
		Host:         domain.CoalesceStr(schema.Site.Host, "localhost"),
		RelativePath: schema.Site.RelativePath,
		Enabled:      true,
		IsDefault:    schema.Site.Default,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	pagesByRef := make(map[string]*domain.Page, len(schema.Pages))
	pages := make([]*domain.Page, 0, len(schema.Pages))
	for _, p := range schema.Pages {
		page := &domain.Page{
			ID:          uuid.New().String(),
			SiteID:      site.ID,
			Name:        p.Name,
			URL:         p.URL,
			RouteName:   p.Route,
			RedirectURL: p.RedirectURL,
			Enabled:     !p.Disabled,
			ShowInMenu:  !p.Hidden,
			Position:    p.Position,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if ref := domain.DerefStr(p.ParentRef); ref != "" {
			parent, ok := pagesByRef[ref]
			if !ok {
				return nil, fmt.Errorf("page %q: unresolved parent_ref %q", p.Ref, ref)
			}
			page.ParentID = &parent.ID
		}
		page.Normalize()
		pagesByRef[p.Ref] = page
		pages = append(pages, page)
	}

	var menus []*domain.MenuNode
	for _, m := range schema.Menus {
		root := &domain.MenuNode{
			ID:        uuid.New().String(),
			SiteID:    site.ID,
			Name:      m.Name,
			Header:    m.Header,
			Enabled:   !m.Disabled,
			Deletable: false,
			CreatedAt: now,
			UpdatedAt: now,
		}
		root.RootID = root.ID

		nodes := []*domain.MenuNode{root}
		next := 2
		var err error
		for _, item := range m.Items {
			nodes, next, err = convertItem(item, root, root, nodes, next, pagesByRef, now)
			if err != nil {
				return nil, err
			}
		}
		root.Left = 1
		root.Right = next
		menus = append(menus, nodes...)
	}

	return &GeneratedSite{Site: site, Pages: pages, Menus: menus}, nil
}

// convertItem appends item and its subtree to nodes in pre-order, assigning
// nested-set bounds starting at next. It returns the next free bound.
func convertItem(
	item MenuItemImport,
	parent, root *domain.MenuNode,
	nodes []*domain.MenuNode,
	next int,
	pagesByRef map[string]*domain.Page,
	now time.Time,
) ([]*domain.MenuNode, int, error) {
	pid := parent.ID
	node := &domain.MenuNode{
		ID:          uuid.New().String(),
		SiteID:      root.SiteID,
		RootID:      root.ID,
		ParentID:    &pid,
		Name:        item.Name,
		Level:       parent.Level + 1,
		Left:        next,
		Enabled:     !item.Disabled,
		Deletable:   !item.Locked,
		ExternalURL: item.ExternalURL,
		Header:      item.Header,
		Class:       item.Class,
		Template:    item.Template,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if item.PageRef != "" {
		page, ok := pagesByRef[item.PageRef]
		if !ok {
			return nil, 0, fmt.Errorf("menu item %q: unresolved page_ref %q", item.Name, item.PageRef)
		}
		node.PageID = &page.ID
		node.PageURL = page.URL
	}
	nodes = append(nodes, node)
	next++

	var err error
	for _, child := range item.Children {
		nodes, next, err = convertItem(child, node, root, nodes, next, pagesByRef, now)
		if err != nil {
			return nil, 0, err
		}
	}
	node.Right = next
	return nodes, next + 1, nil
}
