package navigation

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/alexanderramin/sitemenu/internal/domain"
)

// MenuRequest carries everything one menu projection needs.
type MenuRequest struct {
	// Position is the name of the menu root to project. Required.
	Position string
	SiteID   string
	// RequestPath is the path of the current request, used for current marking.
	RequestPath string
	// BaseURL is the request base (front controller) prefix.
	BaseURL string
	// SiteBaseURL is the tenant's relative path, appended after BaseURL.
	SiteBaseURL string
	// ChildrenAttributes is applied to the root's children container.
	ChildrenAttributes map[string]string
}

// MenuProjector turns a nested-set menu feed into a RenderNode tree.
type MenuProjector struct {
	source MenuSource
}

// NewMenuProjector creates a MenuProjector reading from source.
func NewMenuProjector(source MenuSource) *MenuProjector {
	return &MenuProjector{source: source}
}

// Project builds the render tree for req.Position. A missing or disabled
// root yields an empty tree rather than an error.
func (p *MenuProjector) Project(ctx context.Context, req MenuRequest) (*RenderNode, error) {
	if strings.TrimSpace(req.Position) == "" {
		return nil, &ConfigurationError{Option: "position"}
	}

	tree := NewRenderNode(RootName)
	if len(req.ChildrenAttributes) > 0 {
		maps.Copy(tree.ChildrenAttributes, req.ChildrenAttributes)
	}

	root, err := p.source.RootByName(ctx, req.Position, req.SiteID)
	if err != nil {
		return nil, fmt.Errorf("resolving menu root %q: %w", req.Position, err)
	}
	if root == nil || !root.Enabled {
		return tree, nil
	}
	tree.SourceID = root.ID
	tree.Header = root.Header
	tree.Template = root.Template

	feed, err := p.source.Descendants(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("loading menu %q: %w", req.Position, err)
	}

	visible := visibleNodes(feed)
	survivingChildren := make(map[string]int, len(visible))
	for _, n := range visible {
		if n.ParentID != nil {
			survivingChildren[*n.ParentID]++
		}
	}

	built := make(map[string]*RenderNode, len(visible)+1)
	built[root.ID] = tree
	for _, n := range visible {
		if n.Level <= 0 || n.ID == root.ID {
			continue
		}
		parent := mountPoint(tree, n, built)
		item := parent.AddChild(menuItem(n, req, survivingChildren[n.ID] > 0))
		built[n.ID] = item
	}

	MarkCurrent(tree, req.RequestPath)
	return tree, nil
}

// visibleNodes drops disabled nodes and, transitively, everything below
// them. The feed is in ascending left order, so a parent is always seen
// before its children and one pass suffices.
func visibleNodes(feed []*domain.MenuNode) []*domain.MenuNode {
	suppressed := make(map[string]bool)
	visible := make([]*domain.MenuNode, 0, len(feed))
	for _, n := range feed {
		if !n.Enabled || (n.ParentID != nil && suppressed[*n.ParentID]) {
			suppressed[n.ID] = true
			continue
		}
		visible = append(visible, n)
	}
	return visible
}

// mountPoint finds the render node n attaches to. Level-1 nodes and nodes
// whose parent was never built hang off the root.
func mountPoint(tree *RenderNode, n *domain.MenuNode, built map[string]*RenderNode) *RenderNode {
	if n.Level == 1 || n.ParentID == nil {
		return tree
	}
	if parent, ok := built[*n.ParentID]; ok {
		return parent
	}
	return tree
}

func menuItem(n *domain.MenuNode, req MenuRequest, dropdown bool) *RenderNode {
	item := NewRenderNode(n.Name)
	item.SourceID = n.ID
	item.Header = n.Header
	item.Template = n.Template

	raw := n.URL()
	switch {
	case IsExternalURL(raw):
		item.SetURI(raw)
		item.Attributes[AttrTarget] = "_blank"
		item.Attributes[AttrRel] = "nofollow"
	case raw != "":
		item.SetURI(req.BaseURL + req.SiteBaseURL + raw)
	}

	if dropdown {
		item.Attributes[AttrDropdown] = "true"
	}
	if n.Class != "" {
		item.Attributes[AttrClass] = n.Class
	}
	return item
}
