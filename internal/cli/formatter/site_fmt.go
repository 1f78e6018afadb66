package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/sitemenu/internal/domain"
)

// FormatSiteList renders sites as a table.
func FormatSiteList(sites []*domain.Site) string {
	rows := make([][]string, 0, len(sites))
	for _, s := range sites {
		def := ""
		if s.IsDefault {
			def = StyleYellow.Render("★")
		}
		rows = append(rows, []string{
			TruncID(s.ID),
			Bold(s.Name),
			s.Host,
			OrDash(s.BaseURL()),
			def,
			EnabledPill(s.Enabled),
		})
	}
	return RenderTable([]string{"ID", "NAME", "HOST", "PATH", "DEFAULT", "STATUS"}, rows)
}

// FormatPageList renders pages as a table ordered as given.
func FormatPageList(pages []*domain.Page) string {
	rows := make([][]string, 0, len(pages))
	for _, p := range pages {
		var flags []string
		if p.IsDynamic {
			flags = append(flags, "dynamic")
		}
		if !p.ShowInMenu {
			flags = append(flags, "hidden")
		}
		if p.RedirectURL != "" {
			flags = append(flags, "redirect")
		}
		rows = append(rows, []string{
			p.URL,
			p.Name,
			OrDash(p.RouteName),
			strconv.Itoa(p.Position),
			EnabledPill(p.Enabled),
			Dim(strings.Join(flags, ",")),
		})
	}
	return RenderTable([]string{"URL", "NAME", "ROUTE", "POS", "STATUS", "FLAGS"}, rows)
}

// FormatMenuTree renders a nested-set feed (root first, ascending left) as
// an admin tree with ids, bounds and link targets.
func FormatMenuTree(nodes []*domain.MenuNode) string {
	if len(nodes) == 0 {
		return ""
	}
	byID := make(map[string]*domain.MenuNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	items := make([]TreeItem, 0, len(nodes))
	for _, n := range nodes {
		isLast := true
		if n.ParentID != nil {
			if parent, ok := byID[*n.ParentID]; ok {
				isLast = n.Right+1 == parent.Right
			}
		}
		detail := fmt.Sprintf("%d..%d", n.Left, n.Right)
		if url := n.URL(); url != "" {
			detail = url + "  " + detail
		}
		items = append(items, TreeItem{
			Title:    n.Name,
			ID:       n.ID,
			Level:    n.Level,
			IsLast:   isLast,
			Disabled: !n.Enabled,
			Locked:   !n.Deletable,
			Detail:   detail,
		})
	}
	return RenderTree(items)
}

// FormatImportResult summarises a site import in a box.
func FormatImportResult(site *domain.Site, pages, menus, items int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", StyleGreen.Render("✔"), Bold("Imported site "+site.Name))
	fmt.Fprintf(&b, "%s %d\n", Dim("pages:"), pages)
	fmt.Fprintf(&b, "%s %d\n", Dim("menus:"), menus)
	fmt.Fprintf(&b, "%s %d", Dim("items:"), items)
	return RenderBox(site.BaseURL(), b.String()) + "\n"
}
