package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/sitemenu/internal/domain"
	"github.com/alexanderramin/sitemenu/internal/navigation"
)

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	site := domain.Site{Name: schema.Site.Name}
	if err := site.ValidateName(); err != nil {
		errs = append(errs, fmt.Errorf("site.name: %w", err))
	}

	pageRefs := make(map[string]bool)
	errs = append(errs, validatePages(schema.Pages, pageRefs)...)
	errs = append(errs, validateMenus(schema.Menus, pageRefs)...)

	return errs
}

func validatePages(pages []PageImport, refs map[string]bool) []error {
	var errs []error
	urls := make(map[string]string)

	for i, p := range pages {
		prefix := fmt.Sprintf("pages[%d]", i)
		if p.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if refs[p.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, p.Ref))
		}
		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if p.URL == "" {
			errs = append(errs, fmt.Errorf("%s.url is required", prefix))
		} else {
			url := normalizeURL(p.URL)
			if other, ok := urls[url]; ok {
				errs = append(errs, fmt.Errorf("%s.url: %q already used by page %q", prefix, url, other))
			}
			urls[url] = p.Ref
		}
		if p.ParentRef != nil && *p.ParentRef != "" {
			if *p.ParentRef == p.Ref {
				errs = append(errs, fmt.Errorf("%s.parent_ref: page cannot be its own parent", prefix))
			} else if !refs[*p.ParentRef] {
				errs = append(errs, fmt.Errorf("%s.parent_ref: unknown or later page %q", prefix, *p.ParentRef))
			}
		}
		if p.Ref != "" {
			refs[p.Ref] = true
		}
	}
	return errs
}

func validateMenus(menus []MenuImport, pageRefs map[string]bool) []error {
	var errs []error
	names := make(map[string]bool)

	for i, m := range menus {
		prefix := fmt.Sprintf("menus[%d]", i)
		if strings.TrimSpace(m.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		} else if names[m.Name] {
			errs = append(errs, fmt.Errorf("%s.name: duplicate menu %q", prefix, m.Name))
		}
		names[m.Name] = true
		if len(m.Header) > domain.MaxHeaderLen {
			errs = append(errs, fmt.Errorf("%s.header exceeds %d characters", prefix, domain.MaxHeaderLen))
		}
		errs = append(errs, validateItems(prefix+".items", m.Items, pageRefs, 1)...)
	}
	return errs
}

func validateItems(prefix string, items []MenuItemImport, pageRefs map[string]bool, depth int) []error {
	if depth > navigation.MaxDepth {
		return []error{fmt.Errorf("%s: nesting deeper than %d levels", prefix, navigation.MaxDepth)}
	}

	var errs []error
	for i, item := range items {
		p := fmt.Sprintf("%s[%d]", prefix, i)
		if strings.TrimSpace(item.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", p))
		}
		if item.PageRef != "" && item.ExternalURL != "" {
			errs = append(errs, fmt.Errorf("%s: page_ref and external_url are mutually exclusive", p))
		}
		if item.PageRef != "" && !pageRefs[item.PageRef] {
			errs = append(errs, fmt.Errorf("%s.page_ref: unknown page %q", p, item.PageRef))
		}
		if len(item.Header) > domain.MaxHeaderLen {
			errs = append(errs, fmt.Errorf("%s.header exceeds %d characters", p, domain.MaxHeaderLen))
		}
		errs = append(errs, validateItems(p+".children", item.Children, pageRefs, depth+1)...)
	}
	return errs
}

func normalizeURL(url string) string {
	p := domain.Page{URL: url}
	p.Normalize()
	return p.URL
}
