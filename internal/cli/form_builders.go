package cli

import (
	"github.com/alexanderramin/sitemenu/internal/domain"
	"github.com/charmbracelet/huh"
)

// Link kinds offered by the interactive menu item form.
const (
	linkNone     = "none"
	linkPage     = "page"
	linkExternal = "external"
)

// menuItemInput collects the editable fields of a menu item.
type menuItemInput struct {
	Name     string
	LinkKind string
	Target   string // page url or external url, depending on LinkKind
	Class    string
	Header   string
	Locked   bool
}

// menuItemInputFrom prefills the form fields from a stored node.
func menuItemInputFrom(node *domain.MenuNode) menuItemInput {
	in := menuItemInput{
		Name:     node.Name,
		LinkKind: linkNone,
		Class:    node.Class,
		Header:   node.Header,
		Locked:   !node.Deletable,
	}
	switch {
	case node.PageID != nil:
		in.LinkKind, in.Target = linkPage, node.PageURL
	case node.ExternalURL != "":
		in.LinkKind, in.Target = linkExternal, node.ExternalURL
	}
	return in
}

// menuItemForm returns a themed form writing into in. Fields already set on
// in are used as defaults.
func menuItemForm(in *menuItemInput) *huh.Form {
	if in.LinkKind == "" {
		in.LinkKind = linkPage
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("About us").
				Value(&in.Name).
				Validate(validateRequired("name")),
			huh.NewSelect[string]().
				Title("Link").
				Options(
					huh.NewOption("Site page", linkPage),
					huh.NewOption("External or raw URL", linkExternal),
					huh.NewOption("No link (section header)", linkNone),
				).
				Value(&in.LinkKind),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Target").
				Description("Page URL such as /about, or a full URL").
				Value(&in.Target).
				Validate(validateRequired("target")),
		).WithHideFunc(func() bool { return in.LinkKind == linkNone }),
		huh.NewGroup(
			huh.NewInput().
				Title("CSS class").
				Value(&in.Class),
			huh.NewText().
				Title("Header (markdown, optional)").
				Value(&in.Header).
				Validate(validateHeader),
			huh.NewConfirm().
				Title("Lock against deletion?").
				Value(&in.Locked),
		),
	).WithTheme(formTheme()).WithShowHelp(false)
}
