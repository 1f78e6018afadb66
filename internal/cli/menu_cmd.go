package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/sitemenu/internal/cli/formatter"
	"github.com/alexanderramin/sitemenu/internal/domain"
	"github.com/alexanderramin/sitemenu/internal/service"
	"github.com/alexanderramin/sitemenu/internal/web"
	"github.com/spf13/cobra"
)

func newMenuCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Manage and render menus",
	}

	cmd.AddCommand(
		newMenuInitCmd(app),
		newMenuAddCmd(app),
		newMenuEditCmd(app),
		newMenuListCmd(app),
		newMenuToggleCmd(app, "enable", true),
		newMenuToggleCmd(app, "disable", false),
		newMenuRemoveCmd(app),
		newMenuRenderCmd(app),
	)

	return cmd
}

func newMenuInitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init [POSITION...]",
		Short: "Create missing menu roots (configured menus by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			site, err := resolveSite(ctx, app, cmd)
			if err != nil {
				return err
			}
			names := args
			if len(names) == 0 {
				names = app.config().MenuNames()
			}
			if err := app.Menus.EnsureDefaultMenus(ctx, site, names...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Menus ready on %s: %s\n", site.Name, strings.Join(names, ", "))
			return nil
		},
	}
}

func newMenuAddCmd(app *App) *cobra.Command {
	var position, parent, pageURL, template string
	var interactive bool
	var in menuItemInput
	var disabled bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append an item to a menu",
		Long: `Append an item to a menu.

The item goes under --parent when given, otherwise directly under the
--position root. Link it to a site page with --page or to any URL with --url.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			site, err := resolveSite(ctx, app, cmd)
			if err != nil {
				return err
			}

			if pageURL != "" {
				in.LinkKind, in.Target = linkPage, pageURL
			} else if in.Target != "" {
				in.LinkKind = linkExternal
			}
			if interactive {
				if !app.interactive() {
					return fmt.Errorf("--interactive requires a terminal")
				}
				if err := menuItemForm(&in).Run(); err != nil {
					return err
				}
			}
			if strings.TrimSpace(in.Name) == "" {
				return fmt.Errorf("required flag \"name\" not set")
			}

			parentID, err := menuParentID(ctx, app, site, position, parent)
			if err != nil {
				return err
			}

			node := &domain.MenuNode{
				Name:      strings.TrimSpace(in.Name),
				Enabled:   !disabled,
				Deletable: !in.Locked,
				Class:     in.Class,
				Header:    in.Header,
				Template:  template,
			}
			switch in.LinkKind {
			case linkPage:
				if in.Target != "" {
					page, err := app.Pages.GetByURL(ctx, site.ID, in.Target)
					if err != nil {
						return fmt.Errorf("linked page: %w", err)
					}
					node.PageID = &page.ID
				}
			case linkExternal:
				node.ExternalURL = in.Target
			}

			if err := app.Menus.AppendChild(ctx, parentID, node); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", node.Name, formatter.TruncID(node.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&position, "position", domain.MenuMain, "Menu position (root name)")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent item ID or prefix")
	cmd.Flags().StringVar(&in.Name, "name", "", "Item name")
	cmd.Flags().StringVar(&pageURL, "page", "", "URL of the site page to link")
	cmd.Flags().StringVar(&in.Target, "url", "", "External or raw URL to link")
	cmd.Flags().StringVar(&in.Class, "class", "", "CSS class")
	cmd.Flags().StringVar(&in.Header, "header", "", "Markdown header")
	cmd.Flags().StringVar(&template, "template", "", "Template name for renderers")
	cmd.Flags().BoolVar(&in.Locked, "locked", false, "Protect the item from deletion")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "Create disabled")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill in the item with a form")
	cmd.MarkFlagsMutuallyExclusive("page", "url")

	return cmd
}

// menuParentID returns the resolved parent, or the position's root.
func menuParentID(ctx context.Context, app *App, site *domain.Site, position, parent string) (string, error) {
	if parent != "" {
		return resolveMenuNodeID(ctx, app, site, parent)
	}
	root, err := app.Menus.RootByName(ctx, site.ID, position)
	if err != nil {
		return "", fmt.Errorf("%w (run 'menu init %s' first)", err, position)
	}
	return root.ID, nil
}

func newMenuEditCmd(app *App) *cobra.Command {
	var name, pageURL, externalURL, class, header, template string
	var interactive bool

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change the name, link or presentation of a menu item",
		Long: `Change the name, link or presentation of a menu item.

ID is a full item ID or a unique prefix. --page links a site page and
drops any external URL; --url links an external URL and unlinks the page.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			site, err := resolveSite(ctx, app, cmd)
			if err != nil {
				return err
			}
			id, err := resolveMenuNodeID(ctx, app, site, args[0])
			if err != nil {
				return err
			}
			node, err := app.Menus.GetByID(ctx, id)
			if err != nil {
				return err
			}

			in := menuItemInputFrom(node)
			flags := cmd.Flags()
			if flags.Changed("name") {
				in.Name = name
			}
			if flags.Changed("page") {
				in.LinkKind, in.Target = linkPage, pageURL
			}
			if flags.Changed("url") {
				in.LinkKind, in.Target = linkExternal, externalURL
			}
			if flags.Changed("class") {
				in.Class = class
			}
			if flags.Changed("header") {
				in.Header = header
			}
			if flags.Changed("template") {
				node.Template = template
			}
			if interactive {
				if !app.interactive() {
					return fmt.Errorf("--interactive requires a terminal")
				}
				if err := menuItemForm(&in).Run(); err != nil {
					return err
				}
			}

			node.Name = strings.TrimSpace(in.Name)
			node.Class = in.Class
			node.Header = in.Header
			node.Deletable = !in.Locked && !node.IsRoot()
			node.PageID, node.PageURL, node.ExternalURL = nil, "", ""
			switch in.LinkKind {
			case linkPage:
				if in.Target != "" {
					page, err := app.Pages.GetByURL(ctx, site.ID, in.Target)
					if err != nil {
						return fmt.Errorf("linked page: %w", err)
					}
					node.PageID, node.PageURL = &page.ID, page.URL
				}
			case linkExternal:
				node.ExternalURL = in.Target
			}

			if err := app.Menus.Update(ctx, node); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", node.Name, formatter.TruncID(node.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Item name")
	cmd.Flags().StringVar(&pageURL, "page", "", "URL of the site page to link")
	cmd.Flags().StringVar(&externalURL, "url", "", "External or raw URL to link")
	cmd.Flags().StringVar(&class, "class", "", "CSS class")
	cmd.Flags().StringVar(&header, "header", "", "Markdown header")
	cmd.Flags().StringVar(&template, "template", "", "Template name for renderers")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Edit the item with a form")
	cmd.MarkFlagsMutuallyExclusive("page", "url")

	return cmd
}

func newMenuListCmd(app *App) *cobra.Command {
	var position string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show menu trees with ids, bounds and disabled items",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			site, err := resolveSite(ctx, app, cmd)
			if err != nil {
				return err
			}
			roots, err := app.Menus.ListRoots(ctx, site.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			shown := 0
			for _, root := range roots {
				if position != "" && root.Name != position {
					continue
				}
				nodes, err := app.Menus.Tree(ctx, root.ID)
				if err != nil {
					return err
				}
				if shown > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprint(out, formatter.FormatMenuTree(nodes))
				shown++
			}
			if shown == 0 {
				fmt.Fprintln(out, "No menus found.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&position, "position", "", "Only show this menu")

	return cmd
}

func newMenuToggleCmd(app *App, verb string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " ID",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " a menu item or root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			site, err := resolveSite(ctx, app, cmd)
			if err != nil {
				return err
			}
			id, err := resolveMenuNodeID(ctx, app, site, args[0])
			if err != nil {
				return err
			}
			if err := app.Menus.SetEnabled(ctx, id, enabled); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%sd %s\n", strings.ToUpper(verb[:1])+verb[1:], formatter.TruncID(id))
			return nil
		},
	}
}

func newMenuRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a menu item and everything below it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			site, err := resolveSite(ctx, app, cmd)
			if err != nil {
				return err
			}
			id, err := resolveMenuNodeID(ctx, app, site, args[0])
			if err != nil {
				return err
			}
			node, err := app.Menus.GetByID(ctx, id)
			if err != nil {
				return err
			}

			if !yes {
				if !app.interactive() {
					return fmt.Errorf("refusing to remove %q without --yes", node.Name)
				}
				var confirmed bool
				if err := confirmRemoval(node, &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			if err := app.Menus.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", node.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}

func newMenuRenderCmd(app *App) *cobra.Command {
	var position, path, format string
	var attrs []string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a menu as it would appear on the site",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			site, err := resolveSite(ctx, app, cmd)
			if err != nil {
				return err
			}
			attributes, err := web.ParseAttributes(attrs)
			if err != nil {
				return err
			}

			tree, err := app.Navigation.MenuTree(ctx, service.MenuTreeRequest{
				Site:        site,
				Position:    position,
				RequestPath: path,
				BaseURL:     baseURLFlag(cmd),
				Attributes:  attributes,
			})
			if err != nil {
				return err
			}
			return writeTree(ctx, cmd.OutOrStdout(), app, tree, format)
		},
	}

	cmd.Flags().StringVar(&position, "position", "", "Menu position to render (required)")
	cmd.Flags().StringArrayVar(&attrs, "attr", nil, "Attribute key=value for the menu list (repeatable)")
	cmd.Flags().StringVar(&path, "path", "", "Current request path, marks the current item")
	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text, html or json")

	return cmd
}
