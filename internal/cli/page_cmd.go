package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/sitemenu/internal/cli/formatter"
	"github.com/alexanderramin/sitemenu/internal/domain"
	"github.com/alexanderramin/sitemenu/internal/navigation"
	"github.com/alexanderramin/sitemenu/internal/service"
	"github.com/spf13/cobra"
)

func newPageCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page",
		Short: "Manage pages and render page menus",
	}

	cmd.AddCommand(
		newPageAddCmd(app),
		newPageEditCmd(app),
		newPageListCmd(app),
		newPageRenderCmd(app),
	)

	return cmd
}

func newPageAddCmd(app *App) *cobra.Command {
	var name, url, parentURL, route, redirect string
	var position int
	var hidden, disabled bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a page",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			site, err := resolveSite(ctx, app, cmd)
			if err != nil {
				return err
			}

			p := &domain.Page{
				SiteID:      site.ID,
				Name:        name,
				URL:         url,
				RouteName:   route,
				RedirectURL: redirect,
				Position:    position,
				Enabled:     !disabled,
				ShowInMenu:  !hidden,
			}
			if parentURL != "" {
				parent, err := app.Pages.GetByURL(ctx, site.ID, parentURL)
				if err != nil {
					return fmt.Errorf("parent page: %w", err)
				}
				p.ParentID = &parent.ID
			}

			if err := app.Pages.Create(ctx, p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created page %s (%s)\n", p.Name, p.URL)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Page name")
	cmd.Flags().StringVar(&url, "url", "", "Page URL, may contain {placeholders}")
	cmd.Flags().StringVar(&parentURL, "parent", "", "URL of the parent page")
	cmd.Flags().StringVar(&route, "route", "", "Route name")
	cmd.Flags().StringVar(&redirect, "redirect", "", "Redirect URL (opens in a new window)")
	cmd.Flags().IntVar(&position, "position", 0, "Sort position among siblings")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "Hide from menus")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "Create disabled")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func newPageEditCmd(app *App) *cobra.Command {
	var name, url, parentURL, route, redirect string
	var position int
	var show, enabled bool

	cmd := &cobra.Command{
		Use:   "edit URL",
		Short: "Change the fields of a page",
		Long: `Change the fields of a page, selected by its current URL.

Only the flags given are applied; --show=false hides the page from menus
and --enabled=false disables it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			site, err := resolveSite(ctx, app, cmd)
			if err != nil {
				return err
			}
			p, err := app.Pages.GetByURL(ctx, site.ID, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				p.Name = name
			}
			if flags.Changed("url") {
				p.URL = url
			}
			if flags.Changed("route") {
				p.RouteName = route
			}
			if flags.Changed("redirect") {
				p.RedirectURL = redirect
			}
			if flags.Changed("position") {
				p.Position = position
			}
			if flags.Changed("show") {
				p.ShowInMenu = show
			}
			if flags.Changed("enabled") {
				p.Enabled = enabled
			}
			if flags.Changed("parent") {
				p.ParentID = nil
				if parentURL != "" {
					parent, err := app.Pages.GetByURL(ctx, site.ID, parentURL)
					if err != nil {
						return fmt.Errorf("parent page: %w", err)
					}
					p.ParentID = &parent.ID
				}
			}

			if err := app.Pages.Update(ctx, p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated page %s (%s)\n", p.Name, p.URL)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Page name")
	cmd.Flags().StringVar(&url, "url", "", "New page URL")
	cmd.Flags().StringVar(&parentURL, "parent", "", "URL of the parent page, empty for a top-level page")
	cmd.Flags().StringVar(&route, "route", "", "Route name")
	cmd.Flags().StringVar(&redirect, "redirect", "", "Redirect URL")
	cmd.Flags().IntVar(&position, "position", 0, "Sort position among siblings")
	cmd.Flags().BoolVar(&show, "show", true, "Show in menus")
	cmd.Flags().BoolVar(&enabled, "enabled", true, "Enable the page")

	return cmd
}

func newPageListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the pages of a site",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			site, err := resolveSite(ctx, app, cmd)
			if err != nil {
				return err
			}
			pages, err := app.Pages.ListBySite(ctx, site.ID)
			if err != nil {
				return err
			}

			if len(pages) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No pages found.")
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPageList(pages))
			return nil
		},
	}
}

func newPageRenderCmd(app *App) *cobra.Command {
	var url, route, path, requestRoute, format string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the page menu around a page",
		Long: `Render the page menu around a page.

--url and --route select the page explicitly. Without them the page is
inferred from --path, then from --request-route.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			site, err := resolveSite(ctx, app, cmd)
			if err != nil {
				return err
			}

			tree, err := app.Navigation.PageTree(ctx, service.PageTreeRequest{
				Site:  site,
				URL:   url,
				Route: route,
				Context: navigation.RequestContext{
					Path:  path,
					Route: requestRoute,
				},
				RequestPath: path,
				BaseURL:     baseURLFlag(cmd),
			})
			if err != nil {
				return err
			}
			return writeTree(ctx, cmd.OutOrStdout(), app, tree, format)
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Page URL")
	cmd.Flags().StringVar(&route, "route", "", "Page route name")
	cmd.Flags().StringVar(&path, "path", "", "Current request path")
	cmd.Flags().StringVar(&requestRoute, "request-route", "", "Route name of the current request")
	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text, html or json")

	return cmd
}
