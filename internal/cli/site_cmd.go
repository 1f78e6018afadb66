package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/sitemenu/internal/cli/formatter"
	"github.com/alexanderramin/sitemenu/internal/domain"
	"github.com/spf13/cobra"
)

func newSiteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "site",
		Short: "Manage sites",
	}

	cmd.AddCommand(
		newSiteAddCmd(app),
		newSiteDefaultCmd(app),
		newSiteListCmd(app),
	)

	return cmd
}

func newSiteAddCmd(app *App) *cobra.Command {
	var host, path string
	var isDefault, noMenus bool

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a site and its default menus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			site := &domain.Site{
				Name:         args[0],
				Host:         host,
				RelativePath: path,
				Enabled:      true,
				IsDefault:    isDefault,
			}
			var menus []string
			if !noMenus {
				menus = app.config().MenuNames()
				if len(menus) == 0 {
					menus = []string{domain.MenuMain, domain.MenuFooter}
				}
			}
			if err := app.Sites.Create(ctx, site, menus...); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created site %s\n", site.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Host name (default localhost)")
	cmd.Flags().StringVar(&path, "path", "", "Relative path prefixed to menu links, e.g. /en")
	cmd.Flags().BoolVar(&isDefault, "default", false, "Mark as the default site")
	cmd.Flags().BoolVar(&noMenus, "no-menus", false, "Skip creating the configured menus")

	return cmd
}

func newSiteDefaultCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "default NAME",
		Short: "Make a site the default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := app.Sites.SetDefault(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default site is now %s\n", site.Name)
			return nil
		},
	}
}

func newSiteListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sites",
		RunE: func(cmd *cobra.Command, args []string) error {
			sites, err := app.Sites.List(context.Background())
			if err != nil {
				return err
			}

			if len(sites) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sites found.")
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSiteList(sites))
			return nil
		},
	}
}
