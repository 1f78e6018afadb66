package cli

import (
	"net/http"

	"github.com/alexanderramin/sitemenu/internal/config"
	"github.com/alexanderramin/sitemenu/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Sites      service.SiteService
	Pages      service.PageService
	Menus      service.MenuService
	Navigation service.NavigationService
	Import     service.ImportService

	Config  *config.Config
	Metrics http.Handler

	// IsInteractive reports whether stdin is a terminal; interactive forms
	// and confirmations are only offered when it returns true.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) config() *config.Config {
	if a.Config == nil {
		cfg := config.DefaultConfig()
		a.Config = &cfg
	}
	return a.Config
}

// NewRootCmd creates the top-level "sitemenu" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	cfg := app.config()
	root := &cobra.Command{
		Use:           "sitemenu",
		Short:         "Multi-site menu and page navigation manager",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("site", cfg.Site, "Site name (default site when empty)")
	root.PersistentFlags().String("base-url", cfg.BaseURL, "Request base URL prefixed to internal links")

	root.AddCommand(
		newSiteCmd(app),
		newPageCmd(app),
		newMenuCmd(app),
		newImportCmd(app),
		newServeCmd(app),
	)

	return root
}
