package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/sitemenu/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resolveSite resolves the --site flag: a site name, or the default site
// when the flag is empty.
func resolveSite(ctx context.Context, app *App, cmd *cobra.Command) (*domain.Site, error) {
	name := flagString(cmd.Flags(), "site")
	site, err := app.Sites.Resolve(ctx, name)
	if err != nil {
		if name == "" {
			return nil, fmt.Errorf("no default site (create one with 'site add --default'): %w", err)
		}
		return nil, fmt.Errorf("site %q: %w", name, err)
	}
	return site, nil
}

func baseURLFlag(cmd *cobra.Command) string {
	return flagString(cmd.Flags(), "base-url")
}

// flagString returns the trimmed value of a string flag, "" when the flag
// is not defined on fs.
func flagString(fs *pflag.FlagSet, name string) string {
	v, err := fs.GetString(name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

// resolveMenuNodeID resolves a menu node identifier within a site. The input
// can be a full UUID or a unique UUID prefix.
func resolveMenuNodeID(ctx context.Context, app *App, site *domain.Site, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("menu node ID is required")
	}

	roots, err := app.Menus.ListRoots(ctx, site.ID)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, root := range roots {
		nodes, err := app.Menus.Tree(ctx, root.ID)
		if err != nil {
			return "", err
		}
		for _, n := range nodes {
			if n.ID == input {
				return n.ID, nil
			}
			if strings.HasPrefix(n.ID, input) {
				matches = append(matches, n.ID)
			}
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("menu node not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("menu node ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
