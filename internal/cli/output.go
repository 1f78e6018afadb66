package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/alexanderramin/sitemenu/internal/cli/formatter"
	"github.com/alexanderramin/sitemenu/internal/navigation"
	"github.com/alexanderramin/sitemenu/internal/render"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatHTML = "html"
	formatJSON = "json"
)

func writeTree(ctx context.Context, w io.Writer, app *App, tree *navigation.RenderNode, format string) error {
	switch format {
	case "", formatText:
		_, err := fmt.Fprint(w, formatter.RenderNavTree(tree))
		return err
	case formatHTML:
		opts := render.HTMLOptions{CurrentClass: app.config().CurrentClass}
		if err := render.Menu(tree, opts).Render(ctx, w); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w)
		return err
	case formatJSON:
		return render.WriteJSON(w, tree)
	default:
		return fmt.Errorf("unknown format %q (use text, html or json)", format)
	}
}
