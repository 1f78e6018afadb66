package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/a-h/templ"
	"github.com/alexanderramin/sitemenu/internal/navigation"
	"github.com/yuin/goldmark"
)

// DefaultCurrentClass is added to the li of the current node.
const DefaultCurrentClass = "active"

// HTMLOptions tunes HTML output.
type HTMLOptions struct {
	CurrentClass string
}

func (o HTMLOptions) currentClass() string {
	if o.CurrentClass == "" {
		return DefaultCurrentClass
	}
	return o.CurrentClass
}

// itemAttributes are rendered on the li rather than the link.
var itemAttributes = map[string]bool{
	navigation.AttrClass:    true,
	navigation.AttrDropdown: true,
}

var markdown = goldmark.New()

// Menu renders tree as a nav element holding nested ul/li lists. The root's
// children attributes go on the outer ul; a root header is rendered from
// markdown above the list.
func Menu(tree *navigation.RenderNode, opts HTMLOptions) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if tree == nil {
			return nil
		}
		if _, err := io.WriteString(w, `<nav class="sitemenu">`); err != nil {
			return err
		}
		if tree.Header != "" {
			header, err := Markdown(tree.Header)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, `<div class="menu-header">%s</div>`, header); err != nil {
				return err
			}
		}
		if tree.HasChildren() {
			if err := writeList(w, tree, opts); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</nav>`)
		return err
	})
}

// Document wraps body in a minimal standalone HTML page.
func Document(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html><head><meta charset="utf-8"><title>%s</title></head><body>`,
			templ.EscapeString(title)); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// Markdown converts a menu header to HTML. Raw HTML in the source is not
// passed through.
func Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering menu header: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func writeList(w io.Writer, parent *navigation.RenderNode, opts HTMLOptions) error {
	if _, err := fmt.Fprintf(w, "<ul%s>", attributeString(parent.ChildrenAttributes, nil)); err != nil {
		return err
	}
	for _, child := range parent.Children {
		if err := writeItem(w, child, opts); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</ul>")
	return err
}

func writeItem(w io.Writer, node *navigation.RenderNode, opts HTMLOptions) error {
	var classes []string
	if c := node.Attributes[navigation.AttrClass]; c != "" {
		classes = append(classes, c)
	}
	if node.IsCurrent {
		classes = append(classes, opts.currentClass())
	}
	li := map[string]string{}
	if len(classes) > 0 {
		li["class"] = strings.Join(classes, " ")
	}
	if node.Attributes[navigation.AttrDropdown] != "" {
		li["data-dropdown"] = node.Attributes[navigation.AttrDropdown]
	}
	if _, err := fmt.Fprintf(w, "<li%s>", attributeString(li, nil)); err != nil {
		return err
	}

	name := templ.EscapeString(node.Name)
	var err error
	if node.URI == nil {
		_, err = fmt.Fprintf(w, "<span>%s</span>", name)
	} else {
		_, err = fmt.Fprintf(w, `<a href="%s"%s>%s</a>`,
			templ.EscapeString(*node.URI), attributeString(node.Attributes, itemAttributes), name)
	}
	if err != nil {
		return err
	}

	if node.HasChildren() {
		if err := writeList(w, node, opts); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, "</li>")
	return err
}

// attributeString renders attrs in key order, skipping keys in skip.
func attributeString(attrs map[string]string, skip map[string]bool) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		if !skip[k] {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, ` %s="%s"`, templ.EscapeString(k), templ.EscapeString(attrs[k]))
	}
	return b.String()
}
