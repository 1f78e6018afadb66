package formatter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alexanderramin/sitemenu/internal/navigation"
	"github.com/charmbracelet/lipgloss/tree"
)

// Markers appended to render node labels.
const (
	MarkerExternal = "↗"
	MarkerDropdown = "▾"
	MarkerCurrent  = "▶"
)

// RenderNavTree draws a projected render tree. The current node is
// highlighted, external links and dropdowns are marked, and the URI and any
// remaining attributes are shown dimmed.
func RenderNavTree(root *navigation.RenderNode) string {
	if root == nil {
		return ""
	}
	t := buildTree(root, rootLabel(root))
	t.Enumerator(tree.RoundedEnumerator).EnumeratorStyle(StyleDim)
	out := t.String()
	if !root.HasChildren() {
		out += "\n" + Dim("(empty)")
	}
	return out + "\n"
}

func buildTree(n *navigation.RenderNode, label string) *tree.Tree {
	t := tree.Root(label)
	for _, c := range n.Children {
		if c.HasChildren() {
			t.Child(buildTree(c, nodeLabel(c)))
		} else {
			t.Child(nodeLabel(c))
		}
	}
	return t
}

func rootLabel(root *navigation.RenderNode) string {
	label := StyleHeader.Render(root.Name)
	if attrs := formatAttributes(root.ChildrenAttributes, nil); attrs != "" {
		label += " " + Dim(attrs)
	}
	return label
}

// labelAttributes are already expressed through markers.
var labelAttributes = map[string]bool{
	navigation.AttrTarget:   true,
	navigation.AttrRel:      true,
	navigation.AttrDropdown: true,
}

func nodeLabel(n *navigation.RenderNode) string {
	name := n.Name
	if n.IsCurrent {
		name = StyleYellowBold.Render(MarkerCurrent + " " + name)
	} else {
		name = StyleFg.Render(name)
	}

	var markers []string
	if n.Attributes[navigation.AttrDropdown] == "true" {
		markers = append(markers, StyleBlue.Render(MarkerDropdown))
	}
	if n.Attributes[navigation.AttrTarget] == "_blank" {
		markers = append(markers, StylePurple.Render(MarkerExternal))
	}

	parts := []string{name}
	parts = append(parts, markers...)
	if n.URI != nil {
		uri := *n.URI
		if uri == "" {
			uri = `""`
		}
		parts = append(parts, Dim(uri))
	} else {
		parts = append(parts, Dim("(no link)"))
	}
	if attrs := formatAttributes(n.Attributes, labelAttributes); attrs != "" {
		parts = append(parts, Dim(attrs))
	}
	return strings.Join(parts, " ")
}

func formatAttributes(attrs map[string]string, skip map[string]bool) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		if !skip[k] {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	slices.Sort(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%s", k, attrs[k])
	}
	return "{" + strings.Join(pairs, " ") + "}"
}
