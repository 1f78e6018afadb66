package render

import (
	"encoding/json"
	"io"

	"github.com/alexanderramin/sitemenu/internal/navigation"
)

// JSONNode is the stable wire shape of a render node.
type JSONNode struct {
	Name       string            `json:"name"`
	URI        *string           `json:"uri"`
	Attributes map[string]string `json:"attributes"`
	Current    bool              `json:"current"`
	Header     string            `json:"header,omitempty"`
	Template   string            `json:"template,omitempty"`
	Children   []JSONNode        `json:"children"`
}

// ToJSON converts tree into its wire shape. The root's children attributes
// are reported as the root's attributes.
func ToJSON(tree *navigation.RenderNode) JSONNode {
	out := toJSON(tree)
	if len(tree.ChildrenAttributes) > 0 {
		out.Attributes = tree.ChildrenAttributes
	}
	return out
}

func toJSON(n *navigation.RenderNode) JSONNode {
	out := JSONNode{
		Name:       n.Name,
		URI:        n.URI,
		Attributes: n.Attributes,
		Current:    n.IsCurrent,
		Header:     n.Header,
		Template:   n.Template,
		Children:   make([]JSONNode, 0, len(n.Children)),
	}
	if out.Attributes == nil {
		out.Attributes = map[string]string{}
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, toJSON(c))
	}
	return out
}

// WriteJSON encodes tree to w, indented.
func WriteJSON(w io.Writer, tree *navigation.RenderNode) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ToJSON(tree))
}
