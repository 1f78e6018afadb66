package navigation

// RootName is the name of the synthetic node every projection returns.
const RootName = "root"

// Attribute keys set by the projectors.
const (
	AttrTarget   = "target"
	AttrRel      = "rel"
	AttrClass    = "class"
	AttrDropdown = "dropdown"
)

// RenderNode is the projector output consumed by renderers. A nil URI means
// the node is not linkable.
type RenderNode struct {
	Name               string
	URI                *string
	Attributes         map[string]string
	ChildrenAttributes map[string]string
	Children           []*RenderNode
	IsCurrent          bool
	SourceID           string
	Header             string
	Template           string
}

// NewRenderNode returns an empty node with initialised attribute maps.
func NewRenderNode(name string) *RenderNode {
	return &RenderNode{
		Name:               name,
		Attributes:         map[string]string{},
		ChildrenAttributes: map[string]string{},
	}
}

// AddChild appends child and returns it.
func (n *RenderNode) AddChild(child *RenderNode) *RenderNode {
	n.Children = append(n.Children, child)
	return child
}

// ChildBySource returns the direct child built from the given source id.
func (n *RenderNode) ChildBySource(sourceID string) *RenderNode {
	for _, c := range n.Children {
		if c.SourceID == sourceID {
			return c
		}
	}
	return nil
}

// SetURI stores a copy of uri.
func (n *RenderNode) SetURI(uri string) {
	n.URI = &uri
}

// URIString returns the URI or "" when the node is not linkable.
func (n *RenderNode) URIString() string {
	if n.URI == nil {
		return ""
	}
	return *n.URI
}

// HasChildren reports whether the node has at least one child.
func (n *RenderNode) HasChildren() bool {
	return len(n.Children) > 0
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// stops the walk.
func (n *RenderNode) Walk(fn func(node *RenderNode, depth int) bool) {
	type frame struct {
		node  *RenderNode
		depth int
	}
	stack := []frame{{node: n}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(f.node, f.depth) {
			return
		}
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.Children[i], depth: f.depth + 1})
		}
	}
}

// Find returns the first node in pre-order built from sourceID.
func (n *RenderNode) Find(sourceID string) *RenderNode {
	var found *RenderNode
	n.Walk(func(node *RenderNode, _ int) bool {
		if node.SourceID == sourceID && node != n {
			found = node
			return false
		}
		return true
	})
	return found
}

// Current returns the node marked current, or nil.
func (n *RenderNode) Current() *RenderNode {
	var current *RenderNode
	n.Walk(func(node *RenderNode, _ int) bool {
		if node.IsCurrent {
			current = node
			return false
		}
		return true
	})
	return current
}

// Count returns the number of descendants of n (n itself excluded).
func (n *RenderNode) Count() int {
	total := -1
	n.Walk(func(*RenderNode, int) bool {
		total++
		return true
	})
	return total
}
