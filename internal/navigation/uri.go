package navigation

import (
	"net/url"
	"strings"

	"github.com/alexanderramin/sitemenu/internal/domain"
	"golang.org/x/text/cases"
)

const externalMarker = "http"

// IsExternalURL reports whether raw contains "http" in any letter case at
// any position. Such values are used verbatim and open in a new window.
func IsExternalURL(raw string) bool {
	if raw == "" {
		return false
	}
	return strings.Contains(cases.Fold().String(raw), externalMarker)
}

// TruncateDynamic cuts uri at its first placeholder segment, dropping that
// segment and everything after it. A uri whose first segment is a
// placeholder becomes "".
func TruncateDynamic(uri string) string {
	segments := strings.Split(uri, "/")
	for i, seg := range segments {
		if domain.IsPlaceholderSegment(seg) {
			return strings.Join(segments[:i], "/")
		}
	}
	return uri
}

// PathOf returns the path component of uri, ignoring scheme, host, query and
// fragment.
func PathOf(uri string) string {
	if u, err := url.Parse(uri); err == nil {
		return u.Path
	}
	if i := strings.IndexAny(uri, "?#"); i >= 0 {
		uri = uri[:i]
	}
	return uri
}

// MarkCurrent flags the first node in pre-order whose URI path equals
// requestPath. An empty requestPath marks nothing.
func MarkCurrent(root *RenderNode, requestPath string) *RenderNode {
	if requestPath == "" {
		return nil
	}
	var current *RenderNode
	root.Walk(func(node *RenderNode, _ int) bool {
		if node.URI != nil && PathOf(*node.URI) == requestPath {
			node.IsCurrent = true
			current = node
			return false
		}
		return true
	})
	return current
}
