// Package navigation projects stored menu trees and page hierarchies into
// RenderNode trees for templates.
//
// Two projectors share the output shape: MenuProjector walks a nested-set
// feed with cascading visibility, and PageProjector builds a breadcrumb-style
// ancestor/sibling tree around a resolved page. Both are stateless; every
// call builds a fresh tree from read-only repository lookups.
package navigation
