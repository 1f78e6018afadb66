package navigation

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/sitemenu/internal/domain"
	"github.com/alexanderramin/sitemenu/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSite = "site-1"

func projectMenu(t *testing.T, src MenuSource, req MenuRequest) *RenderNode {
	t.Helper()
	if req.Position == "" {
		req.Position = domain.MenuMain
	}
	tree, err := NewMenuProjector(src).Project(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, tree)
	return tree
}

func TestMenuProjector_DisabledNodeHidesSubtree(t *testing.T) {
	b := testutil.NewMenuTreeBuilder(testSite, domain.MenuMain)
	l1 := b.Add(b.Root(), "L1")
	l2 := b.Add(l1, "L2")
	b.Add(l2, "L3", testutil.Disabled())
	src := newFakeMenuSource().withTree(b.Root(), b.Feed())

	tree := projectMenu(t, src, MenuRequest{})

	require.Equal(t, []string{"L1"}, childNames(tree))
	renderedL1 := tree.Children[0]
	require.Equal(t, []string{"L2"}, childNames(renderedL1))
	renderedL2 := renderedL1.Children[0]
	assert.Empty(t, renderedL2.Children, "L3 is disabled")
	assert.NotContains(t, renderedL2.Attributes, AttrDropdown, "no surviving children, no dropdown")
	assert.Equal(t, "true", renderedL1.Attributes[AttrDropdown])
}

func TestMenuProjector_DisabledAncestorCascades(t *testing.T) {
	b := testutil.NewMenuTreeBuilder(testSite, domain.MenuMain)
	off := b.Add(b.Root(), "Off", testutil.Disabled())
	mid := b.Add(off, "Mid")
	b.Add(mid, "Deep")
	b.Add(b.Root(), "On")
	src := newFakeMenuSource().withTree(b.Root(), b.Feed())

	tree := projectMenu(t, src, MenuRequest{})

	assert.Equal(t, []string{"On"}, childNames(tree))
	assert.Equal(t, 1, tree.Count())
}

func TestMenuProjector_DisabledRootYieldsEmptyTree(t *testing.T) {
	b := testutil.NewMenuTreeBuilder(testSite, domain.MenuMain, testutil.Disabled())
	b.Add(b.Root(), "L1")
	src := newFakeMenuSource().withTree(b.Root(), b.Feed())

	tree := projectMenu(t, src, MenuRequest{})

	assert.Equal(t, RootName, tree.Name)
	assert.Empty(t, tree.Children)
	assert.Nil(t, tree.URI)
}

func TestMenuProjector_MissingRootYieldsEmptyTree(t *testing.T) {
	tree := projectMenu(t, newFakeMenuSource(), MenuRequest{Position: "sidebar"})

	assert.Equal(t, RootName, tree.Name)
	assert.Empty(t, tree.Children)
}

func TestMenuProjector_RootIsScopedBySite(t *testing.T) {
	b := testutil.NewMenuTreeBuilder("other-site", domain.MenuMain)
	b.Add(b.Root(), "Elsewhere")
	src := newFakeMenuSource().withTree(b.Root(), b.Feed())

	tree := projectMenu(t, src, MenuRequest{SiteID: testSite})
	assert.Empty(t, tree.Children)

	tree = projectMenu(t, src, MenuRequest{SiteID: "other-site"})
	assert.Equal(t, []string{"Elsewhere"}, childNames(tree))
}

func TestMenuProjector_MissingPositionIsConfigurationError(t *testing.T) {
	src := newFakeMenuSource()

	_, err := NewMenuProjector(src).Project(context.Background(), MenuRequest{Position: "  "})

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "position", cfgErr.Option)
	assert.Zero(t, src.calls, "no repository access before validation")
}

func TestMenuProjector_SourceErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	src := newFakeMenuSource()
	src.err = boom

	_, err := NewMenuProjector(src).Project(context.Background(), MenuRequest{Position: domain.MenuMain})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestMenuProjector_ExternalURLUsedVerbatim(t *testing.T) {
	b := testutil.NewMenuTreeBuilder(testSite, domain.MenuMain)
	b.Add(b.Root(), "Partner", testutil.WithExternalURL("HTTPS://partner.example/x"))
	src := newFakeMenuSource().withTree(b.Root(), b.Feed())

	tree := projectMenu(t, src, MenuRequest{BaseURL: "/app.php", SiteBaseURL: "/fr"})

	partner := tree.Children[0]
	require.NotNil(t, partner.URI)
	assert.Equal(t, "HTTPS://partner.example/x", *partner.URI)
	assert.Equal(t, "_blank", partner.Attributes[AttrTarget])
	assert.Equal(t, "nofollow", partner.Attributes[AttrRel])
}

func TestMenuProjector_InternalURLGetsBasePrefixes(t *testing.T) {
	about := testutil.NewTestPage(testSite, "About", "/about")
	b := testutil.NewMenuTreeBuilder(testSite, domain.MenuMain)
	b.Add(b.Root(), "About", testutil.WithLinkedPage(about))
	b.Add(b.Root(), "Contact", testutil.WithExternalURL("/contact"))
	b.Add(b.Root(), "Label")
	src := newFakeMenuSource().withTree(b.Root(), b.Feed())

	tree := projectMenu(t, src, MenuRequest{BaseURL: "/app.php", SiteBaseURL: "/fr"})

	require.Len(t, tree.Children, 3)
	assert.Equal(t, "/app.php/fr/about", tree.Children[0].URIString())
	assert.Equal(t, "/app.php/fr/contact", tree.Children[1].URIString())
	assert.NotContains(t, tree.Children[1].Attributes, AttrTarget)
	assert.Nil(t, tree.Children[2].URI, "item without url is not linkable")
}

func TestMenuProjector_LinkedPageWinsOverExternalURL(t *testing.T) {
	about := testutil.NewTestPage(testSite, "About", "/about")
	b := testutil.NewMenuTreeBuilder(testSite, domain.MenuMain)
	b.Add(b.Root(), "About", testutil.WithLinkedPage(about), testutil.WithExternalURL("https://ignored.example"))
	src := newFakeMenuSource().withTree(b.Root(), b.Feed())

	tree := projectMenu(t, src, MenuRequest{})

	assert.Equal(t, "/about", tree.Children[0].URIString())
	assert.NotContains(t, tree.Children[0].Attributes, AttrTarget)
}

func TestMenuProjector_PreservesSiblingOrder(t *testing.T) {
	b := testutil.NewMenuTreeBuilder(testSite, domain.MenuMain)
	for _, name := range []string{"Zeta", "Alpha", "Mu"} {
		n := b.Add(b.Root(), name)
		b.Add(n, name+" child 1")
		b.Add(n, name+" child 2")
	}
	src := newFakeMenuSource().withTree(b.Root(), b.Feed())

	tree := projectMenu(t, src, MenuRequest{})

	assert.Equal(t, []string{"Zeta", "Alpha", "Mu"}, childNames(tree))
	assert.Equal(t, []string{"Alpha child 1", "Alpha child 2"}, childNames(tree.Children[1]))
}

func TestMenuProjector_ClassAndChildrenAttributes(t *testing.T) {
	b := testutil.NewMenuTreeBuilder(testSite, domain.MenuMain, testutil.WithHeader("**Main**"))
	b.Add(b.Root(), "Styled", testutil.WithClass("btn btn-primary"))
	src := newFakeMenuSource().withTree(b.Root(), b.Feed())

	attrs := map[string]string{"class": "nav navbar-nav"}
	tree := projectMenu(t, src, MenuRequest{ChildrenAttributes: attrs})

	assert.Equal(t, "nav navbar-nav", tree.ChildrenAttributes["class"])
	assert.Equal(t, "btn btn-primary", tree.Children[0].Attributes[AttrClass])
	assert.Equal(t, "**Main**", tree.Header)
	assert.Equal(t, b.Root().ID, tree.SourceID)

	attrs["class"] = "mutated"
	assert.Equal(t, "nav navbar-nav", tree.ChildrenAttributes["class"], "request map is copied")
}

func TestMenuProjector_UnknownParentMountsUnderRoot(t *testing.T) {
	root := testutil.NewTestMenuNode(testSite, domain.MenuMain)
	root.RootID, root.Left, root.Right = root.ID, 1, 6
	ghost := "ghost"
	orphan := testutil.NewTestMenuNode(testSite, "Orphan")
	orphan.ParentID, orphan.Level, orphan.Left, orphan.Right = &ghost, 2, 2, 3
	rootID := root.ID
	first := testutil.NewTestMenuNode(testSite, "First")
	first.ParentID, first.Level, first.Left, first.Right = &rootID, 1, 4, 5

	src := newFakeMenuSource().withTree(root, []*domain.MenuNode{orphan, first})
	tree := projectMenu(t, src, MenuRequest{})

	assert.Equal(t, []string{"Orphan", "First"}, childNames(tree))
}

func TestMenuProjector_MarksFirstMatchingNodeCurrent(t *testing.T) {
	b := testutil.NewMenuTreeBuilder(testSite, domain.MenuMain)
	products := b.Add(b.Root(), "Products", testutil.WithExternalURL("/products"))
	b.Add(products, "All products", testutil.WithExternalURL("/products"))
	b.Add(b.Root(), "About", testutil.WithExternalURL("/about?ref=nav"))
	src := newFakeMenuSource().withTree(b.Root(), b.Feed())

	tree := projectMenu(t, src, MenuRequest{RequestPath: "/products"})
	current := tree.Current()
	require.NotNil(t, current)
	assert.Equal(t, "Products", current.Name)
	assert.False(t, tree.Children[0].Children[0].IsCurrent, "only the first match is current")

	tree = projectMenu(t, src, MenuRequest{RequestPath: "/about"})
	require.NotNil(t, tree.Current())
	assert.Equal(t, "About", tree.Current().Name)

	tree = projectMenu(t, src, MenuRequest{})
	assert.Nil(t, tree.Current())
}

func TestMenuProjector_IsIdempotent(t *testing.T) {
	b := testutil.NewMenuTreeBuilder(testSite, domain.MenuMain)
	a := b.Add(b.Root(), "A", testutil.WithExternalURL("/a"))
	b.Add(a, "A1", testutil.WithExternalURL("http://x.example"))
	b.Add(b.Root(), "B", testutil.Disabled())
	src := newFakeMenuSource().withTree(b.Root(), b.Feed())

	req := MenuRequest{RequestPath: "/a", BaseURL: "/base"}
	first := projectMenu(t, src, req)
	second := projectMenu(t, src, req)

	assert.Equal(t, first, second)
}
