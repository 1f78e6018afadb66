package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/alexanderramin/sitemenu/internal/domain"
	"github.com/alexanderramin/sitemenu/internal/repository"
	"github.com/alexanderramin/sitemenu/internal/service"
	"github.com/alexanderramin/sitemenu/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	sites := repository.NewSQLiteSiteRepo(database)
	pages := repository.NewSQLitePageRepo(database)
	menus := repository.NewSQLiteMenuRepo(database)

	return &App{
		Sites:         service.NewSiteService(sites, uow),
		Pages:         service.NewPageService(pages, uow),
		Menus:         service.NewMenuService(menus, uow),
		Navigation:    service.NewNavigationService(menus, pages),
		Import:        service.NewImportService(uow),
		IsInteractive: func() bool { return false },
	}
}

func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func mustExec(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := executeCmd(t, app, args...)
	require.NoError(t, err, "sitemenu %v\n%s", args, out)
	return out
}

// seedSite creates the default site "shop" (path /en) with Home, About and
// Team pages and the configured menus.
func seedSite(t *testing.T, app *App) *domain.Site {
	t.Helper()
	mustExec(t, app, "site", "add", "shop", "--path", "/en", "--default")
	mustExec(t, app, "page", "add", "--name", "Home", "--url", "/")
	mustExec(t, app, "page", "add", "--name", "About", "--url", "/about", "--parent", "/", "--route", "about", "--position", "1")
	mustExec(t, app, "page", "add", "--name", "Team", "--url", "/about/team", "--parent", "/about")

	site, err := app.Sites.Resolve(context.Background(), "")
	require.NoError(t, err)
	return site
}

func menuNodeByName(t *testing.T, app *App, site *domain.Site, position, name string) *domain.MenuNode {
	t.Helper()
	ctx := context.Background()
	root, err := app.Menus.RootByName(ctx, site.ID, position)
	require.NoError(t, err)
	nodes, err := app.Menus.Tree(ctx, root.ID)
	require.NoError(t, err)
	for _, n := range nodes {
		if n.Name == name {
			return n
		}
	}
	t.Fatalf("menu node %q not found in %s", name, position)
	return nil
}

func TestSiteAddAndList(t *testing.T) {
	app := testApp(t)

	out := mustExec(t, app, "site", "add", "shop", "--path", "/en", "--default")
	assert.Contains(t, out, "Created site shop")

	out = mustExec(t, app, "site", "list")
	assert.Contains(t, out, "shop")
	assert.Contains(t, out, "/en")

	site, err := app.Sites.Resolve(context.Background(), "")
	require.NoError(t, err)
	roots, err := app.Menus.ListRoots(context.Background(), site.ID)
	require.NoError(t, err)
	require.Len(t, roots, 2)
}

func TestSiteAdd_NoMenus(t *testing.T) {
	app := testApp(t)
	mustExec(t, app, "site", "add", "bare", "--no-menus")

	site, err := app.Sites.GetByName(context.Background(), "bare")
	require.NoError(t, err)
	roots, err := app.Menus.ListRoots(context.Background(), site.ID)
	require.NoError(t, err)
	assert.Empty(t, roots)
}

func TestSiteList_Empty(t *testing.T) {
	app := testApp(t)
	out := mustExec(t, app, "site", "list")
	assert.Contains(t, out, "No sites found.")
}

func TestPageAddAndList(t *testing.T) {
	app := testApp(t)
	seedSite(t, app)

	out := mustExec(t, app, "page", "list")
	assert.Contains(t, out, "Home")
	assert.Contains(t, out, "/about/team")
}

func TestPageAdd_UnknownParent(t *testing.T) {
	app := testApp(t)
	seedSite(t, app)

	_, err := executeCmd(t, app, "page", "add", "--name", "Orphan", "--url", "/orphan", "--parent", "/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parent page")
}

func TestPageAdd_RequiresNameAndURL(t *testing.T) {
	app := testApp(t)
	seedSite(t, app)

	_, err := executeCmd(t, app, "page", "add", "--name", "Nameless")
	require.Error(t, err)
}

func TestPageRender(t *testing.T) {
	app := testApp(t)
	seedSite(t, app)

	out := mustExec(t, app, "page", "render", "--url", "/about/team", "--format", "json")
	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	assert.Equal(t, "root", tree["name"])
	assert.NotEmpty(t, tree["children"])

	out = mustExec(t, app, "page", "render", "--request-route", "about")
	assert.Contains(t, out, "About")
}

func TestPageRender_NotFound(t *testing.T) {
	app := testApp(t)
	seedSite(t, app)

	_, err := executeCmd(t, app, "page", "render", "--url", "/nowhere")
	require.Error(t, err)
}

func TestMenuInit_CustomPosition(t *testing.T) {
	app := testApp(t)
	site := seedSite(t, app)

	out := mustExec(t, app, "menu", "init", "sidebar")
	assert.Contains(t, out, "sidebar")

	_, err := app.Menus.RootByName(context.Background(), site.ID, "sidebar")
	require.NoError(t, err)
}

func TestMenuAddListAndRender(t *testing.T) {
	app := testApp(t)
	site := seedSite(t, app)

	mustExec(t, app, "menu", "add", "--name", "About", "--page", "/about", "--class", "nav-about")
	about := menuNodeByName(t, app, site, domain.MenuMain, "About")
	mustExec(t, app, "menu", "add", "--name", "Team", "--page", "/about/team", "--parent", about.ID[:8])
	mustExec(t, app, "menu", "add", "--name", "Docs", "--url", "https://docs.example")

	team := menuNodeByName(t, app, site, domain.MenuMain, "Team")
	require.NotNil(t, team.ParentID)
	assert.Equal(t, about.ID, *team.ParentID)

	out := mustExec(t, app, "menu", "list", "--position", domain.MenuMain)
	assert.Contains(t, out, "About")
	assert.Contains(t, out, "Docs")
	assert.NotContains(t, out, domain.MenuFooter)

	out = mustExec(t, app, "menu", "render", "--position", domain.MenuMain, "--path", "/en/about", "--format", "html")
	assert.Contains(t, out, `href="/en/about"`)
	assert.Contains(t, out, `href="https://docs.example"`)
	assert.Contains(t, out, "active")

	out = mustExec(t, app, "menu", "render", "--position", domain.MenuMain, "--attr", "class=nav", "--format", "json")
	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	attrs, ok := tree["attributes"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "nav", attrs["class"])
	assert.Len(t, tree["children"], 2)

	out = mustExec(t, app, "menu", "render", "--position", domain.MenuMain)
	assert.Contains(t, out, "Team")
	assert.Contains(t, out, "/en/about/team")
}

func TestMenuRender_BaseURLFlag(t *testing.T) {
	app := testApp(t)
	seedSite(t, app)
	mustExec(t, app, "menu", "add", "--name", "About", "--page", "/about")

	out := mustExec(t, app, "menu", "render", "--position", domain.MenuMain, "--base-url", "/index.php", "--format", "html")
	assert.Contains(t, out, `href="/index.php/en/about"`)
}

func TestMenuRender_Errors(t *testing.T) {
	app := testApp(t)
	seedSite(t, app)

	tests := []struct {
		name string
		args []string
	}{
		{"missing position", []string{"menu", "render"}},
		{"bad attribute", []string{"menu", "render", "--position", "main", "--attr", "novalue"}},
		{"bad format", []string{"menu", "render", "--position", "main", "--format", "pdf"}},
		{"unknown site", []string{"menu", "render", "--position", "main", "--site", "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCmd(t, app, tt.args...)
			require.Error(t, err)
		})
	}
}

func TestMenuAdd_Validation(t *testing.T) {
	app := testApp(t)
	seedSite(t, app)

	_, err := executeCmd(t, app, "menu", "add", "--position", "main")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")

	_, err = executeCmd(t, app, "menu", "add", "--name", "Ghost", "--page", "/ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "linked page")

	_, err = executeCmd(t, app, "menu", "add", "--name", "X", "--position", "sidebar")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "menu init sidebar")

	_, err = executeCmd(t, app, "menu", "add", "--name", "X", "-i")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal")
}

func TestMenuEnableDisable(t *testing.T) {
	app := testApp(t)
	site := seedSite(t, app)
	mustExec(t, app, "menu", "add", "--name", "About", "--page", "/about")
	about := menuNodeByName(t, app, site, domain.MenuMain, "About")

	mustExec(t, app, "menu", "disable", about.ID)
	assert.False(t, menuNodeByName(t, app, site, domain.MenuMain, "About").Enabled)

	out := mustExec(t, app, "menu", "render", "--position", domain.MenuMain, "--format", "json")
	assert.NotContains(t, out, "About")

	mustExec(t, app, "menu", "enable", about.ID[:8])
	assert.True(t, menuNodeByName(t, app, site, domain.MenuMain, "About").Enabled)
}

func TestMenuRemove(t *testing.T) {
	app := testApp(t)
	site := seedSite(t, app)
	mustExec(t, app, "menu", "add", "--name", "About", "--page", "/about")
	mustExec(t, app, "menu", "add", "--name", "Legal", "--position", domain.MenuFooter, "--locked")
	about := menuNodeByName(t, app, site, domain.MenuMain, "About")

	_, err := executeCmd(t, app, "menu", "remove", about.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	out := mustExec(t, app, "menu", "remove", about.ID, "--yes")
	assert.Contains(t, out, "Removed About")

	root, err := app.Menus.RootByName(context.Background(), site.ID, domain.MenuMain)
	require.NoError(t, err)
	assert.Equal(t, 2, root.Right)

	legal := menuNodeByName(t, app, site, domain.MenuFooter, "Legal")
	_, err = executeCmd(t, app, "menu", "remove", legal.ID, "--yes")
	require.ErrorIs(t, err, service.ErrNotDeletable)
}

func TestMenuNodeID_Unresolved(t *testing.T) {
	app := testApp(t)
	seedSite(t, app)

	_, err := executeCmd(t, app, "menu", "disable", "")
	require.Error(t, err)

	_, err = executeCmd(t, app, "menu", "disable", "zzzz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestImport(t *testing.T) {
	app := testApp(t)

	out := mustExec(t, app, "import", "../importer/testdata/demo.yaml")
	assert.Contains(t, out, "demo")
	assert.Contains(t, out, "7")

	out = mustExec(t, app, "menu", "render", "--position", domain.MenuMain, "--path", "/en/about")
	assert.Contains(t, out, "Products")
	assert.Contains(t, out, "/en/about")

	_, err := executeCmd(t, app, "import", "missing.yaml")
	require.Error(t, err)
}

func TestNoDefaultSite(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "page", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no default site")
}

func TestSiteAdd_SecondDefaultTakesOver(t *testing.T) {
	app := testApp(t)
	mustExec(t, app, "site", "add", "alpha", "--default")
	mustExec(t, app, "site", "add", "beta", "--default")

	site, err := app.Sites.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "beta", site.Name)
}

func TestSiteDefault(t *testing.T) {
	app := testApp(t)
	mustExec(t, app, "site", "add", "alpha", "--default")
	mustExec(t, app, "site", "add", "beta")

	out := mustExec(t, app, "site", "default", "beta")
	assert.Contains(t, out, "Default site is now beta")

	site, err := app.Sites.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "beta", site.Name)

	_, err = executeCmd(t, app, "site", "default", "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPageEdit(t *testing.T) {
	app := testApp(t)
	site := seedSite(t, app)

	out := mustExec(t, app, "page", "edit", "/about", "--name", "About us", "--url", "/about-us", "--show=false")
	assert.Contains(t, out, "Updated page About us (/about-us)")

	page, err := app.Pages.GetByURL(context.Background(), site.ID, "/about-us")
	require.NoError(t, err)
	assert.Equal(t, "about", page.RouteName, "untouched flags keep their value")
	assert.False(t, page.ShowInMenu)
	assert.True(t, page.Enabled)
	require.NotNil(t, page.ParentID)

	mustExec(t, app, "page", "edit", "/about-us", "--parent", "")
	page, err = app.Pages.GetByURL(context.Background(), site.ID, "/about-us")
	require.NoError(t, err)
	assert.Nil(t, page.ParentID)

	_, err = executeCmd(t, app, "page", "edit", "/missing", "--name", "X")
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = executeCmd(t, app, "page", "edit", "/", "--parent", "/nowhere")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMenuEdit(t *testing.T) {
	app := testApp(t)
	site := seedSite(t, app)
	mustExec(t, app, "menu", "add", "--name", "About", "--page", "/about", "--class", "nav-about")
	about := menuNodeByName(t, app, site, domain.MenuMain, "About")

	out := mustExec(t, app, "menu", "edit", about.ID[:8],
		"--name", "About us", "--class", "nav-us", "--header", "**Hi**", "--template", "mega")
	assert.Contains(t, out, "Updated About us")

	edited, err := app.Menus.GetByID(context.Background(), about.ID)
	require.NoError(t, err)
	assert.Equal(t, "About us", edited.Name)
	assert.Equal(t, "nav-us", edited.Class)
	assert.Equal(t, "**Hi**", edited.Header)
	assert.Equal(t, "mega", edited.Template)
	require.NotNil(t, edited.PageID, "link kept when no link flag is given")
	assert.Equal(t, "/about", edited.URL())
	assert.True(t, edited.Deletable)
	assert.Equal(t, about.Left, edited.Left)
}

func TestMenuEdit_PageLinkClearsExternalURL(t *testing.T) {
	app := testApp(t)
	site := seedSite(t, app)
	mustExec(t, app, "menu", "add", "--name", "Docs", "--url", "https://docs.example")
	docs := menuNodeByName(t, app, site, domain.MenuMain, "Docs")

	mustExec(t, app, "menu", "edit", docs.ID, "--page", "/about")

	edited, err := app.Menus.GetByID(context.Background(), docs.ID)
	require.NoError(t, err)
	require.NotNil(t, edited.PageID)
	assert.Empty(t, edited.ExternalURL)
	assert.Equal(t, "/about", edited.URL())

	mustExec(t, app, "menu", "edit", docs.ID, "--url", "https://docs.example/v2")
	edited, err = app.Menus.GetByID(context.Background(), docs.ID)
	require.NoError(t, err)
	assert.Nil(t, edited.PageID, "an external url unlinks the page")
	assert.Equal(t, "https://docs.example/v2", edited.URL())
}

func TestMenuEdit_Errors(t *testing.T) {
	app := testApp(t)
	site := seedSite(t, app)
	mustExec(t, app, "menu", "add", "--name", "About", "--page", "/about")
	about := menuNodeByName(t, app, site, domain.MenuMain, "About")

	_, err := executeCmd(t, app, "menu", "edit", "zzzz", "--name", "X")
	require.ErrorContains(t, err, "not found")

	_, err = executeCmd(t, app, "menu", "edit", about.ID, "--page", "/missing")
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = executeCmd(t, app, "menu", "edit", about.ID, "--page", "/about", "--url", "https://x.example")
	require.Error(t, err)

	_, err = executeCmd(t, app, "menu", "edit", about.ID, "-i")
	require.ErrorContains(t, err, "requires a terminal")

	_, err = executeCmd(t, app, "menu", "edit", about.ID, "--name", " ")
	require.Error(t, err)

	unchanged, err := app.Menus.GetByID(context.Background(), about.ID)
	require.NoError(t, err)
	assert.Equal(t, "About", unchanged.Name)
}
