package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexanderramin/sitemenu/internal/domain"
	"github.com/alexanderramin/sitemenu/internal/metrics"
	"github.com/alexanderramin/sitemenu/internal/repository"
	"github.com/alexanderramin/sitemenu/internal/service"
	"github.com/alexanderramin/sitemenu/internal/testutil"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	srv  *Server
	logs *bytes.Buffer
}

// newTestServer seeds a default site "shop" with pages Home / About and a
// main menu holding About (linked) and Docs (external).
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	sites := repository.NewSQLiteSiteRepo(database)
	pages := repository.NewSQLitePageRepo(database)
	menus := repository.NewSQLiteMenuRepo(database)
	siteSvc := service.NewSiteService(sites, uow)
	pageSvc := service.NewPageService(pages, uow)
	menuSvc := service.NewMenuService(menus, uow)

	site := testutil.NewTestSite("shop", testutil.WithDefaultSite(), testutil.WithRelativePath("/en"))
	require.NoError(t, siteSvc.Create(ctx, site))
	home := testutil.NewTestPage(site.ID, "Home", "/")
	require.NoError(t, pageSvc.Create(ctx, home))
	about := testutil.NewTestPage(site.ID, "About", "/about",
		testutil.WithPageParent(home), testutil.WithRoute("about"))
	require.NoError(t, pageSvc.Create(ctx, about))
	team := testutil.NewTestPage(site.ID, "Team", "/about/team", testutil.WithPageParent(about))
	require.NoError(t, pageSvc.Create(ctx, team))

	require.NoError(t, menuSvc.EnsureDefaultMenus(ctx, site))
	root, err := menuSvc.RootByName(ctx, site.ID, domain.MenuMain)
	require.NoError(t, err)
	for _, item := range []*domain.MenuNode{
		testutil.NewTestMenuNode(site.ID, "About", testutil.WithLinkedPage(about)),
		testutil.NewTestMenuNode(site.ID, "Docs", testutil.WithExternalURL("https://docs.example")),
	} {
		require.NoError(t, menuSvc.AppendChild(ctx, root.ID, item))
	}

	recorder := metrics.NewPrometheusRecorder(prom.NewRegistry())
	nav := service.NewNavigationService(menus, pages, service.WithRecorder(recorder))

	logs := &bytes.Buffer{}
	srv := NewServer(siteSvc, nav, Options{
		BaseURL: "/app.php",
		Metrics: recorder.HTTPHandler(),
		Logger:  slog.New(slog.NewJSONHandler(logs, nil)),
	})
	return &testServer{srv: srv, logs: logs}
}

func (ts *testServer) get(t *testing.T, target string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(w, req)
	return w
}

func decodeTree(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var tree map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&tree))
	return tree
}

func childNames(tree map[string]any) []string {
	var names []string
	for _, c := range tree["children"].([]any) {
		names = append(names, c.(map[string]any)["name"].(string))
	}
	return names
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t)
	w := ts.get(t, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestServer_MenuJSON(t *testing.T) {
	ts := newTestServer(t)
	w := ts.get(t, "/sites/shop/menus/main?format=json&path=/app.php/en/about&attr=class=nav")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	tree := decodeTree(t, w.Body)
	assert.Equal(t, []string{"About", "Docs"}, childNames(tree))
	assert.Equal(t, "nav", tree["attributes"].(map[string]any)["class"])

	about := tree["children"].([]any)[0].(map[string]any)
	assert.Equal(t, "/app.php/en/about", about["uri"])
	assert.Equal(t, true, about["current"])
}

func TestServer_MenuHTMLDefaultSite(t *testing.T) {
	ts := newTestServer(t)
	w := ts.get(t, "/sites/_/menus/main?path=/app.php/en/about")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, body, `<li class="active"><a href="/app.php/en/about">About</a></li>`)
	assert.Contains(t, body, `rel="nofollow" target="_blank">Docs</a>`)
}

func TestServer_MenuMissingPositionIsEmpty(t *testing.T) {
	ts := newTestServer(t)
	w := ts.get(t, "/sites/shop/menus/sidebar?format=json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeTree(t, w.Body)["children"])
}

func TestServer_ErrorMapping(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		target string
		code   int
	}{
		{"unknown site", "/sites/nope/menus/main", http.StatusNotFound},
		{"blank position", "/sites/shop/menus/%20", http.StatusBadRequest},
		{"bad attribute", "/sites/shop/menus/main?attr=novalue", http.StatusBadRequest},
		{"bad format", "/sites/shop/menus/main?format=xml", http.StatusBadRequest},
		{"unknown page", "/sites/shop/pages/menu?url=/missing", http.StatusNotFound},
		{"no page hints", "/sites/shop/pages/menu", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.get(t, tt.target)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
			var resp errorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestServer_PageMenuByURL(t *testing.T) {
	ts := newTestServer(t)
	w := ts.get(t, "/sites/shop/pages/menu?url=/about/team&format=json")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	tree := decodeTree(t, w.Body)
	assert.Equal(t, []string{"About"}, childNames(tree))
	about := tree["children"].([]any)[0].(map[string]any)
	assert.Nil(t, about["uri"])
	assert.Equal(t, []string{"Team"}, childNames(about))
}

func TestServer_PageMenuRouteHeader(t *testing.T) {
	ts := newTestServer(t)
	w := ts.get(t, "/sites/shop/pages/menu?format=json&path=/unknown", RouteHeader, "about")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	tree := decodeTree(t, w.Body)
	assert.Equal(t, []string{"About"}, childNames(tree))
}

func TestServer_Metrics(t *testing.T) {
	ts := newTestServer(t)
	ts.get(t, "/sites/shop/menus/main?format=json")

	w := ts.get(t, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `sitemenu_projections_total{kind="menu",outcome="ok"} 1`)
}

func TestServer_LogsRequests(t *testing.T) {
	ts := newTestServer(t)
	ts.get(t, "/health")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(ts.logs.Bytes(), &entry))
	assert.Equal(t, "http_request", entry["msg"])
	assert.Equal(t, "/health", entry["path"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
}

func TestParseAttributes(t *testing.T) {
	attrs, err := ParseAttributes([]string{"class=nav", "id = main", "data-x=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"class": "nav", "id": " main", "data-x": "a=b"}, attrs)

	attrs, err = ParseAttributes(nil)
	require.NoError(t, err)
	assert.Nil(t, attrs)

	_, err = ParseAttributes([]string{"=x"})
	assert.Error(t, err)
}
