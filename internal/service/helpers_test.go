package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/sitemenu/internal/domain"
	"github.com/alexanderramin/sitemenu/internal/repository"
	"github.com/alexanderramin/sitemenu/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db    *sql.DB
	sites repository.SiteRepo
	pages repository.PageRepo
	menus repository.MenuRepo

	siteSvc SiteService
	pageSvc PageService
	menuSvc MenuService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	env := &testEnv{
		db:    database,
		sites: repository.NewSQLiteSiteRepo(database),
		pages: repository.NewSQLitePageRepo(database),
		menus: repository.NewSQLiteMenuRepo(database),
	}
	env.siteSvc = NewSiteService(env.sites, uow)
	env.pageSvc = NewPageService(env.pages, uow)
	env.menuSvc = NewMenuService(env.menus, uow)
	return env
}

func (e *testEnv) site(t *testing.T, name string) *domain.Site {
	t.Helper()
	s := testutil.NewTestSite(name)
	s.ID = ""
	require.NoError(t, e.siteSvc.Create(context.Background(), s))
	return s
}

// appendItem adds an enabled, deletable item under parent.
func (e *testEnv) appendItem(t *testing.T, parent *domain.MenuNode, name string, opts ...testutil.MenuOption) *domain.MenuNode {
	t.Helper()
	node := testutil.NewTestMenuNode(parent.SiteID, name, opts...)
	node.ID = ""
	require.NoError(t, e.menuSvc.AppendChild(context.Background(), parent.ID, node))
	return node
}

type capturingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *capturingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *capturingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

type projectionSample struct {
	kind, outcome string
	nodes         int
}

type capturingRecorder struct {
	mu      sync.Mutex
	samples []projectionSample
}

func (r *capturingRecorder) RecordProjection(kind, outcome string, _ time.Duration, nodes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, projectionSample{kind: kind, outcome: outcome, nodes: nodes})
}
