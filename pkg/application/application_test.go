package application

import (
	"context"
	"embed"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/pkg/types"
)

type stubController struct{ key string }

func (c *stubController) Register(r *mux.Router) {}
func (c *stubController) Key() string { return c.key }

type reportService struct{ name string }

type noopMigrations struct{}

func (noopMigrations) RegisterSchema(string, *embed.FS) {}
func (noopMigrations) Run(context.Context) error { return nil }
func (noopMigrations) Rollback(context.Context) error { return nil }
func (noopMigrations) Status(context.Context) ([]MigrationStatus, error) { return nil, nil }

func newTestApp() Application {
	return New(&ApplicationOptions{Migrations: noopMigrations{}})
}

func TestServiceRegistry(t *testing.T) {
	app := newTestApp()
	svc := &reportService{name: "register"}
	app.RegisterServices(svc)

	got := app.Service(reportService{}).(*reportService)
	require.Same(t, svc, got)
	require.Panics(t, func() { app.Service(stubController{}) })
}

func TestControllersKeepRegistrationOrder(t *testing.T) {
	app := newTestApp()
	app.RegisterControllers(&stubController{key: "b"}, &stubController{key: "a"})
	app.RegisterControllers(&stubController{key: "b"})

	keys := []string{}
	for _, c := range app.Controllers() {
		keys = append(keys, c.Key())
	}
	require.Equal(t, []string{"b", "a"}, keys)
}

func TestNavItemsWithoutLocalizer(t *testing.T) {
	app := newTestApp()
	app.RegisterNavItems(types.NavigationItem{
		Name: "NavigationLinks.Vendors",
		Href: "/vendors",
		Children: []types.NavigationItem{
			{Name: "NavigationLinks.Contracts", Href: "/contracts"},
		},
	})
	items := app.NavItems(nil)
	require.Len(t, items, 1)
	require.Equal(t, "NavigationLinks.Vendors", items[0].Name)
	require.Equal(t, "/contracts", items[0].Children[0].Href)
}

func TestSeederStopsOnError(t *testing.T) {
	app := newTestApp()
	var calls []string
	boom := errors.New("boom")
	app.Seeder().Register(
		func(ctx context.Context, app Application) error { calls = append(calls, "first"); return nil },
		func(ctx context.Context, app Application) error { calls = append(calls, "second"); return boom },
		func(ctx context.Context, app Application) error { calls = append(calls, "third"); return nil },
	)
	err := app.Seeder().Seed(context.Background(), app)
	require.ErrorIs(t, err, boom)
	require.Equal(t, []string{"first", "second"}, calls)
}

func TestSQLRoot(t *testing.T) {
	fsys := fstest.MapFS{
		"infrastructure/persistence/schema/00001_vendors.sql": {Data: []byte("-- +goose Up\n")},
	}
	sub, err := sqlRoot(fsys)
	require.NoError(t, err)
	files, err := listFiles(sub, ".")
	require.NoError(t, err)
	require.Equal(t, []string{"00001_vendors.sql"}, files)

	_, err = sqlRoot(fstest.MapFS{"readme.md": {}})
	require.Error(t, err)
}

func TestVersionTable(t *testing.T) {
	require.Equal(t, "goose_core_version", versionTable("core"))
	require.Equal(t, "goose_dora_grid_version", versionTable("dora-grid"))
}
