package server

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/modules"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/configuration"
	"github.com/iota-uz/dora-register/pkg/eventbus"
	"github.com/iota-uz/dora-register/pkg/routing"
	pkgserver "github.com/iota-uz/dora-register/pkg/server"
)

func buildServer(t *testing.T) *pkgserver.HTTPServer {
	t.Helper()
	conf := configuration.Use()
	logger := conf.Logger()

	app := application.New(&application.ApplicationOptions{
		Bundle:   application.LoadBundle(),
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	require.NoError(t, modules.Load(app, modules.BuiltInModules...))

	srv, err := Default(&DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
	})
	require.NoError(t, err)
	return srv
}

func collectRoutePaths(t *testing.T, router *mux.Router) []string {
	t.Helper()
	var paths []string
	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		if tmpl, err := route.GetPathTemplate(); err == nil && strings.TrimSpace(tmpl) != "" {
			paths = append(paths, tmpl)
		}
		return nil
	})
	require.NoError(t, err)
	sort.Strings(paths)
	return paths
}

func TestExposure_OnlyHealthIsUnauthenticated(t *testing.T) {
	srv := buildServer(t)
	rules, err := routing.LoadAllowlist("", "server")
	require.NoError(t, err)
	classifier := routing.NewClassifier(rules)

	paths := collectRoutePaths(t, srv.Router())
	require.NotEmpty(t, paths)

	var public []string
	for _, p := range paths {
		if classifier.ClassifyPath(p) == routing.RouteClassOps {
			public = append(public, p)
			continue
		}
		require.Truef(t, routing.HasPathPrefixOnBoundary(p, "/api"), "route %s is outside /api", p)
	}
	require.Equal(t, []string{"/health"}, public)
}

func TestExposure_UnknownAPIRouteAnswersJSON404(t *testing.T) {
	srv := buildServer(t)

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/__nonexistent__", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestExposure_CollectionActionRoutesResolve(t *testing.T) {
	router := buildServer(t).Router()

	for _, target := range []string{
		"/api/vendors:concentration",
		"/api/contracts:expiring",
		"/api/incidents:overdue",
		"/api/tests:tlpt-status",
		"/api/widgets:sources",
	} {
		var match mux.RouteMatch
		require.True(t, router.Match(httptest.NewRequest(http.MethodGet, target, nil), &match), target)
		require.NoError(t, match.MatchErr, target)
		tmpl, err := match.Route.GetPathTemplate()
		require.NoError(t, err)
		require.Equal(t, target, tmpl)
	}
}
