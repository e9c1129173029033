package routing

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllowlist_LoadsServerRules(t *testing.T) {
	rules, err := LoadAllowlist("", "server")
	require.NoError(t, err)
	require.ElementsMatch(t, DefaultRules(), rules)

	_, err = LoadAllowlist(t.TempDir()+"/missing.yaml", "server")
	require.ErrorIs(t, err, ErrAllowlistNotFound)
}

func TestParseAllowlist_RejectsBadRules(t *testing.T) {
	_, err := parseAllowlist([]byte("version: 2\nentrypoints: {}\n"), "server")
	require.Error(t, err)

	_, err = parseAllowlist([]byte("version: 1\nentrypoints:\n  server:\n    - prefix: api\n      class: api\n"), "server")
	require.ErrorContains(t, err, "must start with '/'")

	_, err = parseAllowlist([]byte("version: 1\nentrypoints:\n  server:\n    - prefix: /x\n      class: webhook\n"), "server")
	require.ErrorContains(t, err, "unknown class")

	_, err = parseAllowlist([]byte("version: 1\nentrypoints:\n  server: []\n"), "worker")
	require.ErrorContains(t, err, "not found")
}

func TestClassifier_ClassifyPath(t *testing.T) {
	c := NewClassifier(DefaultRules())

	require.Equal(t, RouteClassOps, c.ClassifyPath("/health"))
	require.Equal(t, RouteClassOps, c.ClassifyPath("/debug/prometheus"))
	require.Equal(t, RouteClassAPI, c.ClassifyPath("/api/vendors"))
	require.Equal(t, RouteClassAPI, c.ClassifyPath("/healthz"))
	require.Equal(t, RouteClassAPI, c.ClassifyPath("/unknown"))
	require.Equal(t, RouteClassAPI, c.ClassifyPath("/health/../api/vendors"))
	require.Equal(t, RouteClassOps, c.ClassifyPath("/debug/./prometheus"))
	require.Equal(t, RouteClassAPI, c.ClassifyPath(""))
}

func TestClassifier_Classify_OpsRoutesAreReadOnly(t *testing.T) {
	c := NewClassifier(DefaultRules())

	cases := []struct {
		method string
		path   string
		want   RouteClass
	}{
		{http.MethodGet, "/health", RouteClassOps},
		{http.MethodHead, "/health", RouteClassOps},
		{http.MethodPost, "/health", RouteClassAPI},
		{http.MethodDelete, "/debug/prometheus", RouteClassAPI},
		{http.MethodPost, "/api/vendors", RouteClassAPI},
		{http.MethodGet, "/api/vendors:concentration", RouteClassAPI},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(tc.method, tc.path, nil)
		require.Equalf(t, tc.want, c.Classify(r), "%s %s", tc.method, tc.path)
	}
}

func TestClassifier_CollectionActionFollowsItsCollection(t *testing.T) {
	c := NewClassifier([]AllowlistRule{
		{Prefix: "/api", Class: RouteClassAPI},
		{Prefix: "/api/status", Class: RouteClassOps},
	})

	require.Equal(t, RouteClassOps, c.ClassifyPath("/api/status:summary"))
	require.Equal(t, RouteClassAPI, c.ClassifyPath("/api/statuses"))
}

func TestHasPathPrefixOnBoundary(t *testing.T) {
	require.True(t, HasPathPrefixOnBoundary("/api", "/api"))
	require.True(t, HasPathPrefixOnBoundary("/api/vendors", "/api"))
	require.True(t, HasPathPrefixOnBoundary("/api/vendors", "/api/"))
	require.False(t, HasPathPrefixOnBoundary("/apis", "/api"))
	require.False(t, HasPathPrefixOnBoundary("/api", ""))
	require.True(t, HasPathPrefixOnBoundary("/api/vendors:concentration", "/api/vendors"))
	require.False(t, HasPathPrefixOnBoundary("/api/vendorsx", "/api/vendors"))
}
