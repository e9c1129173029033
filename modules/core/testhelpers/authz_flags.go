// Package testhelpers wires authorization for handler and service tests.
package testhelpers

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/pkg/authz"
)

var authzMu sync.Mutex

// WithAuthzMode installs an authz service built from config/access with a
// fixed mode for the duration of the test.
func WithAuthzMode(t *testing.T, mode authz.Mode) {
	t.Helper()
	authzMu.Lock()

	svc, err := authz.NewService(authz.ForMode(mode))
	if err != nil {
		authzMu.Unlock()
		require.NoError(t, err)
	}
	restore := authz.SetDefault(svc)

	t.Cleanup(func() {
		restore()
		authzMu.Unlock()
	})
}
