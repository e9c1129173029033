package itf

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/user"
	"github.com/iota-uz/dora-register/pkg/application"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/repo"
)

// TestContext provides a fluent API for building test contexts.
type TestContext struct {
	ctx      context.Context
	tenantID uuid.UUID
	user     user.User
	tx       repo.Tx
	modules  []application.Module
	dbName   string
}

func NewTestContext() *TestContext {
	return &TestContext{
		ctx:      context.Background(),
		tenantID: uuid.New(),
	}
}

func (tc *TestContext) WithTenant(id uuid.UUID) *TestContext {
	tc.tenantID = id
	return tc
}

// WithUser sets the caller. Its tenant replaces the builder's tenant.
func (tc *TestContext) WithUser(u user.User) *TestContext {
	tc.user = u
	tc.tenantID = u.TenantID()
	return tc
}

// AsRole is a shorthand for WithUser with a generated user id.
func (tc *TestContext) AsRole(role user.Role) *TestContext {
	return tc.WithUser(user.New("user-"+string(role), tc.tenantID, role, user.WithEmail(string(role)+"@example.com")))
}

// WithTx attaches a stub or real transaction for repositories to use.
func (tc *TestContext) WithTx(tx repo.Tx) *TestContext {
	tc.tx = tx
	return tc
}

func (tc *TestContext) WithModules(modules ...application.Module) *TestContext {
	tc.modules = append(tc.modules, modules...)
	return tc
}

func (tc *TestContext) WithDBName(name string) *TestContext {
	tc.dbName = name
	return tc
}

// Context builds a request-like context without touching a database.
func (tc *TestContext) Context() context.Context {
	ctx := composables.WithTenantID(tc.ctx, tc.tenantID)
	ctx = composables.WithParams(ctx, DefaultParams())
	if tc.user != nil {
		ctx = composables.WithUser(ctx, tc.user)
	}
	if tc.tx != nil {
		ctx = composables.WithTx(ctx, tc.tx)
	}
	return ctx
}

// Build creates a fresh database, runs every module migration and opens a
// transaction that is rolled back when the test ends. It skips unless
// ITF_DATABASE is set.
func (tc *TestContext) Build(tb testing.TB) *TestEnvironment {
	tb.Helper()
	RequireDatabase(tb)

	if tc.dbName == "" {
		tc.dbName = tb.Name()
	}
	CreateDB(tc.dbName)
	pool := NewPool(DbOpts(tc.dbName))

	app, err := SetupApplication(pool, tc.modules...)
	if err != nil {
		tb.Fatal(err)
	}

	tx, err := pool.Begin(tc.ctx)
	if err != nil {
		tb.Fatal(err)
	}
	tb.Cleanup(func() {
		if err := tx.Rollback(context.Background()); err != nil && err != pgx.ErrTxClosed {
			tb.Logf("Warning: failed to rollback transaction: %v", err)
		}
		pool.Close()
	})

	tc.tx = nil
	ctx := composables.WithPool(tc.Context(), pool)
	ctx = composables.WithTx(ctx, tx)

	return &TestEnvironment{
		Ctx:      ctx,
		Pool:     pool,
		Tx:       tx,
		App:      app,
		TenantID: tc.tenantID,
		User:     tc.user,
	}
}

// TestEnvironment contains all test dependencies.
type TestEnvironment struct {
	Ctx      context.Context
	Pool     *pgxpool.Pool
	Tx       pgx.Tx
	App      application.Application
	TenantID uuid.UUID
	User     user.User
}

// GetService is a generic helper that retrieves and casts a service.
func GetService[T any](te *TestEnvironment) *T {
	var zero T
	service := te.App.Service(zero)
	if service == nil {
		return nil
	}
	return service.(*T)
}
