package composables

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/user"
	"github.com/iota-uz/dora-register/pkg/constants"
)

var (
	ErrNoTenantIDFound = errors.New("no tenant id found in context")
	ErrNoUserFound     = errors.New("no user found in context")
)

func WithTenantID(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, constants.TenantIDKey, tenantID)
}

func UseTenantID(ctx context.Context) (uuid.UUID, error) {
	tenantID, ok := ctx.Value(constants.TenantIDKey).(uuid.UUID)
	if !ok || tenantID == uuid.Nil {
		return uuid.Nil, ErrNoTenantIDFound
	}
	return tenantID, nil
}

func WithUser(ctx context.Context, u user.User) context.Context {
	return context.WithValue(ctx, constants.UserKey, u)
}

func UseUser(ctx context.Context) (user.User, error) {
	u, ok := ctx.Value(constants.UserKey).(user.User)
	if !ok || u == nil {
		return nil, ErrNoUserFound
	}
	return u, nil
}

// UseActorID returns the caller's id or "system" for background work.
func UseActorID(ctx context.Context) string {
	if u, err := UseUser(ctx); err == nil {
		return u.ID()
	}
	return "system"
}
