package authz

import (
	"context"

	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/serrors"
)

// ErrUnauthenticated is returned when no caller is attached to the context.
var ErrUnauthenticated = serrors.NewError("UNAUTHENTICATED", "authentication required", "Authorization.Unauthenticated")

// RequestForContext builds a request for the caller in ctx. The caller's
// token role is the casbin subject and the tenant is the domain.
func RequestForContext(ctx context.Context, object, action string) (Request, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return Request{}, ErrUnauthenticated
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return Request{}, ErrUnauthenticated
	}
	return NewRequest(
		SubjectForRole(string(u.Role())),
		DomainFromTenant(tenantID),
		object,
		NormalizeAction(action),
		WithUser(SubjectForUserID(tenantID, u.ID())),
	), nil
}

// AuthorizeContext authorizes the caller in ctx against the given service.
func AuthorizeContext(ctx context.Context, svc *Service, object, action string) error {
	req, err := RequestForContext(ctx, object, action)
	if err != nil {
		return err
	}
	return svc.Authorize(ctx, req)
}
