package services

import (
	"context"

	"github.com/iota-uz/dora-register/pkg/authz"
)

const (
	TestsAuthzObject    = "resilience.tests"
	FindingsAuthzObject = "resilience.findings"
)

var authorizeResilienceFn = defaultAuthorizeResilience

func authorizeResilience(ctx context.Context, object, action string) error {
	return authorizeResilienceFn(ctx, object, action)
}

func defaultAuthorizeResilience(ctx context.Context, object, action string) error {
	return authz.AuthorizeContext(ctx, authz.Use(), object, action)
}
