package services

import (
	"context"

	"github.com/iota-uz/dora-register/pkg/authz"
)

const OrganizationAuthzObject = "core.organization"

var authorizeCoreFn = defaultAuthorizeCore

func authorizeCore(ctx context.Context, action string) error {
	return authorizeCoreFn(ctx, action)
}

func defaultAuthorizeCore(ctx context.Context, action string) error {
	return authz.AuthorizeContext(ctx, authz.Use(), OrganizationAuthzObject, action)
}
