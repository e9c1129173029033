package services

import (
	"context"

	"github.com/iota-uz/dora-register/pkg/authz"
)

const RegisterAuthzObject = "register.roi"

var authorizeRegisterFn = defaultAuthorizeRegister

func authorizeRegister(ctx context.Context, action string) error {
	return authorizeRegisterFn(ctx, action)
}

func defaultAuthorizeRegister(ctx context.Context, action string) error {
	return authz.AuthorizeContext(ctx, authz.Use(), RegisterAuthzObject, action)
}
