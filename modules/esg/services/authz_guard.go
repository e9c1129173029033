package services

import (
	"context"

	"github.com/iota-uz/dora-register/pkg/authz"
)

const AssessmentsAuthzObject = "esg.assessments"

var authorizeESGFn = defaultAuthorizeESG

func authorizeESG(ctx context.Context, action string) error {
	return authorizeESGFn(ctx, action)
}

func defaultAuthorizeESG(ctx context.Context, action string) error {
	return authz.AuthorizeContext(ctx, authz.Use(), AssessmentsAuthzObject, action)
}
