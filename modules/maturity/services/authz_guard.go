package services

import (
	"context"

	"github.com/iota-uz/dora-register/pkg/authz"
)

const (
	AssessmentsAuthzObject = "maturity.assessments"
	SnapshotsAuthzObject   = "maturity.snapshots"
)

var authorizeMaturityFn = defaultAuthorizeMaturity

func authorizeMaturity(ctx context.Context, object, action string) error {
	return authorizeMaturityFn(ctx, object, action)
}

func defaultAuthorizeMaturity(ctx context.Context, object, action string) error {
	return authz.AuthorizeContext(ctx, authz.Use(), object, action)
}
