package services

import (
	"context"

	"github.com/iota-uz/dora-register/pkg/authz"
)

const DashboardsAuthzObject = "dashboards.dashboards"

var authorizeDashboardsFn = defaultAuthorizeDashboards

func authorizeDashboards(ctx context.Context, action string) error {
	return authorizeDashboardsFn(ctx, action)
}

func defaultAuthorizeDashboards(ctx context.Context, action string) error {
	return authz.AuthorizeContext(ctx, authz.Use(), DashboardsAuthzObject, action)
}
