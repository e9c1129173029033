package services

import (
	"context"

	"github.com/iota-uz/dora-register/pkg/authz"
)

const AlertsAuthzObject = "alerts.alerts"

var authorizeAlertsFn = defaultAuthorizeAlerts

func authorizeAlerts(ctx context.Context, action string) error {
	return authorizeAlertsFn(ctx, action)
}

func defaultAuthorizeAlerts(ctx context.Context, action string) error {
	return authz.AuthorizeContext(ctx, authz.Use(), AlertsAuthzObject, action)
}
