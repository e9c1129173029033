package services

import (
	"context"

	"github.com/iota-uz/dora-register/pkg/authz"
)

const IncidentsAuthzObject = "incidents.incidents"

var authorizeIncidentsFn = defaultAuthorizeIncidents

func authorizeIncidents(ctx context.Context, action string) error {
	return authorizeIncidentsFn(ctx, action)
}

func defaultAuthorizeIncidents(ctx context.Context, action string) error {
	return authz.AuthorizeContext(ctx, authz.Use(), IncidentsAuthzObject, action)
}
