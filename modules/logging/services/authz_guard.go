package services

import (
	"context"

	"github.com/iota-uz/dora-register/pkg/authz"
)

// The audit trail uses its own action so only roles granted "audit"
// (admins) can read it.
const (
	LogsAuthzObject = "logging.logs"
	LogsAuthzAction = "audit"
)

var authorizeLoggingFn = defaultAuthorizeLogging

func authorizeLogging(ctx context.Context, action string) error {
	return authorizeLoggingFn(ctx, action)
}

func defaultAuthorizeLogging(ctx context.Context, action string) error {
	return authz.AuthorizeContext(ctx, authz.Use(), LogsAuthzObject, action)
}
