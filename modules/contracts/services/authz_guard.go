package services

import (
	"context"

	"github.com/iota-uz/dora-register/pkg/authz"
)

const ContractsAuthzObject = "contracts.contracts"

var authorizeContractsFn = defaultAuthorizeContracts

func authorizeContracts(ctx context.Context, action string) error {
	return authorizeContractsFn(ctx, action)
}

func defaultAuthorizeContracts(ctx context.Context, action string) error {
	return authz.AuthorizeContext(ctx, authz.Use(), ContractsAuthzObject, action)
}
