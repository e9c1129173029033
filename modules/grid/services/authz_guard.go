package services

import (
	"context"

	"github.com/iota-uz/dora-register/pkg/authz"
)

const CellsAuthzObject = "grid.cells"

var authorizeGridFn = defaultAuthorizeGrid

func authorizeGrid(ctx context.Context, action string) error {
	return authorizeGridFn(ctx, action)
}

func defaultAuthorizeGrid(ctx context.Context, action string) error {
	return authz.AuthorizeContext(ctx, authz.Use(), CellsAuthzObject, action)
}
