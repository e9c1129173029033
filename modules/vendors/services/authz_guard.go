package services

import (
	"context"

	"github.com/iota-uz/dora-register/pkg/authz"
)

const VendorsAuthzObject = "vendors.vendors"

var authorizeVendorsFn = defaultAuthorizeVendors

func authorizeVendors(ctx context.Context, action string) error {
	return authorizeVendorsFn(ctx, action)
}

func defaultAuthorizeVendors(ctx context.Context, action string) error {
	return authz.AuthorizeContext(ctx, authz.Use(), VendorsAuthzObject, action)
}
