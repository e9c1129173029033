package vendors

import "github.com/iota-uz/dora-register/pkg/types"

var VendorsLink = types.NavigationItem{
	Name:        "NavigationLinks.Vendors",
	Href:        "/vendors",
	AuthzObject: "vendors.vendors",
	AuthzAction: "list",
}

var NavItems = []types.NavigationItem{VendorsLink}
