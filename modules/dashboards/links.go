package dashboards

import "github.com/iota-uz/dora-register/pkg/types"

var DashboardLink = types.NavigationItem{
	Name:        "NavigationLinks.Dashboard",
	Href:        "/",
	AuthzObject: "dashboards.dashboards",
	AuthzAction: "view",
}

var NavItems = []types.NavigationItem{DashboardLink}
