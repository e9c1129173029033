package core

import "github.com/iota-uz/dora-register/pkg/types"

var DashboardLink = types.NavigationItem{
	Name: "NavigationLinks.Dashboard",
	Href: "/",
}

var OrganizationLink = types.NavigationItem{
	Name:        "NavigationLinks.Organization",
	Href:        "/organization",
	AuthzObject: "core.organization",
	AuthzAction: "view",
}

var NavItems = []types.NavigationItem{
	DashboardLink,
	OrganizationLink,
}
