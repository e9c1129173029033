package resilience

import "github.com/iota-uz/dora-register/pkg/types"

var TestsLink = types.NavigationItem{
	Name:        "NavigationLinks.Resilience",
	Href:        "/tests",
	AuthzObject: "resilience.tests",
	AuthzAction: "list",
}

var FindingsLink = types.NavigationItem{
	Name:        "NavigationLinks.Findings",
	Href:        "/findings",
	AuthzObject: "resilience.findings",
	AuthzAction: "list",
}

var NavItems = []types.NavigationItem{TestsLink, FindingsLink}
