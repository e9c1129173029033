package maturity

import "github.com/iota-uz/dora-register/pkg/types"

var MaturityLink = types.NavigationItem{
	Name:        "NavigationLinks.Maturity",
	Href:        "/maturity",
	AuthzObject: "maturity.assessments",
	AuthzAction: "list",
}

var NavItems = []types.NavigationItem{MaturityLink}
