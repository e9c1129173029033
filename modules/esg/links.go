package esg

import "github.com/iota-uz/dora-register/pkg/types"

var ESGLink = types.NavigationItem{
	Name:        "NavigationLinks.ESG",
	Href:        "/esg",
	AuthzObject: "esg.assessments",
	AuthzAction: "list",
}

var NavItems = []types.NavigationItem{ESGLink}
