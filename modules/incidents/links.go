package incidents

import "github.com/iota-uz/dora-register/pkg/types"

var IncidentsLink = types.NavigationItem{
	Name:        "NavigationLinks.Incidents",
	Href:        "/incidents",
	AuthzObject: "incidents.incidents",
	AuthzAction: "list",
}

var NavItems = []types.NavigationItem{IncidentsLink}
