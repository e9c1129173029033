package alerts

import "github.com/iota-uz/dora-register/pkg/types"

var AlertsLink = types.NavigationItem{
	Name:        "NavigationLinks.Alerts",
	Href:        "/alerts",
	AuthzObject: "alerts.alerts",
	AuthzAction: "list",
}

var NavItems = []types.NavigationItem{AlertsLink}
