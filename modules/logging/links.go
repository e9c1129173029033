package logging

import "github.com/iota-uz/dora-register/pkg/types"

var LogsLink = types.NavigationItem{
	Name:        "NavigationLinks.Audit",
	Href:        "/audit",
	AuthzObject: "logging.logs",
	AuthzAction: "audit",
}

var NavItems = []types.NavigationItem{
	LogsLink,
}
