package contracts

import "github.com/iota-uz/dora-register/pkg/types"

var ContractsLink = types.NavigationItem{
	Name:        "NavigationLinks.Contracts",
	Href:        "/contracts",
	AuthzObject: "contracts.contracts",
	AuthzAction: "list",
}

var NavItems = []types.NavigationItem{ContractsLink}
