package register

import "github.com/iota-uz/dora-register/pkg/types"

var RegisterLink = types.NavigationItem{
	Name:        "NavigationLinks.Register",
	Href:        "/register",
	AuthzObject: "register.roi",
	AuthzAction: "view",
}

var NavItems = []types.NavigationItem{RegisterLink}
