package evidence

import "github.com/iota-uz/dora-register/pkg/types"

var EvidenceLink = types.NavigationItem{
	Name:        "NavigationLinks.Evidence",
	Href:        "/evidence",
	AuthzObject: "evidence.documents",
	AuthzAction: "list",
}

var NavItems = []types.NavigationItem{EvidenceLink}
