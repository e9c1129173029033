package types

// NavigationItem describes a sidebar entry served to the client. Items are
// filtered per user by AuthzObject/AuthzAction before they are returned.
type NavigationItem struct {
	Name        string           `json:"name"`
	Href        string           `json:"href"`
	Children    []NavigationItem `json:"children,omitempty"`
	AuthzObject string           `json:"-"`
	AuthzAction string           `json:"-"`
}
