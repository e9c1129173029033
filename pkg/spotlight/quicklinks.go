package spotlight

import (
	"context"

	"github.com/iota-uz/dora-register/pkg/authz"
	"github.com/iota-uz/dora-register/pkg/intl"
	"github.com/iota-uz/dora-register/pkg/types"
)

const TypePage = "page"

// QuickLinks makes navigation items searchable by their translated name.
// Items the caller may not open are left out.
type QuickLinks struct {
	items []types.NavigationItem
}

func NewQuickLinks(items ...types.NavigationItem) *QuickLinks {
	return &QuickLinks{items: flatten(items)}
}

func (ql *QuickLinks) Add(items ...types.NavigationItem) {
	ql.items = append(ql.items, flatten(items)...)
}

func (ql *QuickLinks) Type() string {
	return TypePage
}

func (ql *QuickLinks) Documents(ctx context.Context) ([]Document, error) {
	out := make([]Document, 0, len(ql.items))
	for _, it := range ql.items {
		if !allowed(ctx, it) {
			continue
		}
		label := intl.T(ctx, it.Name, nil)
		out = append(out, Document{
			Type:  TypePage,
			ID:    it.Href,
			Title: label,
			Link:  it.Href,
			Terms: []string{label},
		})
	}
	return out, nil
}

func allowed(ctx context.Context, it types.NavigationItem) bool {
	if it.AuthzObject == "" {
		return true
	}
	action := it.AuthzAction
	if action == "" {
		action = "list"
	}
	return authz.AuthorizeContext(ctx, authz.Use(), it.AuthzObject, action) == nil
}

func flatten(items []types.NavigationItem) []types.NavigationItem {
	out := make([]types.NavigationItem, 0, len(items))
	for _, it := range items {
		if len(it.Children) > 0 {
			out = append(out, flatten(it.Children)...)
			continue
		}
		out = append(out, it)
	}
	return out
}
