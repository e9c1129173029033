package spotlight

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/user"
	"github.com/iota-uz/dora-register/modules/core/testhelpers"
	"github.com/iota-uz/dora-register/pkg/authz"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/intl"
	"github.com/iota-uz/dora-register/pkg/types"
)

func TestRank_OrdersByDistanceThenTitle(t *testing.T) {
	docs := []Document{
		{Type: "vendor", ID: "1", Title: "Acme Cloud Services", Terms: []string{"Acme Cloud Services", "529900T8BM49AURSDO55"}},
		{Type: "vendor", ID: "2", Title: "Bolt Networks", Terms: []string{"Bolt Networks"}},
		{Type: "vendor", ID: "3", Title: "ACME", Terms: []string{"ACME"}},
		{Type: "contract", ID: "4", Title: "C-ACME-01", Terms: []string{"", "C-ACME-01"}},
	}

	hits := Rank("acme", docs, 0)
	require.Len(t, hits, 3)
	require.Equal(t, "3", hits[0].ID)
	require.Zero(t, hits[0].Distance)
	require.Equal(t, "4", hits[1].ID)
	require.Equal(t, "1", hits[2].ID)

	require.Len(t, Rank("acme", docs, 2), 2)
	require.Empty(t, Rank("  ", docs, 0))
}

func TestRank_MatchesAnyTermAccentInsensitive(t *testing.T) {
	docs := []Document{{Type: "vendor", ID: "1", Title: "Zürich Hosting", Terms: []string{"Zürich Hosting", "5299"}}}
	require.Len(t, Rank("zurich", docs, 0), 1)
	require.Len(t, Rank("5299", docs, 0), 1)

	hits := Rank("ZURICH HOSTING", docs, 0)
	require.Len(t, hits, 1)
	require.Zero(t, hits[0].Distance)
}

func TestQuickLinks_FiltersByAuthorization(t *testing.T) {
	testhelpers.WithAuthzMode(t, authz.ModeEnforce)

	bundle := i18n.NewBundle(language.English)
	require.NoError(t, bundle.AddMessages(language.English,
		&i18n.Message{ID: "NavigationLinks.Register", Other: "Register of Information"},
		&i18n.Message{ID: "NavigationLinks.Audit", Other: "Audit trail"},
	))
	tenantID := uuid.New()
	ctx := intl.WithLocalizer(context.Background(), i18n.NewLocalizer(bundle, "en"))
	ctx = composables.WithTenantID(ctx, tenantID)
	ctx = composables.WithUser(ctx, user.New("u-1", tenantID, user.RoleViewer))

	links := NewQuickLinks(types.NavigationItem{
		Name: "NavigationLinks.Root",
		Children: []types.NavigationItem{
			{Name: "NavigationLinks.Register", Href: "/register", AuthzObject: "register.register", AuthzAction: "view"},
		},
	})
	links.Add(types.NavigationItem{Name: "NavigationLinks.Audit", Href: "/audit", AuthzObject: "logging.audit", AuthzAction: "export"})

	docs, err := links.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "Register of Information", docs[0].Title)
	require.Equal(t, TypePage, docs[0].Type)

	hits := Rank("regist", docs, 20)
	require.Len(t, hits, 1)
	require.Equal(t, "/register", hits[0].Link)
}
