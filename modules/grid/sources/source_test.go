package sources

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/modules/vendors/domain/aggregates/vendor"
)

type fakeVendors struct {
	items map[uuid.UUID]vendor.Vendor
}

func (f *fakeVendors) GetByID(ctx context.Context, id uuid.UUID) (vendor.Vendor, error) {
	v, ok := f.items[id]
	if !ok {
		return vendor.Vendor{}, vendor.ErrNotFound
	}
	return v, nil
}

func (f *fakeVendors) Update(ctx context.Context, id uuid.UUID, dto *vendor.DTO) (vendor.Vendor, error) {
	v := f.items[id].Apply(*dto)
	f.items[id] = v
	return v, nil
}

func seededVendors() (*fakeVendors, uuid.UUID) {
	id := uuid.New()
	v := vendor.New(vendor.DTO{
		Name:             "Cloudy GmbH",
		LEI:              "5493001KJTIIGC8Y1R12",
		PersonType:       "legal",
		HQCountry:        "DE",
		Criticality:      "critical",
		Substitutability: "highly_complex",
		Notes:            "primary IaaS",
	}, vendor.WithID(id))
	return &fakeVendors{items: map[uuid.UUID]vendor.Vendor{id: v}}, id
}

func TestVendorSource_DocumentProjectsWhitelist(t *testing.T) {
	svc, id := seededVendors()
	src := Vendors(svc)

	doc, err := src.Document(context.Background(), id)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(doc, &fields))
	require.Len(t, fields, len(src.Columns()))
	require.Equal(t, "Cloudy GmbH", fields["name"])
	require.NotContains(t, fields, "lei")
	require.True(t, src.Editable("notes"))
	require.False(t, src.Editable("lei"))
}

func TestVendorSource_ApplyIgnoresOtherColumns(t *testing.T) {
	svc, id := seededVendors()
	src := Vendors(svc)

	err := src.Apply(context.Background(), id, json.RawMessage(`{"notes":"exit plan agreed","lei":"XXXX"}`))
	require.NoError(t, err)

	v := svc.items[id]
	require.Equal(t, "exit plan agreed", v.Notes())
	require.Equal(t, "5493001KJTIIGC8Y1R12", v.LEI())
	require.Equal(t, "Cloudy GmbH", v.Name())
}

func TestVendorSource_ApplyExplicitNullClearsOnlyThatColumn(t *testing.T) {
	svc, id := seededVendors()
	src := Vendors(svc)

	require.NoError(t, src.Apply(context.Background(), id, json.RawMessage(`{"notes":null}`)))

	v := svc.items[id]
	require.Empty(t, v.Notes())
	require.Equal(t, "Cloudy GmbH", v.Name())
	require.Equal(t, "critical", string(v.Criticality()))
}

func TestVendorSource_MissingRecord(t *testing.T) {
	svc, _ := seededVendors()
	_, err := Vendors(svc).Document(context.Background(), uuid.New())
	require.ErrorIs(t, err, vendor.ErrNotFound)
}
