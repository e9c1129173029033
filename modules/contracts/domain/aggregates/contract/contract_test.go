package contract

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func validDTO() DTO {
	return DTO{
		Reference:       "CA-2024-001",
		VendorID:        uuid.New(),
		ArrangementType: "standalone",
		ServiceType:     "s05",
		FunctionName:    "Core banking",
		StartDate:       "2024-01-01",
		EndDate:         "2026-12-31",
		DataStorage:     true,
		DataLocation:    "ie",
	}
}

func TestDTO_Ok(t *testing.T) {
	dto := validDTO()
	errs, ok := dto.Ok()
	require.True(t, ok, errs)
	require.Equal(t, "S05", dto.ServiceType)
	require.Equal(t, "IE", dto.DataLocation)
}

func TestDTO_OkRejects(t *testing.T) {
	cases := []struct {
		name  string
		field string
		edit  func(*DTO)
	}{
		{"end before start", "EndDate", func(d *DTO) { d.EndDate = "2023-12-31" }},
		{"end without start", "StartDate", func(d *DTO) { d.StartDate = "" }},
		{"bad service type", "ServiceType", func(d *DTO) { d.ServiceType = "S20" }},
		{"bad date", "StartDate", func(d *DTO) { d.StartDate = "01.01.2024" }},
		{"storage without location", "DataLocation", func(d *DTO) { d.DataLocation = "" }},
		{"missing vendor", "VendorID", func(d *DTO) { d.VendorID = uuid.Nil }},
		{"bad arrangement", "ArrangementType", func(d *DTO) { d.ArrangementType = "other" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dto := validDTO()
			tc.edit(&dto)
			errs, ok := dto.Ok()
			require.False(t, ok)
			require.Contains(t, errs, tc.field)
		})
	}
}

func TestContract_Status(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	build := func(start, end string) Contract {
		d := validDTO()
		d.StartDate, d.EndDate = start, end
		return New(d)
	}

	require.Equal(t, StatusDraft, build("", "").Status(now))
	require.Equal(t, StatusActive, build("2024-01-01", "").Status(now))
	require.Equal(t, StatusActive, build("2024-01-01", "2025-08-31").Status(now))
	require.Equal(t, StatusExpiring, build("2024-01-01", "2025-08-30").Status(now))
	require.Equal(t, StatusExpiring, build("2024-01-01", "2025-06-01").Status(now))
	require.Equal(t, StatusExpired, build("2024-01-01", "2025-05-31").Status(now))

	terminated := build("2024-01-01", "").Terminate(now)
	require.Equal(t, StatusTerminated, terminated.Status(now))
	again := terminated.Terminate(now.Add(time.Hour))
	require.Equal(t, now, *again.TerminatedAt())
}

func TestContract_DaysUntilEnd(t *testing.T) {
	now := time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)
	d := validDTO()
	d.EndDate = "2025-06-11"
	days, ok := New(d).DaysUntilEnd(now)
	require.True(t, ok)
	require.Equal(t, 10, days)

	d.EndDate = ""
	_, ok = New(d).DaysUntilEnd(now)
	require.False(t, ok)
}

func TestContract_ToDTORoundTrip(t *testing.T) {
	d := validDTO()
	_, ok := d.Ok()
	require.True(t, ok)
	require.Equal(t, d, New(d).ToDTO())
}
