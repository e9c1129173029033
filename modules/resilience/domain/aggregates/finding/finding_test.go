package finding

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDefaultDueDate(t *testing.T) {
	from := time.Date(2025, 1, 10, 15, 30, 0, 0, time.UTC)
	cases := map[Severity]string{
		SeverityCritical: "2025-01-25",
		SeverityHigh:     "2025-02-09",
		SeverityMedium:   "2025-04-10",
		SeverityLow:      "2025-07-09",
	}
	for severity, want := range cases {
		got := DefaultDueDate(severity, from)
		require.NotNil(t, got, severity)
		require.Equal(t, want, got.Format(DateLayout), severity)
	}
	require.Nil(t, DefaultDueDate(SeverityInfo, from))
}

func TestDTO_DefaultDueKeepsExplicitDate(t *testing.T) {
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	d := DTO{TestID: uuid.New(), Title: "TLS 1.0 enabled", Severity: "high", DueDate: "2025-03-01"}
	d.DefaultDue(now)
	require.Equal(t, "2025-03-01", d.DueDate)

	d.DueDate = ""
	d.DefaultDue(now)
	require.Equal(t, "2025-02-09", d.DueDate)

	d = DTO{TestID: uuid.New(), Title: "Banner disclosure", Severity: "info"}
	d.DefaultDue(now)
	require.Empty(t, d.DueDate)
}

func TestDTO_Ok(t *testing.T) {
	d := DTO{Title: " ", Severity: "urgent"}
	errs, ok := d.Ok()
	require.False(t, ok)
	require.Contains(t, errs, "TestID")
	require.Contains(t, errs, "Title")
	require.Contains(t, errs, "Severity")

	d = DTO{TestID: uuid.New(), Title: "Weak ciphers", Severity: "HIGH"}
	_, ok = d.Ok()
	require.True(t, ok)
	require.Equal(t, "high", d.Severity)
	require.Equal(t, string(StatusOpen), d.Status)
}

func TestFinding_IsOverdue(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	f := New(DTO{Severity: "high", DueDate: "2025-04-30"})
	require.True(t, f.IsOverdue(now))

	require.False(t, New(DTO{Severity: "high", DueDate: "2025-05-01"}).IsOverdue(now))
	require.False(t, New(DTO{Severity: "info"}).IsOverdue(now))
	require.False(t, New(DTO{Severity: "high", Status: "risk_accepted", DueDate: "2025-01-01"}).IsOverdue(now))
}

func TestFinding_SettleTracksRemediation(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	f := New(DTO{Severity: "low"}).Settle(now)
	require.Nil(t, f.RemediatedAt())

	dto := f.ToDTO()
	dto.Status = string(StatusRemediated)
	f = f.Apply(dto).Settle(now)
	require.Equal(t, now, *f.RemediatedAt())

	later := f.Settle(now.Add(time.Hour))
	require.Equal(t, now, *later.RemediatedAt())

	dto.Status = string(StatusOpen)
	require.Nil(t, f.Apply(dto).Settle(now).RemediatedAt())
}
