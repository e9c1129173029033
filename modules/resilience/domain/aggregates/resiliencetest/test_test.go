package resiliencetest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func tlpt(executed string, status Status) Test {
	return New(DTO{Name: "TLPT", Type: string(TypeTLPT), Tester: "external", ExecutedDate: executed, Status: string(status)},
		WithID(uuid.New()))
}

func TestTest_CompleteRequiresExecutedDate(t *testing.T) {
	test := New(DTO{Name: "Pentest", Type: "penetration", Tester: "external"})
	require.Equal(t, StatusPlanned, test.Status())

	_, err := test.Complete(nil)
	require.ErrorIs(t, err, ErrExecutedDateRequired)

	executed := time.Date(2025, 2, 3, 17, 0, 0, 0, time.UTC)
	done, err := test.Complete(&executed)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, done.Status())
	require.Equal(t, "2025-02-03", done.ToDTO().ExecutedDate)

	cancelled := New(DTO{Name: "Gap", Type: "gap_analysis", Tester: "internal", Status: "cancelled", ExecutedDate: "2025-01-01"})
	_, err = cancelled.Complete(nil)
	require.ErrorIs(t, err, ErrCancelled)
}

func TestDTO_OkCompletedNeedsExecutedDate(t *testing.T) {
	d := DTO{Name: "Pentest", Type: "penetration", Tester: "external", Status: "completed"}
	errs, ok := d.Ok()
	require.False(t, ok)
	require.Contains(t, errs, "ExecutedDate")

	d = DTO{Name: "Pentest", Type: "red_team", Tester: "vendor"}
	errs, ok = d.Ok()
	require.False(t, ok)
	require.Contains(t, errs, "Type")
	require.Contains(t, errs, "Tester")

	d = DTO{Name: "Pentest", Type: "penetration", Tester: "external", CriticalFunctions: []string{" Payments ", ""}}
	_, ok = d.Ok()
	require.True(t, ok)
	require.Equal(t, []string{"Payments"}, d.CriticalFunctions)
	require.Equal(t, string(StatusPlanned), d.Status)
}

func TestNextTLPTDue(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	none := NextTLPTDue([]Test{New(DTO{Type: "penetration", Status: "completed", ExecutedDate: "2025-01-01"})}, now)
	require.True(t, none.DueNow)
	require.Nil(t, none.LastExecuted)
	require.Equal(t, "2025-06-01", none.NextDue.Format(DateLayout))

	latest := tlpt("2023-09-15", StatusCompleted)
	status := NextTLPTDue([]Test{
		tlpt("2020-01-10", StatusCompleted),
		latest,
		tlpt("2025-05-01", StatusPlanned),
	}, now)
	require.False(t, status.DueNow)
	require.Equal(t, latest.ID().String(), status.LastTestID)
	require.Equal(t, "2026-09-15", status.NextDue.Format(DateLayout))
	require.Equal(t, 471, status.DaysRemaining)

	old := NextTLPTDue([]Test{tlpt("2022-05-31", StatusCompleted)}, now)
	require.True(t, old.DueNow)
	require.Equal(t, -1, old.DaysRemaining)
}
