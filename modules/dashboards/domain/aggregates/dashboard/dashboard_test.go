package dashboard

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func widgetAt(x, y, w, h int) Widget {
	return NewWidget(uuid.Nil, WidgetDTO{Title: "w", Kind: "kpi", Source: "s", Position: &Position{X: x, Y: y, W: w, H: h}})
}

func TestPosition(t *testing.T) {
	cases := []struct {
		name  string
		a, b  Position
		valid bool
		over  bool
	}{
		{"side by side", Position{0, 0, 6, 2}, Position{6, 0, 6, 2}, true, false},
		{"stacked", Position{0, 0, 12, 2}, Position{0, 2, 12, 2}, true, false},
		{"corner overlap", Position{0, 0, 4, 4}, Position{3, 3, 4, 4}, true, true},
		{"contained", Position{0, 0, 12, 6}, Position{2, 2, 2, 2}, true, true},
		{"past the grid", Position{8, 0, 6, 2}, Position{0, 10, 1, 1}, false, false},
		{"overflowing width", Position{1, 0, math.MaxInt, 1}, Position{0, 5, 1, 1}, false, false},
		{"overflowing column", Position{math.MaxInt - 2, 0, 4, 1}, Position{0, 5, 1, 1}, false, false},
		{"overflowing height", Position{0, 1, 1, math.MaxInt}, Position{4, 0, 1, 1}, false, false},
		{"below the last row", Position{0, GridRows, 1, 1}, Position{4, 0, 1, 1}, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.valid, tc.a.Valid())
			require.Equal(t, tc.over, tc.a.Overlaps(tc.b))
			require.Equal(t, tc.over, tc.b.Overlaps(tc.a))
		})
	}
}

func TestDashboard_AddWidgetRejectsOverlap(t *testing.T) {
	d := New(DTO{Name: "Main"})
	d, _, err := d.AddWidget(widgetAt(0, 0, 6, 2), false)
	require.NoError(t, err)

	_, _, err = d.AddWidget(widgetAt(4, 1, 4, 2), false)
	require.ErrorIs(t, err, ErrOverlap)

	_, _, err = d.AddWidget(widgetAt(10, 0, 4, 2), false)
	require.ErrorIs(t, err, ErrInvalidPosition)

	d, placed, err := d.AddWidget(widgetAt(0, 0, 6, 2), true)
	require.NoError(t, err)
	require.Equal(t, Position{X: 6, Y: 0, W: 6, H: 2}, placed.Position())
	require.Equal(t, d.ID(), placed.DashboardID())

	_, placed, err = d.AddWidget(widgetAt(0, 0, 12, 3), true)
	require.NoError(t, err)
	require.Equal(t, Position{X: 0, Y: 2, W: 12, H: 3}, placed.Position())
}

func TestDashboard_AutoPlaceOnFullGrid(t *testing.T) {
	d := New(DTO{Name: "Main"})
	d, _, err := d.AddWidget(widgetAt(0, 0, GridColumns, GridRows), false)
	require.NoError(t, err)

	require.False(t, d.FreePosition(1, 1).Valid())
	_, _, err = d.AddWidget(widgetAt(0, 0, 1, 1), true)
	require.ErrorIs(t, err, ErrInvalidPosition)
}

func TestDashboard_MoveAndRemove(t *testing.T) {
	d := New(DTO{Name: "Main"})
	d, a, _ := d.AddWidget(widgetAt(0, 0, 6, 2), false)
	d, b, _ := d.AddWidget(widgetAt(6, 0, 6, 2), false)

	_, err := d.ReplaceWidget(b.Move(Position{X: 3, Y: 0, W: 6, H: 2}))
	require.ErrorIs(t, err, ErrOverlap)

	d, err = d.ReplaceWidget(a.Move(Position{X: 0, Y: 0, W: 6, H: 4}))
	require.NoError(t, err)
	moved, ok := d.Widget(a.ID())
	require.True(t, ok)
	require.Equal(t, 4, moved.Position().H)

	d, err = d.RemoveWidget(a.ID())
	require.NoError(t, err)
	require.Len(t, d.Widgets(), 1)
	_, err = d.RemoveWidget(a.ID())
	require.ErrorIs(t, err, ErrWidgetNotFound)
}

func TestDashboard_WidgetsInReadingOrder(t *testing.T) {
	d := New(DTO{Name: "Main"})
	d, low, _ := d.AddWidget(widgetAt(0, 4, 12, 2), false)
	d, right, _ := d.AddWidget(widgetAt(6, 0, 6, 2), false)
	d, left, _ := d.AddWidget(widgetAt(0, 0, 6, 2), false)

	got := d.Widgets()
	require.Equal(t, []uuid.UUID{left.ID(), right.ID(), low.ID()}, []uuid.UUID{got[0].ID(), got[1].ID(), got[2].ID()})
}

func TestWidgetDTO_Ok(t *testing.T) {
	dto := WidgetDTO{Title: " Critical vendors ", Kind: "KPI", Source: "vendors.by_criticality", Config: json.RawMessage(`{"limit":5}`)}
	_, ok := dto.Ok()
	require.True(t, ok)
	require.Equal(t, "kpi", dto.Kind)

	dto.Config = json.RawMessage(`[1,2]`)
	errs, ok := dto.Ok()
	require.False(t, ok)
	require.Contains(t, errs, "Config")

	dto.Config = nil
	dto.Kind = "pie"
	dto.Position = &Position{X: 11, W: 2, H: 1}
	errs, ok = dto.Ok()
	require.False(t, ok)
	require.Contains(t, errs, "Kind")
	require.Contains(t, errs, "Position")
}
