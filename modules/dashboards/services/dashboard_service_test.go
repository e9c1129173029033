package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/modules/dashboards/domain/aggregates/dashboard"
	"github.com/iota-uz/dora-register/modules/dashboards/domain/widgetdata"
	"github.com/iota-uz/dora-register/pkg/itf"
	"github.com/iota-uz/dora-register/pkg/serrors"
)

type memoryDashboards struct {
	items map[uuid.UUID]dashboard.Dashboard
}

func newMemoryDashboards() *memoryDashboards {
	return &memoryDashboards{items: map[uuid.UUID]dashboard.Dashboard{}}
}

func (m *memoryDashboards) List(ctx context.Context, params *dashboard.FindParams) ([]dashboard.Dashboard, error) {
	out := []dashboard.Dashboard{}
	for _, d := range m.items {
		out = append(out, d)
	}
	return out, nil
}

func (m *memoryDashboards) Count(ctx context.Context) (int64, error) {
	return int64(len(m.items)), nil
}

func (m *memoryDashboards) GetByID(ctx context.Context, id uuid.UUID) (dashboard.Dashboard, error) {
	d, ok := m.items[id]
	if !ok {
		return dashboard.Dashboard{}, dashboard.ErrNotFound
	}
	return d, nil
}

func (m *memoryDashboards) GetDefault(ctx context.Context) (dashboard.Dashboard, error) {
	for _, d := range m.items {
		if d.IsDefault() {
			return d, nil
		}
	}
	return dashboard.Dashboard{}, dashboard.ErrNotFound
}

func (m *memoryDashboards) Create(ctx context.Context, d dashboard.Dashboard) (dashboard.Dashboard, error) {
	for _, existing := range m.items {
		if existing.Name() == d.Name() {
			return dashboard.Dashboard{}, dashboard.ErrDuplicateName
		}
	}
	m.items[d.ID()] = d
	return d, nil
}

func (m *memoryDashboards) Update(ctx context.Context, d dashboard.Dashboard) (dashboard.Dashboard, error) {
	if _, ok := m.items[d.ID()]; !ok {
		return dashboard.Dashboard{}, dashboard.ErrNotFound
	}
	m.items[d.ID()] = d
	return d, nil
}

func (m *memoryDashboards) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return dashboard.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memoryDashboards) ClearDefault(ctx context.Context, keep uuid.UUID) error {
	for id, d := range m.items {
		if id != keep && d.IsDefault() {
			dto := d.ToDTO()
			dto.IsDefault = false
			m.items[id] = d.Apply(dto)
		}
	}
	return nil
}

func (m *memoryDashboards) CreateWidget(ctx context.Context, w dashboard.Widget) (dashboard.Widget, error) {
	d, ok := m.items[w.DashboardID()]
	if !ok {
		return dashboard.Widget{}, dashboard.ErrNotFound
	}
	d, _, err := d.AddWidget(w, false)
	if err != nil {
		return dashboard.Widget{}, err
	}
	m.items[d.ID()] = d
	return w, nil
}

func (m *memoryDashboards) UpdateWidget(ctx context.Context, w dashboard.Widget) (dashboard.Widget, error) {
	d, err := m.items[w.DashboardID()].ReplaceWidget(w)
	if err != nil {
		return dashboard.Widget{}, err
	}
	m.items[d.ID()] = d
	return w, nil
}

func (m *memoryDashboards) DeleteWidget(ctx context.Context, dashboardID, widgetID uuid.UUID) error {
	d, ok := m.items[dashboardID]
	if !ok {
		return dashboard.ErrNotFound
	}
	d, err := d.RemoveWidget(widgetID)
	if err != nil {
		return err
	}
	m.items[dashboardID] = d
	return nil
}

func allowAll(t *testing.T) {
	t.Helper()
	prev := authorizeDashboardsFn
	authorizeDashboardsFn = func(context.Context, string) error { return nil }
	t.Cleanup(func() { authorizeDashboardsFn = prev })
}

func testRegistry() *widgetdata.Registry {
	r := widgetdata.NewRegistry()
	r.Register(
		widgetdata.Provider{
			Key:   "test.value",
			Shape: widgetdata.ShapeValue,
			Fetch: func(context.Context, widgetdata.Config) (widgetdata.Data, error) {
				return widgetdata.ValueData(7, ""), nil
			},
		},
		widgetdata.Provider{
			Key:   "test.rows",
			Shape: widgetdata.ShapeRows,
			Fetch: func(context.Context, widgetdata.Config) (widgetdata.Data, error) {
				return widgetdata.Data{
					Columns: []string{"name", "score"},
					Rows: []map[string]any{
						{"name": "a", "score": 10},
						{"name": "b", "score": 90},
					},
				}, nil
			},
		},
		widgetdata.Provider{
			Key:   "test.broken",
			Shape: widgetdata.ShapeValue,
			Fetch: func(context.Context, widgetdata.Config) (widgetdata.Data, error) {
				return widgetdata.Data{}, errors.New("upstream down")
			},
		},
	)
	return r
}

func newTestService(t *testing.T) (*DashboardService, *memoryDashboards) {
	t.Helper()
	allowAll(t)
	logger, _ := logtest.NewNullLogger()
	repo := newMemoryDashboards()
	return NewDashboardService(repo, testRegistry(), logger), repo
}

func TestDashboardService_SingleDefault(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := itf.NewTestContext().Context()

	first, err := svc.Create(ctx, &dashboard.DTO{Name: "Board", IsDefault: true})
	require.NoError(t, err)
	second, err := svc.Create(ctx, &dashboard.DTO{Name: "Operations", IsDefault: true})
	require.NoError(t, err)

	def, err := svc.GetDefault(ctx)
	require.NoError(t, err)
	require.Equal(t, second.ID(), def.ID())

	reloaded, err := svc.GetByID(ctx, first.ID())
	require.NoError(t, err)
	require.False(t, reloaded.IsDefault())

	_, err = svc.Create(ctx, &dashboard.DTO{Name: "Board"})
	require.ErrorIs(t, err, dashboard.ErrDuplicateName)
}

func TestDashboardService_AddWidget(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := itf.NewTestContext().Context()
	d, err := svc.Create(ctx, &dashboard.DTO{Name: "Board"})
	require.NoError(t, err)

	kpi, err := svc.AddWidget(ctx, d.ID(), &dashboard.WidgetDTO{Title: "Open", Kind: "kpi", Source: "test.value"})
	require.NoError(t, err)
	require.Equal(t, dashboard.Position{X: 0, Y: 0, W: 3, H: 2}, kpi.Position())

	next, err := svc.AddWidget(ctx, d.ID(), &dashboard.WidgetDTO{Title: "Rows", Kind: "table", Source: "test.rows"})
	require.NoError(t, err)
	require.Equal(t, dashboard.Position{X: 3, Y: 0, W: 6, H: 4}, next.Position())

	_, err = svc.AddWidget(ctx, d.ID(), &dashboard.WidgetDTO{
		Title: "Clash", Kind: "kpi", Source: "test.value",
		Position: &dashboard.Position{X: 1, Y: 1, W: 2, H: 2},
	})
	require.ErrorIs(t, err, dashboard.ErrOverlap)

	_, err = svc.AddWidget(ctx, d.ID(), &dashboard.WidgetDTO{Title: "Nope", Kind: "kpi", Source: "missing.source"})
	require.ErrorIs(t, err, dashboard.ErrUnknownSource)

	_, err = svc.AddWidget(ctx, d.ID(), &dashboard.WidgetDTO{
		Title: "Bad filter", Kind: "table", Source: "test.rows",
		Config: json.RawMessage(`{"filter": "score >"}`),
	})
	var verrs serrors.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Contains(t, verrs, "Config")
}

func TestDashboardService_MoveAndRemoveWidget(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := itf.NewTestContext().Context()
	d, err := svc.Create(ctx, &dashboard.DTO{Name: "Board"})
	require.NoError(t, err)
	a, err := svc.AddWidget(ctx, d.ID(), &dashboard.WidgetDTO{Title: "A", Kind: "kpi", Source: "test.value"})
	require.NoError(t, err)
	b, err := svc.AddWidget(ctx, d.ID(), &dashboard.WidgetDTO{Title: "B", Kind: "kpi", Source: "test.value"})
	require.NoError(t, err)

	_, err = svc.MoveWidget(ctx, d.ID(), b.ID(), a.Position())
	require.ErrorIs(t, err, dashboard.ErrOverlap)

	moved, err := svc.MoveWidget(ctx, d.ID(), b.ID(), dashboard.Position{X: 0, Y: 5, W: 12, H: 2})
	require.NoError(t, err)
	require.Equal(t, 5, moved.Position().Y)

	_, err = svc.MoveWidget(ctx, d.ID(), uuid.New(), dashboard.Position{X: 0, Y: 9, W: 1, H: 1})
	require.ErrorIs(t, err, dashboard.ErrWidgetNotFound)

	require.NoError(t, svc.RemoveWidget(ctx, d.ID(), a.ID()))
	reloaded, err := svc.GetByID(ctx, d.ID())
	require.NoError(t, err)
	require.Len(t, reloaded.Widgets(), 1)
}

func TestDashboardService_Render(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := itf.NewTestContext().Context()
	d, err := svc.Create(ctx, &dashboard.DTO{Name: "Board"})
	require.NoError(t, err)
	_, err = svc.AddWidget(ctx, d.ID(), &dashboard.WidgetDTO{Title: "Value", Kind: "kpi", Source: "test.value"})
	require.NoError(t, err)
	_, err = svc.AddWidget(ctx, d.ID(), &dashboard.WidgetDTO{
		Title: "High scores", Kind: "table", Source: "test.rows",
		Config: json.RawMessage(`{"filter": "score > 50"}`),
	})
	require.NoError(t, err)
	_, err = svc.AddWidget(ctx, d.ID(), &dashboard.WidgetDTO{
		Title: "Broken", Kind: "kpi", Source: "test.broken",
		Position: &dashboard.Position{X: 0, Y: 8, W: 3, H: 2},
	})
	require.NoError(t, err)

	_, results, err := svc.Render(ctx, d.ID())
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.Equal(t, "Value", results[0].Widget.Title())
	require.NotNil(t, results[0].Data)
	require.InDelta(t, 7, *results[0].Data.Value, 0.001)

	require.Equal(t, "High scores", results[1].Widget.Title())
	require.Len(t, results[1].Data.Rows, 1)
	require.Equal(t, "b", results[1].Data.Rows[0]["name"])

	require.Equal(t, "Broken", results[2].Widget.Title())
	require.Nil(t, results[2].Data)
	require.NotNil(t, results[2].Error)
	require.Equal(t, "WIDGET_DATA_UNAVAILABLE", results[2].Error.Code)
}

func TestDashboardService_RenderLogsFailures(t *testing.T) {
	allowAll(t)
	logger, hook := logtest.NewNullLogger()
	repo := newMemoryDashboards()
	svc := NewDashboardService(repo, testRegistry(), logger)
	ctx := itf.NewTestContext().Context()

	d, err := svc.Create(ctx, &dashboard.DTO{Name: "Board"})
	require.NoError(t, err)
	_, err = svc.AddWidget(ctx, d.ID(), &dashboard.WidgetDTO{Title: "Broken", Kind: "kpi", Source: "test.broken"})
	require.NoError(t, err)

	_, _, err = svc.Render(ctx, d.ID())
	require.NoError(t, err)
	require.Len(t, hook.AllEntries(), 1)
	require.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	require.Equal(t, "test.broken", hook.LastEntry().Data["source"])
}
