package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/dora-register/modules/dashboards/domain/aggregates/dashboard"
	"github.com/iota-uz/dora-register/modules/dashboards/domain/widgetdata"
	"github.com/iota-uz/dora-register/pkg/serrors"
)

// WidgetError is reported in place of data when a widget cannot be resolved.
type WidgetError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type WidgetResult struct {
	Widget dashboard.Widget
	Data   *widgetdata.Data
	Error  *WidgetError
}

type DashboardService struct {
	repo     dashboard.Repository
	registry *widgetdata.Registry
	logger   logrus.FieldLogger
}

func NewDashboardService(repo dashboard.Repository, registry *widgetdata.Registry, logger logrus.FieldLogger) *DashboardService {
	return &DashboardService{repo: repo, registry: registry, logger: logger}
}

func (s *DashboardService) List(ctx context.Context, params *dashboard.FindParams) ([]dashboard.Dashboard, int64, error) {
	if err := authorizeDashboards(ctx, "list"); err != nil {
		return nil, 0, err
	}
	items, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *DashboardService) GetByID(ctx context.Context, id uuid.UUID) (dashboard.Dashboard, error) {
	if err := authorizeDashboards(ctx, "view"); err != nil {
		return dashboard.Dashboard{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *DashboardService) GetDefault(ctx context.Context) (dashboard.Dashboard, error) {
	if err := authorizeDashboards(ctx, "view"); err != nil {
		return dashboard.Dashboard{}, err
	}
	return s.repo.GetDefault(ctx)
}

func (s *DashboardService) Create(ctx context.Context, dto *dashboard.DTO) (dashboard.Dashboard, error) {
	if err := authorizeDashboards(ctx, "create"); err != nil {
		return dashboard.Dashboard{}, err
	}
	if errs, ok := dto.Ok(); !ok {
		return dashboard.Dashboard{}, errs
	}
	created, err := s.repo.Create(ctx, dashboard.New(*dto))
	if err != nil {
		return dashboard.Dashboard{}, err
	}
	return created, s.keepSingleDefault(ctx, created)
}

func (s *DashboardService) Update(ctx context.Context, id uuid.UUID, dto *dashboard.DTO) (dashboard.Dashboard, error) {
	if err := authorizeDashboards(ctx, "update"); err != nil {
		return dashboard.Dashboard{}, err
	}
	if errs, ok := dto.Ok(); !ok {
		return dashboard.Dashboard{}, errs
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dashboard.Dashboard{}, err
	}
	updated, err := s.repo.Update(ctx, existing.Apply(*dto))
	if err != nil {
		return dashboard.Dashboard{}, err
	}
	return updated, s.keepSingleDefault(ctx, updated)
}

func (s *DashboardService) keepSingleDefault(ctx context.Context, d dashboard.Dashboard) error {
	if !d.IsDefault() {
		return nil
	}
	return s.repo.ClearDefault(ctx, d.ID())
}

func (s *DashboardService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := authorizeDashboards(ctx, "delete"); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// AddWidget appends a widget. Without a position it takes the first free
// slot of its kind's default size.
func (s *DashboardService) AddWidget(ctx context.Context, dashboardID uuid.UUID, dto *dashboard.WidgetDTO) (dashboard.Widget, error) {
	if err := authorizeDashboards(ctx, "update"); err != nil {
		return dashboard.Widget{}, err
	}
	if err := s.checkWidget(dto); err != nil {
		return dashboard.Widget{}, err
	}
	d, err := s.repo.GetByID(ctx, dashboardID)
	if err != nil {
		return dashboard.Widget{}, err
	}
	w := dashboard.NewWidget(dashboardID, *dto)
	autoPlace := dto.Position == nil
	if autoPlace {
		width, height := dashboard.DefaultSize(w.Kind())
		w = w.Move(dashboard.Position{W: width, H: height})
	}
	_, placed, err := d.AddWidget(w, autoPlace)
	if err != nil {
		return dashboard.Widget{}, err
	}
	return s.repo.CreateWidget(ctx, placed)
}

// UpdateWidget replaces a widget's settings. A nil position keeps the
// current one.
func (s *DashboardService) UpdateWidget(ctx context.Context, dashboardID, widgetID uuid.UUID, dto *dashboard.WidgetDTO) (dashboard.Widget, error) {
	if err := authorizeDashboards(ctx, "update"); err != nil {
		return dashboard.Widget{}, err
	}
	if err := s.checkWidget(dto); err != nil {
		return dashboard.Widget{}, err
	}
	d, err := s.repo.GetByID(ctx, dashboardID)
	if err != nil {
		return dashboard.Widget{}, err
	}
	existing, ok := d.Widget(widgetID)
	if !ok {
		return dashboard.Widget{}, dashboard.ErrWidgetNotFound
	}
	updated := existing.Apply(*dto)
	if _, err := d.ReplaceWidget(updated); err != nil {
		return dashboard.Widget{}, err
	}
	return s.repo.UpdateWidget(ctx, updated)
}

func (s *DashboardService) MoveWidget(ctx context.Context, dashboardID, widgetID uuid.UUID, p dashboard.Position) (dashboard.Widget, error) {
	if err := authorizeDashboards(ctx, "update"); err != nil {
		return dashboard.Widget{}, err
	}
	d, err := s.repo.GetByID(ctx, dashboardID)
	if err != nil {
		return dashboard.Widget{}, err
	}
	existing, ok := d.Widget(widgetID)
	if !ok {
		return dashboard.Widget{}, dashboard.ErrWidgetNotFound
	}
	moved := existing.Move(p)
	if _, err := d.ReplaceWidget(moved); err != nil {
		return dashboard.Widget{}, err
	}
	return s.repo.UpdateWidget(ctx, moved)
}

func (s *DashboardService) RemoveWidget(ctx context.Context, dashboardID, widgetID uuid.UUID) error {
	if err := authorizeDashboards(ctx, "update"); err != nil {
		return err
	}
	return s.repo.DeleteWidget(ctx, dashboardID, widgetID)
}

func (s *DashboardService) checkWidget(dto *dashboard.WidgetDTO) error {
	if errs, ok := dto.Ok(); !ok {
		return errs
	}
	if _, ok := s.registry.Lookup(dto.Source); !ok {
		return dashboard.ErrUnknownSource
	}
	cfg, err := widgetdata.ParseConfig(dto.Config)
	if err != nil {
		return serrors.ValidationErrors{"Config": serrors.NewInvalidValueError("Config", "must be a JSON object")}
	}
	if cfg.Filter != "" {
		if err := widgetdata.CheckSyntax(cfg.Filter); err != nil {
			return serrors.ValidationErrors{"Config": serrors.NewInvalidValueError("Config", "has an invalid filter: "+err.Error())}
		}
	}
	return nil
}

// Sources lists the data providers widgets can bind to.
func (s *DashboardService) Sources(ctx context.Context) ([]widgetdata.Provider, error) {
	if err := authorizeDashboards(ctx, "view"); err != nil {
		return nil, err
	}
	return s.registry.List(), nil
}

// Render resolves every widget of a dashboard in reading order. A widget
// whose provider fails carries an error instead of failing the dashboard.
// Widgets resolve one after another since they share the request's
// transaction.
func (s *DashboardService) Render(ctx context.Context, dashboardID uuid.UUID) (dashboard.Dashboard, []WidgetResult, error) {
	d, err := s.GetByID(ctx, dashboardID)
	if err != nil {
		return dashboard.Dashboard{}, nil, err
	}
	widgets := d.Widgets()
	results := make([]WidgetResult, 0, len(widgets))
	for _, w := range widgets {
		results = append(results, s.resolve(ctx, w))
	}
	return d, results, nil
}

func (s *DashboardService) resolve(ctx context.Context, w dashboard.Widget) WidgetResult {
	res := WidgetResult{Widget: w}
	cfg, err := widgetdata.ParseConfig(w.Config())
	if err == nil {
		var data widgetdata.Data
		data, err = s.registry.Resolve(ctx, w.Source(), cfg)
		if err == nil {
			res.Data = &data
			return res
		}
	}
	s.logger.WithError(err).WithFields(logrus.Fields{
		"widget_id": w.ID(),
		"source":    w.Source(),
	}).Warn("widget data unavailable")
	res.Error = widgetError(err)
	return res
}

func widgetError(err error) *WidgetError {
	var base *serrors.BaseError
	switch {
	case errors.As(err, &base):
		return &WidgetError{Code: base.Code, Message: base.Message}
	case errors.Is(err, widgetdata.ErrUnknownProvider):
		return &WidgetError{Code: dashboard.ErrUnknownSource.Code, Message: err.Error()}
	case errors.Is(err, widgetdata.ErrInvalidConfig):
		return &WidgetError{Code: "INVALID_WIDGET_CONFIG", Message: err.Error()}
	default:
		return &WidgetError{Code: "WIDGET_DATA_UNAVAILABLE", Message: err.Error()}
	}
}
