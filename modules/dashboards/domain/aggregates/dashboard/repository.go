package dashboard

import (
	"context"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/pkg/repo"
	"github.com/iota-uz/dora-register/pkg/serrors"
)

var (
	ErrNotFound        = serrors.NewError("DASHBOARD_NOT_FOUND", "dashboard not found", "Dashboards.Errors.NotFound")
	ErrWidgetNotFound  = serrors.NewError("WIDGET_NOT_FOUND", "widget not found", "Dashboards.Errors.WidgetNotFound")
	ErrDuplicateName   = serrors.NewError("DASHBOARD_NAME_CONFLICT", "a dashboard with this name already exists", "Dashboards.Errors.DuplicateName")
	ErrOverlap         = serrors.NewError("WIDGET_POSITION_CONFLICT", "widget overlaps another widget", "Dashboards.Errors.Overlap")
	ErrInvalidPosition = serrors.NewError("INVALID_WIDGET_POSITION", "widget must lie within the 12 column grid", "Dashboards.Errors.InvalidPosition")
	ErrUnknownSource   = serrors.NewError("INVALID_WIDGET_SOURCE", "unknown widget data source", "Dashboards.Errors.UnknownSource")
)

type FindParams struct {
	Limit  int
	Offset int
	SortBy repo.SortBy
}

// Repository loads dashboards together with their widgets.
type Repository interface {
	List(ctx context.Context, params *FindParams) ([]Dashboard, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Dashboard, error)
	GetDefault(ctx context.Context) (Dashboard, error)
	Create(ctx context.Context, d Dashboard) (Dashboard, error)
	Update(ctx context.Context, d Dashboard) (Dashboard, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ClearDefault unsets the default flag on every dashboard except keep.
	ClearDefault(ctx context.Context, keep uuid.UUID) error

	CreateWidget(ctx context.Context, w Widget) (Widget, error)
	UpdateWidget(ctx context.Context, w Widget) (Widget, error)
	DeleteWidget(ctx context.Context, dashboardID, widgetID uuid.UUID) error
}
