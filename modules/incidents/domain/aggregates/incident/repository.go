package incident

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/pkg/repo"
	"github.com/iota-uz/dora-register/pkg/serrors"
)

var (
	ErrNotFound            = serrors.NewError("INCIDENT_NOT_FOUND", "incident not found", "Incidents.Errors.NotFound")
	ErrReferenceTaken      = serrors.NewError("INCIDENT_REFERENCE_CONFLICT", "incident reference is already used", "Incidents.Errors.ReferenceTaken")
	ErrUnknownVendor       = serrors.NewError("INVALID_INCIDENT_VENDOR", "vendor does not exist", "Incidents.Errors.UnknownVendor")
	ErrClosed              = serrors.NewError("INCIDENT_CLOSED_CONFLICT", "incident is closed", "Incidents.Errors.Closed")
	ErrNotClassified       = serrors.NewError("INCIDENT_NOT_CLASSIFIED_CONFLICT", "incident must be classified first", "Incidents.Errors.NotClassified")
	ErrNotMajor            = serrors.NewError("INCIDENT_NOT_MAJOR_CONFLICT", "only major incidents are reported", "Incidents.Errors.NotMajor")
	ErrNotificationOrder   = serrors.NewError("INCIDENT_NOTIFICATION_ORDER_CONFLICT", "reports must follow initial, intermediate, final", "Incidents.Errors.NotificationOrder")
	ErrAlreadyReported     = serrors.NewError("INCIDENT_ALREADY_REPORTED_CONFLICT", "this report was already submitted", "Incidents.Errors.AlreadyReported")
	ErrFinalReportMissing  = serrors.NewError("INCIDENT_FINAL_REPORT_CONFLICT", "a major incident needs its final report before closing", "Incidents.Errors.FinalReportMissing")
	ErrUnknownNotification = serrors.NewError("INCIDENT_NOTIFICATION_NOT_FOUND", "unknown notification kind", "Incidents.Errors.UnknownNotification")
)

type FindParams struct {
	Q            string
	Status       Status
	Major        *bool
	Open         bool
	VendorID     *uuid.UUID
	DetectedFrom *time.Time
	Limit        int
	Offset       int
	SortBy       repo.SortBy
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]Incident, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Incident, error)
	Create(ctx context.Context, i Incident) (Incident, error)
	Update(ctx context.Context, i Incident) (Incident, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
