package incident

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/pkg/constants"
	"github.com/iota-uz/dora-register/pkg/serrors"
)

type DTO struct {
	Reference   string     `json:"reference" validate:"required,max=64"`
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description" validate:"max=10000"`
	DetectedAt  time.Time  `json:"detected_at" validate:"required"`
	OccurredAt  *time.Time `json:"occurred_at"`
	ResolvedAt  *time.Time `json:"resolved_at"`
	Criteria    Criteria   `json:"criteria"`
	RootCause   string     `json:"root_cause" validate:"max=10000"`
	VendorID    *uuid.UUID `json:"vendor_id"`
}

func (d *DTO) Normalize() {
	d.Reference = strings.TrimSpace(d.Reference)
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.RootCause = strings.TrimSpace(d.RootCause)
	if d.Criteria.DataLoss == "" {
		d.Criteria.DataLoss = DataLossNone
	}
	if d.VendorID != nil && *d.VendorID == uuid.Nil {
		d.VendorID = nil
	}
}

// Ok validates the DTO. An incident cannot occur or be resolved out of order.
func (d *DTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs := serrors.ValidateStruct(constants.Validate, d, "Incidents")
	if errs == nil {
		errs = serrors.ValidationErrors{}
	}
	if d.OccurredAt != nil && !d.DetectedAt.IsZero() && d.OccurredAt.After(d.DetectedAt) {
		errs.Add("OccurredAt", serrors.NewInvalidValueError("OccurredAt", "must not be after the detection time"))
	}
	if d.ResolvedAt != nil && !d.DetectedAt.IsZero() && d.ResolvedAt.Before(d.DetectedAt) {
		errs.Add("ResolvedAt", serrors.NewInvalidValueError("ResolvedAt", "must not be before the detection time"))
	}
	return errs, len(errs) == 0
}
