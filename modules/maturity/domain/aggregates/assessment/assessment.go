package assessment

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/dora-register/pkg/constants"
	"github.com/iota-uz/dora-register/pkg/serrors"
)

type Status string

const (
	StatusNotStarted    Status = "not_started"
	StatusPartial       Status = "partial"
	StatusImplemented   Status = "implemented"
	StatusNotApplicable Status = "not_applicable"
)

// Credit is the share of a requirement's weight an assessment earns.
func (s Status) Credit() decimal.Decimal {
	switch s {
	case StatusImplemented:
		return decimal.NewFromInt(1)
	case StatusPartial:
		return decimal.NewFromFloat(0.5)
	default:
		return decimal.Zero
	}
}

func (s Status) Applicable() bool { return s != StatusNotApplicable }

// Assessment is the tenant's self-assessment of one catalog requirement.
type Assessment struct {
	tenantID      uuid.UUID
	requirementID string
	status        Status
	note          string
	updatedBy     string
	updatedAt     time.Time
}

func New(requirementID string, dto DTO, updatedBy string, updatedAt time.Time) Assessment {
	return Assessment{
		requirementID: requirementID,
		status:        Status(dto.Status),
		note:          dto.Note,
		updatedBy:     updatedBy,
		updatedAt:     updatedAt,
	}
}

// Restore rebuilds a stored assessment.
func Restore(tenantID uuid.UUID, requirementID string, status Status, note, updatedBy string, updatedAt time.Time) Assessment {
	return Assessment{
		tenantID:      tenantID,
		requirementID: requirementID,
		status:        status,
		note:          note,
		updatedBy:     updatedBy,
		updatedAt:     updatedAt,
	}
}

func (a Assessment) TenantID() uuid.UUID   { return a.tenantID }
func (a Assessment) RequirementID() string { return a.requirementID }
func (a Assessment) Status() Status        { return a.status }
func (a Assessment) Note() string          { return a.note }
func (a Assessment) UpdatedBy() string     { return a.updatedBy }
func (a Assessment) UpdatedAt() time.Time  { return a.updatedAt }

type DTO struct {
	Status string `json:"status" validate:"required,oneof=not_started partial implemented not_applicable"`
	Note   string `json:"note" validate:"max=5000"`
}

func (d *DTO) Ok() (serrors.ValidationErrors, bool) {
	d.Status = strings.TrimSpace(d.Status)
	d.Note = strings.TrimSpace(d.Note)
	errs := serrors.ValidateStruct(constants.Validate, d, "Maturity")
	if errs == nil {
		errs = serrors.ValidationErrors{}
	}
	return errs, len(errs) == 0
}
