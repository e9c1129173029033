package finding

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/pkg/constants"
	"github.com/iota-uz/dora-register/pkg/serrors"
)

type DTO struct {
	TestID      uuid.UUID `json:"test_id" validate:"required"`
	Title       string    `json:"title" validate:"required,max=255"`
	Description string    `json:"description" validate:"max=10000"`
	Severity    string    `json:"severity" validate:"required,oneof=critical high medium low info"`
	Status      string    `json:"status" validate:"omitempty,oneof=open in_progress remediated risk_accepted"`
	Owner       string    `json:"owner" validate:"max=255"`
	DueDate     string    `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

func (d *DTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Severity = strings.ToLower(strings.TrimSpace(d.Severity))
	d.Status = strings.TrimSpace(d.Status)
	if d.Status == "" {
		d.Status = string(StatusOpen)
	}
	d.Owner = strings.TrimSpace(d.Owner)
	d.DueDate = strings.TrimSpace(d.DueDate)
}

func (d *DTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs := serrors.ValidateStruct(constants.Validate, d, "Resilience")
	if errs == nil {
		errs = serrors.ValidationErrors{}
	}
	return errs, len(errs) == 0
}

// DefaultDue fills an empty due date from the severity SLA.
func (d *DTO) DefaultDue(now time.Time) {
	if d.DueDate != "" {
		return
	}
	d.DueDate = formatDate(DefaultDueDate(Severity(d.Severity), now))
}
