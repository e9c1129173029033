package resiliencetest

import (
	"strings"

	"github.com/iota-uz/dora-register/pkg/constants"
	"github.com/iota-uz/dora-register/pkg/serrors"
)

type DTO struct {
	Name              string   `json:"name" validate:"required,max=255"`
	Type              string   `json:"type" validate:"required,oneof=vulnerability_assessment network_security gap_analysis scenario_based performance source_code_review penetration tlpt"`
	Scope             string   `json:"scope" validate:"max=10000"`
	Tester            string   `json:"tester" validate:"required,oneof=internal external"`
	PlannedDate       string   `json:"planned_date" validate:"omitempty,datetime=2006-01-02"`
	ExecutedDate      string   `json:"executed_date" validate:"omitempty,datetime=2006-01-02"`
	Status            string   `json:"status" validate:"omitempty,oneof=planned in_progress completed cancelled"`
	CriticalFunctions []string `json:"critical_functions" validate:"dive,required,max=255"`
}

func (d *DTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Type = strings.TrimSpace(d.Type)
	d.Scope = strings.TrimSpace(d.Scope)
	d.Tester = strings.TrimSpace(d.Tester)
	d.PlannedDate = strings.TrimSpace(d.PlannedDate)
	d.ExecutedDate = strings.TrimSpace(d.ExecutedDate)
	d.Status = strings.TrimSpace(d.Status)
	if d.Status == "" {
		d.Status = string(StatusPlanned)
	}
	functions := make([]string, 0, len(d.CriticalFunctions))
	for _, f := range d.CriticalFunctions {
		if f = strings.TrimSpace(f); f != "" {
			functions = append(functions, f)
		}
	}
	d.CriticalFunctions = functions
}

// Ok validates the DTO. A completed test carries its execution date.
func (d *DTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs := serrors.ValidateStruct(constants.Validate, d, "Resilience")
	if errs == nil {
		errs = serrors.ValidationErrors{}
	}
	if d.Status == string(StatusCompleted) && d.ExecutedDate == "" {
		errs.Add("ExecutedDate", serrors.NewFieldRequiredError("ExecutedDate", "Resilience.Fields.ExecutedDate"))
	}
	return errs, len(errs) == 0
}
