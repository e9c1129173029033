package contract

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/pkg/constants"
	"github.com/iota-uz/dora-register/pkg/monetary"
	"github.com/iota-uz/dora-register/pkg/serrors"
)

// serviceTypePattern matches the ESA ICT service taxonomy codes S01 to S19.
var serviceTypePattern = regexp.MustCompile(`^S(0[1-9]|1[0-9])$`)

type DTO struct {
	Reference                string           `json:"reference" validate:"required,max=64"`
	VendorID                 uuid.UUID        `json:"vendor_id" validate:"required"`
	ArrangementType          string           `json:"arrangement_type" validate:"required,oneof=standalone overarching subsequent"`
	ServiceType              string           `json:"service_type" validate:"required"`
	FunctionName             string           `json:"function_name" validate:"required,max=255"`
	SupportsCriticalFunction bool             `json:"supports_critical_function"`
	StartDate                string           `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate                  string           `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	NoticeEntityDays         int              `json:"notice_entity_days" validate:"gte=0,lte=3650"`
	NoticeProviderDays       int              `json:"notice_provider_days" validate:"gte=0,lte=3650"`
	GoverningLaw             string           `json:"governing_law" validate:"omitempty,iso3166_1_alpha2"`
	DataStorage              bool             `json:"data_storage"`
	DataLocation             string           `json:"data_location" validate:"omitempty,iso3166_1_alpha2"`
	DataSensitivity          string           `json:"data_sensitivity" validate:"omitempty,oneof=low medium high"`
	RelianceLevel            string           `json:"reliance_level" validate:"omitempty,oneof=low material full"`
	AnnualCost               *monetary.Amount `json:"annual_cost"`
}

func (d *DTO) Normalize() {
	d.Reference = strings.TrimSpace(d.Reference)
	d.ArrangementType = strings.TrimSpace(d.ArrangementType)
	d.ServiceType = strings.ToUpper(strings.TrimSpace(d.ServiceType))
	d.FunctionName = strings.TrimSpace(d.FunctionName)
	d.StartDate = strings.TrimSpace(d.StartDate)
	d.EndDate = strings.TrimSpace(d.EndDate)
	d.GoverningLaw = strings.ToUpper(strings.TrimSpace(d.GoverningLaw))
	d.DataLocation = strings.ToUpper(strings.TrimSpace(d.DataLocation))
	d.DataSensitivity = strings.TrimSpace(d.DataSensitivity)
	d.RelianceLevel = strings.TrimSpace(d.RelianceLevel)
	if d.AnnualCost != nil {
		a := d.AnnualCost.Normalize()
		d.AnnualCost = &a
	}
}

// Ok validates the DTO. The end date may not precede the start date.
func (d *DTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs := serrors.ValidateStruct(constants.Validate, d, "Contracts")
	if errs == nil {
		errs = serrors.ValidationErrors{}
	}
	if d.ServiceType != "" && !serviceTypePattern.MatchString(d.ServiceType) {
		errs.Add("ServiceType", serrors.NewInvalidValueError("ServiceType", "must be an ICT service type code S01 to S19"))
	}
	if d.DataStorage && d.DataLocation == "" {
		errs.Add("DataLocation", serrors.NewFieldRequiredError("DataLocation", "Contracts.Fields.DataLocation"))
	}
	if d.EndDate != "" && d.StartDate == "" {
		errs.Add("StartDate", serrors.NewFieldRequiredError("StartDate", "Contracts.Fields.StartDate"))
	}
	start, sErr := time.Parse(DateLayout, d.StartDate)
	end, eErr := time.Parse(DateLayout, d.EndDate)
	if sErr == nil && eErr == nil && end.Before(start) {
		errs.Add("EndDate", serrors.NewInvalidValueError("EndDate", "must not be before the start date"))
	}
	return errs, len(errs) == 0
}
