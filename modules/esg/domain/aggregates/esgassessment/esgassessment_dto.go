package esgassessment

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/dora-register/pkg/constants"
	"github.com/iota-uz/dora-register/pkg/serrors"
)

type DTO struct {
	VendorID      *uuid.UUID `json:"vendor_id"`
	Environmental int        `json:"environmental" validate:"min=0,max=100"`
	Social        int        `json:"social" validate:"min=0,max=100"`
	Governance    int        `json:"governance" validate:"min=0,max=100"`
	Weights       *Weights   `json:"weights"`
	AssessedAt    string     `json:"assessed_at" validate:"required,datetime=2006-01-02"`
	Notes         string     `json:"notes" validate:"max=4000"`
}

func (d *DTO) Normalize() {
	d.AssessedAt = strings.TrimSpace(d.AssessedAt)
	d.Notes = strings.TrimSpace(d.Notes)
	if d.VendorID != nil && *d.VendorID == uuid.Nil {
		d.VendorID = nil
	}
	if d.Weights == nil {
		w := DefaultWeights()
		d.Weights = &w
	}
}

// Ok validates the DTO. Each weight lies in [0, 1] and together they sum to 1.
func (d *DTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs := serrors.ValidateStruct(constants.Validate, d, "ESG")
	if errs == nil {
		errs = serrors.ValidationErrors{}
	}
	one := decimal.NewFromInt(1)
	for field, w := range map[string]decimal.Decimal{
		"Weights.Environmental": d.Weights.Environmental,
		"Weights.Social":        d.Weights.Social,
		"Weights.Governance":    d.Weights.Governance,
	} {
		if w.IsNegative() || w.GreaterThan(one) {
			errs.Add(field, serrors.NewInvalidValueError(field, "must be between 0 and 1"))
		}
	}
	if !d.Weights.Sum().Equal(one) {
		errs.Add("Weights", serrors.NewInvalidValueError("Weights", "must sum to 1"))
	}
	return errs, len(errs) == 0
}
