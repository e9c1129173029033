package dashboard

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/iota-uz/dora-register/pkg/constants"
	"github.com/iota-uz/dora-register/pkg/serrors"
)

type DTO struct {
	Name      string `json:"name" validate:"required,max=120"`
	IsDefault bool   `json:"is_default"`
}

func (d *DTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
}

func (d *DTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs := serrors.ValidateStruct(constants.Validate, d, "Dashboards")
	if errs == nil {
		errs = serrors.ValidationErrors{}
	}
	return errs, len(errs) == 0
}

type WidgetDTO struct {
	Title    string          `json:"title" validate:"required,max=120"`
	Kind     string          `json:"kind" validate:"required,oneof=kpi bar line table progress"`
	Source   string          `json:"source" validate:"required,max=64"`
	Position *Position       `json:"position"`
	Config   json.RawMessage `json:"config"`
}

func (d *WidgetDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Kind = strings.ToLower(strings.TrimSpace(d.Kind))
	d.Source = strings.TrimSpace(d.Source)
}

// Ok validates the DTO. Config must be a JSON object when present.
func (d *WidgetDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs := serrors.ValidateStruct(constants.Validate, d, "Dashboards")
	if errs == nil {
		errs = serrors.ValidationErrors{}
	}
	if len(d.Config) > 0 && (!gjson.ValidBytes(d.Config) || !gjson.ParseBytes(d.Config).IsObject()) {
		errs.Add("Config", serrors.NewInvalidValueError("Config", "must be a JSON object"))
	}
	if d.Position != nil && !d.Position.Valid() {
		errs.Add("Position", serrors.NewInvalidValueError("Position", "must lie within the 12 column grid"))
	}
	return errs, len(errs) == 0
}
