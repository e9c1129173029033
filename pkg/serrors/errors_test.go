package serrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestBaseError_IsMatchesByCode(t *testing.T) {
	sentinel := NewError("VENDOR_NOT_FOUND", "vendor not found", "Vendors.Errors.NotFound")
	wrapped := fmt.Errorf("get vendor: %w", NewError("VENDOR_NOT_FOUND", "other text", ""))

	require.True(t, errors.Is(wrapped, sentinel))
	require.False(t, errors.Is(wrapped, NewError("CONTRACT_NOT_FOUND", "", "")))
}

func TestProcessValidatorErrors(t *testing.T) {
	type dto struct {
		Name        string `validate:"required"`
		Criticality string `validate:"oneof=critical important standard"`
	}
	err := validator.New().Struct(&dto{Criticality: "unknown"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	out := ProcessValidatorErrors(verrs, func(field string) string { return "Vendors.Fields." + field })
	require.Len(t, out, 2)
	require.Equal(t, "VALIDATION_required", out["Name"].Code)
	require.Equal(t, "Criticality must be one of [critical important standard]", out["Criticality"].Message)
	require.Equal(t, "Vendors.Fields.Name", out["Name"].TemplateData["FieldKey"])
}

func TestLocalizeValidationErrors(t *testing.T) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	bundle.MustParseMessageFileBytes([]byte(`{
		"ValidationErrors.required": "{{.Field}} darf nicht leer sein",
		"Vendors.Fields.Name": "Name"
	}`), "de.json")
	l := i18n.NewLocalizer(bundle, "de")

	errs := ValidationErrors{
		"Name": {
			Code:         "VALIDATION_required",
			Message:      "Name is required",
			LocaleKey:    "ValidationErrors.required",
			TemplateData: map[string]any{"Field": "Name", "FieldKey": "Vendors.Fields.Name"},
		},
	}

	require.Equal(t, map[string]string{"Name": "Name darf nicht leer sein"}, LocalizeValidationErrors(errs, l))
	require.Equal(t, map[string]string{"Name": "Name is required"}, LocalizeValidationErrors(errs, nil))
}

func TestValidateStruct(t *testing.T) {
	type dto struct {
		Name    string `validate:"required"`
		Country string `validate:"omitempty,len=2"`
	}
	require.Nil(t, ValidateStruct(validator.New(), &dto{Name: "Acme"}, "Vendors"))

	errs := ValidateStruct(validator.New(), &dto{Country: "DEU"}, "Vendors")
	require.Len(t, errs, 2)
	require.Equal(t, "Vendors.Fields.Country", errs["Country"].TemplateData["FieldKey"])

	errs.Add("Country", NewInvalidValueError("Country", "ignored"))
	require.Equal(t, "VALIDATION_len", errs["Country"].Code)
}

func TestFieldLabelKey_AvoidsReservedMessageKeys(t *testing.T) {
	require.Equal(t, "Vendors.Fields.Name", FieldLabelKey("Vendors", "Name"))
	require.Equal(t, "Incidents.Fields.DescriptionLabel", FieldLabelKey("Incidents", "Description"))
	require.Equal(t, "Core.Fields.IDLabel", FieldLabelKey("Core", "ID"))

	type dto struct {
		Description string `validate:"max=3"`
	}
	errs := ValidateStruct(validator.New(), &dto{Description: "too long"}, "Incidents")
	require.Equal(t, "Incidents.Fields.DescriptionLabel", errs["Description"].TemplateData["FieldKey"])
}
