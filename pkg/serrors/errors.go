package serrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iota-uz/go-i18n/v2/i18n"
)

// BaseError is the error type surfaced to API clients. Code is stable and
// machine-readable; LocaleKey selects the translated message.
type BaseError struct {
	Code         string         `json:"code"`
	Message      string         `json:"message"`
	LocaleKey    string         `json:"-"`
	TemplateData map[string]any `json:"-"`
}

func (e *BaseError) Error() string {
	return e.Message
}

// Is matches by Code so wrapped copies of a sentinel still compare equal.
func (e *BaseError) Is(target error) bool {
	var t *BaseError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Localize renders the error in the localizer's language, falling back to Message.
func (e *BaseError) Localize(l *i18n.Localizer) string {
	if l == nil || e.LocaleKey == "" {
		return e.Message
	}
	msg, err := l.Localize(&i18n.LocalizeConfig{
		MessageID:    e.LocaleKey,
		TemplateData: e.TemplateData,
		DefaultMessage: &i18n.Message{
			ID:    e.LocaleKey,
			Other: e.Message,
		},
	})
	if err != nil {
		return e.Message
	}
	return msg
}

// WithTemplateData returns a copy carrying data for the translated message.
func (e *BaseError) WithTemplateData(data map[string]any) *BaseError {
	cp := *e
	cp.TemplateData = data
	return &cp
}

func NewError(code, message, localeKey string) *BaseError {
	return &BaseError{
		Code:      code,
		Message:   message,
		LocaleKey: localeKey,
	}
}

// ValidationErrors maps a field name to its first failure.
type ValidationErrors map[string]*BaseError

func (v ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(v))
}

func NewFieldRequiredError(field, fieldLocaleKey string) *BaseError {
	return &BaseError{
		Code:         "REQUIRED",
		Message:      fmt.Sprintf("%s is required", field),
		LocaleKey:    "ValidationErrors.required",
		TemplateData: map[string]any{"Field": field, "FieldKey": fieldLocaleKey},
	}
}

func NewInvalidValueError(field, reason string) *BaseError {
	return &BaseError{
		Code:         "INVALID",
		Message:      fmt.Sprintf("%s %s", field, reason),
		LocaleKey:    "ValidationErrors.invalid",
		TemplateData: map[string]any{"Field": field, "Reason": reason},
	}
}

// ProcessValidatorErrors converts validator failures into BaseErrors keyed by
// struct field name. fieldLocaleKey maps a field to its label translation key.
func ProcessValidatorErrors(errs validator.ValidationErrors, fieldLocaleKey func(string) string) map[string]*BaseError {
	out := make(map[string]*BaseError, len(errs))
	for _, fe := range errs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		key := ""
		if fieldLocaleKey != nil {
			key = fieldLocaleKey(fe.Field())
		}
		out[fe.Field()] = &BaseError{
			Code:      "VALIDATION_" + fe.Tag(),
			Message:   validatorMessage(fe),
			LocaleKey: "ValidationErrors." + fe.Tag(),
			TemplateData: map[string]any{
				"Field":    fe.Field(),
				"FieldKey": key,
				"Param":    fe.Param(),
			},
		}
	}
	return out
}

func validatorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// LocalizeValidationErrors renders every entry; l may be nil.
func LocalizeValidationErrors(errs ValidationErrors, l *i18n.Localizer) map[string]string {
	out := make(map[string]string, len(errs))
	for field, err := range errs {
		out[field] = localizeWithField(err, l)
	}
	return out
}

func localizeWithField(err *BaseError, l *i18n.Localizer) string {
	if l == nil {
		return err.Message
	}
	data := map[string]any{}
	for k, v := range err.TemplateData {
		data[k] = v
	}
	if key, ok := data["FieldKey"].(string); ok && key != "" {
		if label, lErr := l.Localize(&i18n.LocalizeConfig{MessageID: key}); lErr == nil {
			data["Field"] = label
		}
	}
	return err.WithTemplateData(data).Localize(l)
}

// ValidateStruct runs v over s and converts failures into ValidationErrors.
// Field labels resolve to "<labelPrefix>.Fields.<Field>". It returns nil when s is valid.
func ValidateStruct(v *validator.Validate, s any, labelPrefix string) ValidationErrors {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationErrors{"_": NewInvalidValueError("input", err.Error())}
	}
	fieldKey := func(field string) string {
		if labelPrefix == "" {
			return ""
		}
		return FieldLabelKey(labelPrefix, field)
	}
	return ProcessValidatorErrors(verrs, fieldKey)
}

// go-i18n reads these keys as message attributes, so a label table may not
// use them as plain keys.
var reservedMessageKeys = map[string]struct{}{
	"id": {}, "description": {}, "hash": {}, "leftdelim": {}, "rightdelim": {},
	"zero": {}, "one": {}, "two": {}, "few": {}, "many": {}, "other": {},
}

// FieldLabelKey is the translation key of a field label. Fields named after
// a reserved go-i18n attribute get a "Label" suffix.
func FieldLabelKey(prefix, field string) string {
	if _, reserved := reservedMessageKeys[strings.ToLower(field)]; reserved {
		field += "Label"
	}
	return prefix + ".Fields." + field
}

// Add records err for field unless the field already failed.
func (v ValidationErrors) Add(field string, err *BaseError) {
	if _, exists := v[field]; !exists {
		v[field] = err
	}
}
