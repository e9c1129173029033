package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/intl"
	"github.com/iota-uz/dora-register/pkg/serrors"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	// Current carries the persisted state so a client can roll back an optimistic update.
	Current any `json:"current,omitempty"`
}

const maxBodyBytes = 1 << 20

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	_ = WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta(r),
	})
}

func meta(r *http.Request) map[string]string {
	if r == nil {
		return nil
	}
	if id := composables.UseRequestID(r.Context()); id != "" {
		return map[string]string{"request_id": id}
	}
	return nil
}

// DecodeJSON reads a JSON body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// StatusFor maps a service error onto an HTTP status by its code.
func StatusFor(err error) int {
	var verrs serrors.ValidationErrors
	if errors.As(err, &verrs) {
		return http.StatusUnprocessableEntity
	}
	var be *serrors.BaseError
	if !errors.As(err, &be) {
		return http.StatusInternalServerError
	}
	switch {
	case be.Code == "UNAUTHENTICATED":
		return http.StatusUnauthorized
	case be.Code == "AUTHZ_FORBIDDEN":
		return http.StatusForbidden
	case strings.HasSuffix(be.Code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasSuffix(be.Code, "_CONFLICT"):
		return http.StatusConflict
	case strings.HasPrefix(be.Code, "VALIDATION"), strings.HasPrefix(be.Code, "INVALID"):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// WriteServiceError renders err with the status derived from its code.
// Unknown errors are logged and hidden behind a generic message.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	WriteServiceErrorWithCurrent(w, r, err, nil)
}

func WriteServiceErrorWithCurrent(w http.ResponseWriter, r *http.Request, err error, current any) {
	ctx := r.Context()
	l, _ := intl.UseLocalizer(ctx)
	status := StatusFor(err)
	env := &ErrorEnvelope{Meta: meta(r), Current: current}
	if w != nil {
		w.Header().Set("Content-Language", intl.UseLocale(ctx, language.English).String())
	}

	var verrs serrors.ValidationErrors
	var be *serrors.BaseError
	switch {
	case errors.As(err, &verrs):
		env.Code = "VALIDATION_FAILED"
		env.Message = intl.T(ctx, "Errors.ValidationFailed", nil)
		if env.Message == "Errors.ValidationFailed" {
			env.Message = "validation failed"
		}
		env.Fields = serrors.LocalizeValidationErrors(verrs, l)
	case errors.As(err, &be):
		env.Code = be.Code
		env.Message = be.Localize(l)
	default:
		composables.UseLogger(ctx).WithError(err).Error("request failed")
		env.Code = "INTERNAL_SERVER_ERROR"
		env.Message = "internal server error"
	}
	_ = WriteJSON(w, status, env)
}
