package alert

import (
	"fmt"

	"github.com/iota-uz/dora-register/pkg/serrors"
)

// Notice is the payload a scan enqueues on the outbox. It becomes an Alert
// once the subscriber stores it.
type Notice struct {
	Kind        Kind     `json:"kind"`
	Severity    Severity `json:"severity"`
	SubjectType string   `json:"subject_type"`
	SubjectID   string   `json:"subject_id"`
	Message     string   `json:"message"`
	DedupeKey   string   `json:"dedupe_key"`
}

func (n Notice) Ok() (serrors.ValidationErrors, bool) {
	errs := serrors.ValidationErrors{}
	if !n.Kind.Valid() {
		errs.Add("Kind", serrors.NewInvalidValueError("kind", fmt.Sprintf("%q is not a known alert kind", n.Kind)))
	}
	if !n.Severity.Valid() {
		errs.Add("Severity", serrors.NewInvalidValueError("severity", fmt.Sprintf("%q is not a known severity", n.Severity)))
	}
	if n.DedupeKey == "" {
		errs.Add("DedupeKey", serrors.NewFieldRequiredError("DedupeKey", ""))
	}
	if n.Message == "" {
		errs.Add("Message", serrors.NewFieldRequiredError("Message", ""))
	}
	return errs, len(errs) == 0
}
