package alert

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindContractExpiring Kind = "contract_expiring"
	KindIncidentDeadline Kind = "incident_deadline"
	KindFindingOverdue   Kind = "finding_overdue"
	KindTLPTDue          Kind = "tlpt_due"
	KindSnapshotTaken    Kind = "snapshot_taken"
)

var Kinds = []Kind{KindContractExpiring, KindIncidentDeadline, KindFindingOverdue, KindTLPTDue, KindSnapshotTaken}

func (k Kind) Valid() bool {
	for _, v := range Kinds {
		if v == k {
			return true
		}
	}
	return false
}

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

// Alert is a compliance notice raised by a background scan. DedupeKey is
// unique per tenant, so repeated scans never raise the same alert twice.
type Alert struct {
	id             uuid.UUID
	tenantID       uuid.UUID
	kind           Kind
	severity       Severity
	subjectType    string
	subjectID      string
	message        string
	dedupeKey      string
	createdAt      time.Time
	acknowledgedAt *time.Time
	acknowledgedBy string
}

type Option func(*Alert)

func WithID(id uuid.UUID) Option {
	return func(a *Alert) { a.id = id }
}

func WithTenantID(id uuid.UUID) Option {
	return func(a *Alert) { a.tenantID = id }
}

func WithCreatedAt(t time.Time) Option {
	return func(a *Alert) { a.createdAt = t }
}

func WithAcknowledgement(at time.Time, by string) Option {
	return func(a *Alert) {
		a.acknowledgedAt = &at
		a.acknowledgedBy = by
	}
}

func New(n Notice, opts ...Option) Alert {
	a := Alert{
		kind:        n.Kind,
		severity:    n.Severity,
		subjectType: n.SubjectType,
		subjectID:   n.SubjectID,
		message:     n.Message,
		dedupeKey:   n.DedupeKey,
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// Acknowledge marks the alert as seen. A second acknowledgement keeps the
// first timestamp and actor.
func (a Alert) Acknowledge(by string, at time.Time) Alert {
	if a.acknowledgedAt != nil {
		return a
	}
	a.acknowledgedAt = &at
	a.acknowledgedBy = by
	return a
}

func (a Alert) IsAcknowledged() bool { return a.acknowledgedAt != nil }

func (a Alert) Notice() Notice {
	return Notice{
		Kind:        a.kind,
		Severity:    a.severity,
		SubjectType: a.subjectType,
		SubjectID:   a.subjectID,
		Message:     a.message,
		DedupeKey:   a.dedupeKey,
	}
}

func (a Alert) ID() uuid.UUID              { return a.id }
func (a Alert) TenantID() uuid.UUID        { return a.tenantID }
func (a Alert) Kind() Kind                 { return a.kind }
func (a Alert) Severity() Severity         { return a.severity }
func (a Alert) SubjectType() string        { return a.subjectType }
func (a Alert) SubjectID() string          { return a.subjectID }
func (a Alert) Message() string            { return a.message }
func (a Alert) DedupeKey() string          { return a.dedupeKey }
func (a Alert) CreatedAt() time.Time       { return a.createdAt }
func (a Alert) AcknowledgedAt() *time.Time { return a.acknowledgedAt }
func (a Alert) AcknowledgedBy() string     { return a.acknowledgedBy }
