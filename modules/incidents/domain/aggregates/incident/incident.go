package incident

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDetected             Status = "detected"
	StatusClassified           Status = "classified"
	StatusInitialReported      Status = "initial_reported"
	StatusIntermediateReported Status = "intermediate_reported"
	StatusFinalReported        Status = "final_reported"
	StatusClosed               Status = "closed"
)

type NotificationKind string

const (
	NotificationInitial      NotificationKind = "initial"
	NotificationIntermediate NotificationKind = "intermediate"
	NotificationFinal        NotificationKind = "final"
)

// NotificationKinds lists the reports in the order they must be submitted.
var NotificationKinds = []NotificationKind{NotificationInitial, NotificationIntermediate, NotificationFinal}

func ParseNotificationKind(s string) (NotificationKind, bool) {
	for _, k := range NotificationKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Incident is an ICT-related incident and its reporting trail.
type Incident struct {
	id             uuid.UUID
	tenantID       uuid.UUID
	reference      string
	title          string
	description    string
	detectedAt     time.Time
	occurredAt     *time.Time
	classifiedAt   *time.Time
	resolvedAt     *time.Time
	status         Status
	criteria       Criteria
	major          bool
	initialAt      *time.Time
	intermediateAt *time.Time
	finalAt        *time.Time
	rootCause      string
	vendorID       *uuid.UUID
	createdAt      time.Time
	updatedAt      time.Time
}

type Option func(*Incident)

func WithID(id uuid.UUID) Option {
	return func(i *Incident) { i.id = id }
}

func WithTenantID(id uuid.UUID) Option {
	return func(i *Incident) { i.tenantID = id }
}

func WithTimestamps(createdAt, updatedAt time.Time) Option {
	return func(i *Incident) {
		i.createdAt = createdAt
		i.updatedAt = updatedAt
	}
}

// WithState restores lifecycle fields that only the incident itself changes.
func WithState(status Status, major bool, classifiedAt, initialAt, intermediateAt, finalAt *time.Time) Option {
	return func(i *Incident) {
		i.status = status
		i.major = major
		i.classifiedAt = classifiedAt
		i.initialAt = initialAt
		i.intermediateAt = intermediateAt
		i.finalAt = finalAt
	}
}

func New(dto DTO, opts ...Option) Incident {
	i := Incident{status: StatusDetected}.Apply(dto)
	for _, opt := range opts {
		opt(&i)
	}
	return i
}

// Apply replaces the editable fields. A classified incident is re-evaluated
// against the new criteria.
func (i Incident) Apply(dto DTO) Incident {
	i.reference = dto.Reference
	i.title = dto.Title
	i.description = dto.Description
	i.detectedAt = dto.DetectedAt
	i.occurredAt = dto.OccurredAt
	i.resolvedAt = dto.ResolvedAt
	i.criteria = dto.Criteria
	i.rootCause = dto.RootCause
	i.vendorID = dto.VendorID
	if i.classifiedAt != nil {
		i.major = i.criteria.Classify().Major
	}
	return i
}

func (i Incident) ToDTO() DTO {
	return DTO{
		Reference:   i.reference,
		Title:       i.title,
		Description: i.description,
		DetectedAt:  i.detectedAt,
		OccurredAt:  i.occurredAt,
		ResolvedAt:  i.resolvedAt,
		Criteria:    i.criteria,
		RootCause:   i.rootCause,
		VendorID:    i.vendorID,
	}
}

// Classify evaluates the criteria at t. Re-classifying keeps the first
// classification time and any reports already submitted.
func (i Incident) Classify(t time.Time) (Incident, error) {
	if i.status == StatusClosed {
		return i, ErrClosed
	}
	i.major = i.criteria.Classify().Major
	if i.classifiedAt == nil {
		i.classifiedAt = &t
	}
	if i.status == StatusDetected {
		i.status = StatusClassified
	}
	return i, nil
}

// RecordNotification marks a report as submitted at t. Reports only exist
// for major incidents and must follow initial, intermediate, final.
func (i Incident) RecordNotification(kind NotificationKind, t time.Time) (Incident, error) {
	if i.status == StatusClosed {
		return i, ErrClosed
	}
	if i.classifiedAt == nil {
		return i, ErrNotClassified
	}
	if !i.major {
		return i, ErrNotMajor
	}
	switch kind {
	case NotificationInitial:
		if i.initialAt != nil {
			return i, ErrAlreadyReported
		}
		i.initialAt = &t
		i.status = StatusInitialReported
	case NotificationIntermediate:
		if i.initialAt == nil {
			return i, ErrNotificationOrder
		}
		if i.intermediateAt != nil {
			return i, ErrAlreadyReported
		}
		i.intermediateAt = &t
		i.status = StatusIntermediateReported
	case NotificationFinal:
		if i.intermediateAt == nil {
			return i, ErrNotificationOrder
		}
		if i.finalAt != nil {
			return i, ErrAlreadyReported
		}
		i.finalAt = &t
		i.status = StatusFinalReported
	default:
		return i, ErrUnknownNotification
	}
	return i, nil
}

// Close ends the incident. A major incident needs its final report first.
// The resolution time defaults to t.
func (i Incident) Close(t time.Time) (Incident, error) {
	if i.status == StatusClosed {
		return i, ErrClosed
	}
	if i.major && i.finalAt == nil {
		return i, ErrFinalReportMissing
	}
	if i.resolvedAt == nil {
		i.resolvedAt = &t
	}
	i.status = StatusClosed
	return i, nil
}

func (i Incident) IsOpen() bool { return i.status != StatusClosed }

func (i Incident) ID() uuid.UUID              { return i.id }
func (i Incident) TenantID() uuid.UUID        { return i.tenantID }
func (i Incident) Reference() string          { return i.reference }
func (i Incident) Title() string              { return i.title }
func (i Incident) Description() string        { return i.description }
func (i Incident) DetectedAt() time.Time      { return i.detectedAt }
func (i Incident) OccurredAt() *time.Time     { return i.occurredAt }
func (i Incident) ClassifiedAt() *time.Time   { return i.classifiedAt }
func (i Incident) ResolvedAt() *time.Time     { return i.resolvedAt }
func (i Incident) Status() Status             { return i.status }
func (i Incident) Criteria() Criteria         { return i.criteria }
func (i Incident) Major() bool                { return i.major }
func (i Incident) InitialAt() *time.Time      { return i.initialAt }
func (i Incident) IntermediateAt() *time.Time { return i.intermediateAt }
func (i Incident) FinalAt() *time.Time        { return i.finalAt }
func (i Incident) RootCause() string          { return i.rootCause }
func (i Incident) VendorID() *uuid.UUID       { return i.vendorID }
func (i Incident) CreatedAt() time.Time       { return i.createdAt }
func (i Incident) UpdatedAt() time.Time       { return i.updatedAt }
