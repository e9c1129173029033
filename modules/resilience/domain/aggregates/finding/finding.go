package finding

import (
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}

type Status string

const (
	StatusOpen         Status = "open"
	StatusInProgress   Status = "in_progress"
	StatusRemediated   Status = "remediated"
	StatusRiskAccepted Status = "risk_accepted"
)

const DateLayout = "2006-01-02"

// remediationDays is the remediation SLA per severity. Info findings have none.
var remediationDays = map[Severity]int{
	SeverityCritical: 15,
	SeverityHigh:     30,
	SeverityMedium:   90,
	SeverityLow:      180,
}

// DefaultDueDate applies the severity SLA from the day of from.
func DefaultDueDate(severity Severity, from time.Time) *time.Time {
	days, ok := remediationDays[severity]
	if !ok {
		return nil
	}
	due := truncateDay(from).AddDate(0, 0, days)
	return &due
}

// Finding is an issue raised by a resilience test.
type Finding struct {
	id           uuid.UUID
	tenantID     uuid.UUID
	testID       uuid.UUID
	title        string
	description  string
	severity     Severity
	status       Status
	owner        string
	dueDate      *time.Time
	remediatedAt *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

type Option func(*Finding)

func WithID(id uuid.UUID) Option {
	return func(f *Finding) { f.id = id }
}

func WithTenantID(id uuid.UUID) Option {
	return func(f *Finding) { f.tenantID = id }
}

func WithRemediatedAt(t *time.Time) Option {
	return func(f *Finding) { f.remediatedAt = t }
}

func WithTimestamps(createdAt, updatedAt time.Time) Option {
	return func(f *Finding) {
		f.createdAt = createdAt
		f.updatedAt = updatedAt
	}
}

func New(dto DTO, opts ...Option) Finding {
	f := Finding{}.Apply(dto)
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

func (f Finding) Apply(dto DTO) Finding {
	f.testID = dto.TestID
	f.title = dto.Title
	f.description = dto.Description
	f.severity = Severity(dto.Severity)
	f.status = Status(dto.Status)
	if f.status == "" {
		f.status = StatusOpen
	}
	f.owner = dto.Owner
	f.dueDate = parseDate(dto.DueDate)
	return f
}

func (f Finding) ToDTO() DTO {
	return DTO{
		TestID:      f.testID,
		Title:       f.title,
		Description: f.description,
		Severity:    string(f.severity),
		Status:      string(f.status),
		Owner:       f.owner,
		DueDate:     formatDate(f.dueDate),
	}
}

// Settle stamps or clears the remediation time after a status change.
func (f Finding) Settle(now time.Time) Finding {
	switch {
	case f.status == StatusRemediated && f.remediatedAt == nil:
		f.remediatedAt = &now
	case f.status != StatusRemediated:
		f.remediatedAt = nil
	}
	return f
}

// IsClosed reports whether the finding no longer needs remediation.
func (f Finding) IsClosed() bool {
	return f.status == StatusRemediated || f.status == StatusRiskAccepted
}

// IsOverdue is true for open findings whose due date has passed.
func (f Finding) IsOverdue(now time.Time) bool {
	if f.IsClosed() || f.dueDate == nil {
		return false
	}
	return truncateDay(*f.dueDate).Before(truncateDay(now))
}

func (f Finding) ID() uuid.UUID            { return f.id }
func (f Finding) TenantID() uuid.UUID      { return f.tenantID }
func (f Finding) TestID() uuid.UUID        { return f.testID }
func (f Finding) Title() string            { return f.title }
func (f Finding) Description() string      { return f.description }
func (f Finding) Severity() Severity       { return f.severity }
func (f Finding) Status() Status           { return f.status }
func (f Finding) Owner() string            { return f.owner }
func (f Finding) DueDate() *time.Time      { return f.dueDate }
func (f Finding) RemediatedAt() *time.Time { return f.remediatedAt }
func (f Finding) CreatedAt() time.Time     { return f.createdAt }
func (f Finding) UpdatedAt() time.Time     { return f.updatedAt }

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(DateLayout)
}
