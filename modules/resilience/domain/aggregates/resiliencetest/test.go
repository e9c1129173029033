package resiliencetest

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeVulnerabilityAssessment Type = "vulnerability_assessment"
	TypeNetworkSecurity         Type = "network_security"
	TypeGapAnalysis             Type = "gap_analysis"
	TypeScenarioBased           Type = "scenario_based"
	TypePerformance             Type = "performance"
	TypeSourceCodeReview        Type = "source_code_review"
	TypePenetration             Type = "penetration"
	TypeTLPT                    Type = "tlpt"
)

type Tester string

const (
	TesterInternal Tester = "internal"
	TesterExternal Tester = "external"
)

type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

const DateLayout = "2006-01-02"

// Test is a digital operational resilience test run against the entity's
// ICT systems.
type Test struct {
	id                uuid.UUID
	tenantID          uuid.UUID
	name              string
	testType          Type
	scope             string
	tester            Tester
	plannedDate       *time.Time
	executedDate      *time.Time
	status            Status
	criticalFunctions []string
	createdAt         time.Time
	updatedAt         time.Time
}

type Option func(*Test)

func WithID(id uuid.UUID) Option {
	return func(t *Test) { t.id = id }
}

func WithTenantID(id uuid.UUID) Option {
	return func(t *Test) { t.tenantID = id }
}

func WithTimestamps(createdAt, updatedAt time.Time) Option {
	return func(t *Test) {
		t.createdAt = createdAt
		t.updatedAt = updatedAt
	}
}

func New(dto DTO, opts ...Option) Test {
	t := Test{}.Apply(dto)
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

func (t Test) Apply(dto DTO) Test {
	t.name = dto.Name
	t.testType = Type(dto.Type)
	t.scope = dto.Scope
	t.tester = Tester(dto.Tester)
	t.plannedDate = parseDate(dto.PlannedDate)
	t.executedDate = parseDate(dto.ExecutedDate)
	t.status = Status(dto.Status)
	if t.status == "" {
		t.status = StatusPlanned
	}
	t.criticalFunctions = append([]string(nil), dto.CriticalFunctions...)
	return t
}

func (t Test) ToDTO() DTO {
	return DTO{
		Name:              t.name,
		Type:              string(t.testType),
		Scope:             t.scope,
		Tester:            string(t.tester),
		PlannedDate:       formatDate(t.plannedDate),
		ExecutedDate:      formatDate(t.executedDate),
		Status:            string(t.status),
		CriticalFunctions: append([]string(nil), t.criticalFunctions...),
	}
}

// Complete marks the test as executed. executed overrides the stored
// execution date; one of the two must be present.
func (t Test) Complete(executed *time.Time) (Test, error) {
	if t.status == StatusCancelled {
		return t, ErrCancelled
	}
	if executed != nil {
		d := truncateDay(*executed)
		t.executedDate = &d
	}
	if t.executedDate == nil {
		return t, ErrExecutedDateRequired
	}
	t.status = StatusCompleted
	return t, nil
}

func (t Test) IsTLPT() bool { return t.testType == TypeTLPT }

func (t Test) ID() uuid.UUID               { return t.id }
func (t Test) TenantID() uuid.UUID         { return t.tenantID }
func (t Test) Name() string                { return t.name }
func (t Test) Type() Type                  { return t.testType }
func (t Test) Scope() string               { return t.scope }
func (t Test) Tester() Tester              { return t.tester }
func (t Test) PlannedDate() *time.Time     { return t.plannedDate }
func (t Test) ExecutedDate() *time.Time    { return t.executedDate }
func (t Test) Status() Status              { return t.status }
func (t Test) CriticalFunctions() []string { return t.criticalFunctions }
func (t Test) CreatedAt() time.Time        { return t.createdAt }
func (t Test) UpdatedAt() time.Time        { return t.updatedAt }

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
