package contract

import (
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/pkg/monetary"
)

type ArrangementType string

const (
	ArrangementStandalone  ArrangementType = "standalone"
	ArrangementOverarching ArrangementType = "overarching"
	ArrangementSubsequent  ArrangementType = "subsequent"
)

type Status string

const (
	StatusDraft      Status = "draft"
	StatusActive     Status = "active"
	StatusExpiring   Status = "expiring"
	StatusExpired    Status = "expired"
	StatusTerminated Status = "terminated"
)

var Statuses = []Status{StatusDraft, StatusActive, StatusExpiring, StatusExpired, StatusTerminated}

// ExpiringWindowDays is how close the end date must be for a contract to count as expiring.
const ExpiringWindowDays = 90

const DateLayout = "2006-01-02"

// Contract is a contractual arrangement with an ICT third-party provider (B_02.01/B_02.02).
type Contract struct {
	id                       uuid.UUID
	tenantID                 uuid.UUID
	reference                string
	vendorID                 uuid.UUID
	arrangementType          ArrangementType
	serviceType              string
	functionName             string
	supportsCriticalFunction bool
	startDate                *time.Time
	endDate                  *time.Time
	noticeEntityDays         int
	noticeProviderDays       int
	governingLaw             string
	dataStorage              bool
	dataLocation             string
	dataSensitivity          string
	relianceLevel            string
	annualCost               *monetary.Amount
	terminatedAt             *time.Time
	createdAt                time.Time
	updatedAt                time.Time
}

type Option func(*Contract)

func WithID(id uuid.UUID) Option {
	return func(c *Contract) { c.id = id }
}

func WithTenantID(id uuid.UUID) Option {
	return func(c *Contract) { c.tenantID = id }
}

func WithTerminatedAt(t *time.Time) Option {
	return func(c *Contract) { c.terminatedAt = t }
}

func WithTimestamps(createdAt, updatedAt time.Time) Option {
	return func(c *Contract) {
		c.createdAt = createdAt
		c.updatedAt = updatedAt
	}
}

// New builds a contract from a DTO that already passed Ok.
func New(dto DTO, opts ...Option) Contract {
	c := Contract{}.Apply(dto)
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c Contract) Apply(dto DTO) Contract {
	c.reference = dto.Reference
	c.vendorID = dto.VendorID
	c.arrangementType = ArrangementType(dto.ArrangementType)
	c.serviceType = dto.ServiceType
	c.functionName = dto.FunctionName
	c.supportsCriticalFunction = dto.SupportsCriticalFunction
	c.startDate = parseDate(dto.StartDate)
	c.endDate = parseDate(dto.EndDate)
	c.noticeEntityDays = dto.NoticeEntityDays
	c.noticeProviderDays = dto.NoticeProviderDays
	c.governingLaw = dto.GoverningLaw
	c.dataStorage = dto.DataStorage
	c.dataLocation = dto.DataLocation
	c.dataSensitivity = dto.DataSensitivity
	c.relianceLevel = dto.RelianceLevel
	c.annualCost = nil
	if dto.AnnualCost != nil {
		a := *dto.AnnualCost
		c.annualCost = &a
	}
	return c
}

func (c Contract) ToDTO() DTO {
	dto := DTO{
		Reference:                c.reference,
		VendorID:                 c.vendorID,
		ArrangementType:          string(c.arrangementType),
		ServiceType:              c.serviceType,
		FunctionName:             c.functionName,
		SupportsCriticalFunction: c.supportsCriticalFunction,
		StartDate:                formatDate(c.startDate),
		EndDate:                  formatDate(c.endDate),
		NoticeEntityDays:         c.noticeEntityDays,
		NoticeProviderDays:       c.noticeProviderDays,
		GoverningLaw:             c.governingLaw,
		DataStorage:              c.dataStorage,
		DataLocation:             c.dataLocation,
		DataSensitivity:          c.dataSensitivity,
		RelianceLevel:            c.relianceLevel,
	}
	if c.annualCost != nil {
		a := *c.annualCost
		dto.AnnualCost = &a
	}
	return dto
}

// Terminate ends the arrangement at t. Terminating twice keeps the first date.
func (c Contract) Terminate(t time.Time) Contract {
	if c.terminatedAt == nil {
		c.terminatedAt = &t
	}
	return c
}

// Status derives the lifecycle state on the calendar day of now.
func (c Contract) Status(now time.Time) Status {
	if c.terminatedAt != nil {
		return StatusTerminated
	}
	if c.startDate == nil {
		return StatusDraft
	}
	if c.endDate == nil {
		return StatusActive
	}
	today := truncateDay(now)
	end := truncateDay(*c.endDate)
	if end.Before(today) {
		return StatusExpired
	}
	if !end.After(today.AddDate(0, 0, ExpiringWindowDays)) {
		return StatusExpiring
	}
	return StatusActive
}

// DaysUntilEnd is negative for contracts that already ended; ok is false
// for open-ended contracts.
func (c Contract) DaysUntilEnd(now time.Time) (days int, ok bool) {
	if c.endDate == nil {
		return 0, false
	}
	return int(truncateDay(*c.endDate).Sub(truncateDay(now)).Hours() / 24), true
}

func (c Contract) ID() uuid.UUID                    { return c.id }
func (c Contract) TenantID() uuid.UUID              { return c.tenantID }
func (c Contract) Reference() string                { return c.reference }
func (c Contract) VendorID() uuid.UUID              { return c.vendorID }
func (c Contract) ArrangementType() ArrangementType { return c.arrangementType }
func (c Contract) ServiceType() string              { return c.serviceType }
func (c Contract) FunctionName() string             { return c.functionName }
func (c Contract) SupportsCriticalFunction() bool   { return c.supportsCriticalFunction }
func (c Contract) StartDate() *time.Time            { return c.startDate }
func (c Contract) EndDate() *time.Time              { return c.endDate }
func (c Contract) NoticeEntityDays() int            { return c.noticeEntityDays }
func (c Contract) NoticeProviderDays() int          { return c.noticeProviderDays }
func (c Contract) GoverningLaw() string             { return c.governingLaw }
func (c Contract) DataStorage() bool                { return c.dataStorage }
func (c Contract) DataLocation() string             { return c.dataLocation }
func (c Contract) DataSensitivity() string          { return c.dataSensitivity }
func (c Contract) RelianceLevel() string            { return c.relianceLevel }
func (c Contract) AnnualCost() *monetary.Amount     { return c.annualCost }
func (c Contract) TerminatedAt() *time.Time         { return c.terminatedAt }
func (c Contract) CreatedAt() time.Time             { return c.createdAt }
func (c Contract) UpdatedAt() time.Time             { return c.updatedAt }

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
