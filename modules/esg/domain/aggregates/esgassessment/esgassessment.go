package esgassessment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

type Rating string

const (
	RatingA Rating = "A"
	RatingB Rating = "B"
	RatingC Rating = "C"
	RatingD Rating = "D"
	RatingE Rating = "E"
)

// Ratings lists the grades from best to worst.
var Ratings = []Rating{RatingA, RatingB, RatingC, RatingD, RatingE}

// RatingFor grades a weighted 0-100 score.
func RatingFor(score decimal.Decimal) Rating {
	switch {
	case score.GreaterThanOrEqual(decimal.NewFromInt(80)):
		return RatingA
	case score.GreaterThanOrEqual(decimal.NewFromInt(65)):
		return RatingB
	case score.GreaterThanOrEqual(decimal.NewFromInt(50)):
		return RatingC
	case score.GreaterThanOrEqual(decimal.NewFromInt(35)):
		return RatingD
	default:
		return RatingE
	}
}

// Weights are the shares of the environmental, social and governance pillars.
type Weights struct {
	Environmental decimal.Decimal `json:"environmental"`
	Social        decimal.Decimal `json:"social"`
	Governance    decimal.Decimal `json:"governance"`
}

func DefaultWeights() Weights {
	return Weights{
		Environmental: decimal.RequireFromString("0.4"),
		Social:        decimal.RequireFromString("0.3"),
		Governance:    decimal.RequireFromString("0.3"),
	}
}

func (w Weights) Sum() decimal.Decimal {
	return w.Environmental.Add(w.Social).Add(w.Governance)
}

// Overall is the weighted sum of the three scores, rounded to two places.
func (w Weights) Overall(environmental, social, governance int) decimal.Decimal {
	return w.Environmental.Mul(decimal.NewFromInt(int64(environmental))).
		Add(w.Social.Mul(decimal.NewFromInt(int64(social)))).
		Add(w.Governance.Mul(decimal.NewFromInt(int64(governance)))).
		Round(2)
}

// Assessment is an ESG evaluation of a provider, or of the organization
// itself when vendorID is nil.
type Assessment struct {
	id            uuid.UUID
	tenantID      uuid.UUID
	vendorID      *uuid.UUID
	environmental int
	social        int
	governance    int
	weights       Weights
	assessedAt    time.Time
	notes         string
	createdAt     time.Time
	updatedAt     time.Time
}

type Option func(*Assessment)

func WithID(id uuid.UUID) Option {
	return func(a *Assessment) { a.id = id }
}

func WithTenantID(id uuid.UUID) Option {
	return func(a *Assessment) { a.tenantID = id }
}

func WithTimestamps(createdAt, updatedAt time.Time) Option {
	return func(a *Assessment) {
		a.createdAt = createdAt
		a.updatedAt = updatedAt
	}
}

func New(dto DTO, opts ...Option) Assessment {
	a := Assessment{}.Apply(dto)
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// Apply replaces every editable field. Missing weights fall back to the defaults.
func (a Assessment) Apply(dto DTO) Assessment {
	a.vendorID = nil
	if dto.VendorID != nil {
		id := *dto.VendorID
		a.vendorID = &id
	}
	a.environmental = dto.Environmental
	a.social = dto.Social
	a.governance = dto.Governance
	a.weights = DefaultWeights()
	if dto.Weights != nil {
		a.weights = *dto.Weights
	}
	a.assessedAt, _ = time.Parse(DateLayout, dto.AssessedAt)
	a.notes = dto.Notes
	return a
}

func (a Assessment) ToDTO() DTO {
	w := a.weights
	dto := DTO{
		Environmental: a.environmental,
		Social:        a.social,
		Governance:    a.governance,
		Weights:       &w,
		AssessedAt:    a.assessedAt.Format(DateLayout),
		Notes:         a.notes,
	}
	if a.vendorID != nil {
		id := *a.vendorID
		dto.VendorID = &id
	}
	return dto
}

func (a Assessment) ID() uuid.UUID         { return a.id }
func (a Assessment) TenantID() uuid.UUID   { return a.tenantID }
func (a Assessment) VendorID() *uuid.UUID  { return a.vendorID }
func (a Assessment) Environmental() int    { return a.environmental }
func (a Assessment) Social() int           { return a.social }
func (a Assessment) Governance() int       { return a.governance }
func (a Assessment) Weights() Weights      { return a.weights }
func (a Assessment) AssessedAt() time.Time { return a.assessedAt }
func (a Assessment) Notes() string         { return a.notes }
func (a Assessment) CreatedAt() time.Time  { return a.createdAt }
func (a Assessment) UpdatedAt() time.Time  { return a.updatedAt }
func (a Assessment) IsOrganization() bool  { return a.vendorID == nil }
func (a Assessment) Rating() Rating        { return RatingFor(a.Overall()) }

func (a Assessment) Overall() decimal.Decimal {
	return a.weights.Overall(a.environmental, a.social, a.governance)
}
