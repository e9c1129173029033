package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/modules/contracts/domain/aggregates/contract"
	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/organization"
	"github.com/iota-uz/dora-register/modules/register/domain/roi"
	"github.com/iota-uz/dora-register/modules/register/infrastructure/export"
	"github.com/iota-uz/dora-register/modules/vendors/domain/aggregates/vendor"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/eventbus"
	"github.com/iota-uz/dora-register/pkg/serrors"
)

var ErrUnsupportedFormat = serrors.NewError("INVALID_EXPORT_FORMAT", "format must be xlsx or csv", "Register.Errors.UnsupportedFormat")

type OrganizationReader interface {
	GetCurrent(ctx context.Context) (organization.Organization, error)
}

type VendorReader interface {
	All(ctx context.Context) ([]vendor.Vendor, error)
}

type ContractReader interface {
	All(ctx context.Context) ([]contract.Contract, error)
}

// ExportedEvent is published after every successful export.
type ExportedEvent struct {
	TenantID     uuid.UUID
	ActorID      string
	Format       export.Format
	Filename     string
	Rows         int
	ErrorCount   int
	Completeness string
	ExportedAt   time.Time
}

type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

type RegisterService struct {
	orgs      OrganizationReader
	vendors   VendorReader
	contracts ContractReader
	publisher eventbus.EventBus
	now       func() time.Time
}

func NewRegisterService(orgs OrganizationReader, vendors VendorReader, contracts ContractReader, publisher eventbus.EventBus) *RegisterService {
	return &RegisterService{
		orgs:      orgs,
		vendors:   vendors,
		contracts: contracts,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *RegisterService) input(ctx context.Context) (roi.Input, error) {
	org, err := s.orgs.GetCurrent(ctx)
	if err != nil {
		return roi.Input{}, err
	}
	vendors, err := s.vendors.All(ctx)
	if err != nil {
		return roi.Input{}, err
	}
	contracts, err := s.contracts.All(ctx)
	if err != nil {
		return roi.Input{}, err
	}
	return roi.Input{Organization: org, Vendors: vendors, Contracts: contracts}, nil
}

// Build assembles the register as of today.
func (s *RegisterService) Build(ctx context.Context) (roi.Register, error) {
	if err := authorizeRegister(ctx, "view"); err != nil {
		return roi.Register{}, err
	}
	in, err := s.input(ctx)
	if err != nil {
		return roi.Register{}, err
	}
	return roi.Build(in, s.now()), nil
}

func (s *RegisterService) Validate(ctx context.Context) (roi.Report, error) {
	if err := authorizeRegister(ctx, "view"); err != nil {
		return roi.Report{}, err
	}
	in, err := s.input(ctx)
	if err != nil {
		return roi.Report{}, err
	}
	return roi.Validate(in, s.now()), nil
}

// Export renders the register. Validation errors do not block an export;
// the report travels with the audit event instead.
func (s *RegisterService) Export(ctx context.Context, format export.Format) (File, error) {
	if !format.Valid() {
		return File{}, ErrUnsupportedFormat
	}
	if err := authorizeRegister(ctx, "export"); err != nil {
		return File{}, err
	}
	in, err := s.input(ctx)
	if err != nil {
		return File{}, err
	}
	now := s.now()
	reg := roi.Build(in, now)
	data, err := export.Render(ctx, format, reg)
	if err != nil {
		return File{}, err
	}
	report := roi.Validate(in, now)

	exportsTotal.WithLabelValues(string(format)).Inc()
	exportRows.Observe(float64(reg.RowCount()))

	file := File{Filename: format.Filename(reg), ContentType: format.ContentType(), Data: data}
	if s.publisher != nil {
		tenantID, _ := composables.UseTenantID(ctx)
		s.publisher.Publish(&ExportedEvent{
			TenantID:     tenantID,
			ActorID:      composables.UseActorID(ctx),
			Format:       format,
			Filename:     file.Filename,
			Rows:         reg.RowCount(),
			ErrorCount:   report.ErrorCount,
			Completeness: report.Completeness.StringFixed(2),
			ExportedAt:   now,
		})
	}
	return file, nil
}

func (s *RegisterService) Now() time.Time {
	return s.now()
}
