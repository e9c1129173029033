package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/modules/contracts/domain/aggregates/contract"
	"github.com/iota-uz/dora-register/modules/vendors/domain/aggregates/vendor"
)

// VendorLookup resolves the provider a contract points at.
type VendorLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (vendor.Vendor, error)
}

type ContractService struct {
	repo    contract.Repository
	vendors VendorLookup
	now     func() time.Time
}

func NewContractService(repo contract.Repository, vendors VendorLookup) *ContractService {
	return &ContractService{repo: repo, vendors: vendors, now: time.Now}
}

func (s *ContractService) List(ctx context.Context, params *contract.FindParams) ([]contract.Contract, int64, error) {
	if err := authorizeContracts(ctx, "list"); err != nil {
		return nil, 0, err
	}
	items, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// All returns every contract of the tenant, unpaged.
func (s *ContractService) All(ctx context.Context) ([]contract.Contract, error) {
	if err := authorizeContracts(ctx, "list"); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, &contract.FindParams{})
}

func (s *ContractService) GetByID(ctx context.Context, id uuid.UUID) (contract.Contract, error) {
	if err := authorizeContracts(ctx, "view"); err != nil {
		return contract.Contract{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *ContractService) Create(ctx context.Context, dto *contract.DTO) (contract.Contract, error) {
	if err := authorizeContracts(ctx, "create"); err != nil {
		return contract.Contract{}, err
	}
	if errs, ok := dto.Ok(); !ok {
		return contract.Contract{}, errs
	}
	if err := s.ensureVendor(ctx, dto.VendorID); err != nil {
		return contract.Contract{}, err
	}
	return s.repo.Create(ctx, contract.New(*dto))
}

func (s *ContractService) Update(ctx context.Context, id uuid.UUID, dto *contract.DTO) (contract.Contract, error) {
	if err := authorizeContracts(ctx, "update"); err != nil {
		return contract.Contract{}, err
	}
	if errs, ok := dto.Ok(); !ok {
		return contract.Contract{}, errs
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return contract.Contract{}, err
	}
	if existing.VendorID() != dto.VendorID {
		if err := s.ensureVendor(ctx, dto.VendorID); err != nil {
			return contract.Contract{}, err
		}
	}
	return s.repo.Update(ctx, existing.Apply(*dto))
}

func (s *ContractService) Terminate(ctx context.Context, id uuid.UUID) (contract.Contract, error) {
	if err := authorizeContracts(ctx, "update"); err != nil {
		return contract.Contract{}, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return contract.Contract{}, err
	}
	return s.repo.Update(ctx, existing.Terminate(s.now()))
}

func (s *ContractService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := authorizeContracts(ctx, "delete"); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ListExpiring returns live contracts ending within the next days, soonest first.
func (s *ContractService) ListExpiring(ctx context.Context, within int) ([]contract.Contract, error) {
	if err := authorizeContracts(ctx, "list"); err != nil {
		return nil, err
	}
	if within <= 0 {
		within = contract.ExpiringWindowDays
	}
	from := s.now()
	return s.repo.ListEndingBetween(ctx, from, from.AddDate(0, 0, within))
}

// CountByStatus counts contracts per derived status.
func (s *ContractService) CountByStatus(ctx context.Context) (map[contract.Status]int, error) {
	items, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make(map[contract.Status]int, len(contract.Statuses))
	for _, st := range contract.Statuses {
		out[st] = 0
	}
	for _, c := range items {
		out[c.Status(now)]++
	}
	return out, nil
}

// Now is the clock used for derived statuses.
func (s *ContractService) Now() time.Time {
	return s.now()
}

func (s *ContractService) ensureVendor(ctx context.Context, id uuid.UUID) error {
	if _, err := s.vendors.GetByID(ctx, id); err != nil {
		if errors.Is(err, vendor.ErrNotFound) {
			return contract.ErrUnknownVendor
		}
		return err
	}
	return nil
}
