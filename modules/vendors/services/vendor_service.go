package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/modules/vendors/domain/aggregates/vendor"
)

type VendorService struct {
	repo vendor.Repository
}

func NewVendorService(repo vendor.Repository) *VendorService {
	return &VendorService{repo: repo}
}

func (s *VendorService) List(ctx context.Context, params *vendor.FindParams) ([]vendor.Vendor, int64, error) {
	if err := authorizeVendors(ctx, "list"); err != nil {
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

// All returns every vendor of the tenant, unpaged.
func (s *VendorService) All(ctx context.Context) ([]vendor.Vendor, error) {
	if err := authorizeVendors(ctx, "list"); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, &vendor.FindParams{})
}

func (s *VendorService) GetByID(ctx context.Context, id uuid.UUID) (vendor.Vendor, error) {
	if err := authorizeVendors(ctx, "view"); err != nil {
		return vendor.Vendor{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *VendorService) Create(ctx context.Context, dto *vendor.DTO) (vendor.Vendor, error) {
	if err := authorizeVendors(ctx, "create"); err != nil {
		return vendor.Vendor{}, err
	}
	if errs, ok := dto.Ok(); !ok {
		return vendor.Vendor{}, errs
	}
	return s.repo.Create(ctx, vendor.New(*dto))
}

func (s *VendorService) Update(ctx context.Context, id uuid.UUID, dto *vendor.DTO) (vendor.Vendor, error) {
	if err := authorizeVendors(ctx, "update"); err != nil {
		return vendor.Vendor{}, err
	}
	if errs, ok := dto.Ok(); !ok {
		return vendor.Vendor{}, errs
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return vendor.Vendor{}, err
	}
	return s.repo.Update(ctx, existing.Apply(*dto))
}

// Delete removes a vendor. Vendors still referenced by contracts are kept
// and ErrHasContracts is returned.
func (s *VendorService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := authorizeVendors(ctx, "delete"); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *VendorService) Concentration(ctx context.Context, opts vendor.ConcentrationOptions) (vendor.Concentration, error) {
	if err := authorizeVendors(ctx, "view"); err != nil {
		return vendor.Concentration{}, err
	}
	vendors, err := s.repo.List(ctx, &vendor.FindParams{})
	if err != nil {
		return vendor.Concentration{}, err
	}
	return vendor.ComputeConcentration(vendors, opts), nil
}

// CountByCriticality counts non-offboarded vendors per criticality level.
func (s *VendorService) CountByCriticality(ctx context.Context) (map[vendor.Criticality]int, error) {
	vendors, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[vendor.Criticality]int, len(vendor.Criticalities))
	for _, c := range vendor.Criticalities {
		out[c] = 0
	}
	for _, v := range vendors {
		if v.Status() == vendor.StatusOffboarded {
			continue
		}
		out[v.Criticality()]++
	}
	return out, nil
}
