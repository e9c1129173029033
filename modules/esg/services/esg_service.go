package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/modules/esg/domain/aggregates/esgassessment"
	"github.com/iota-uz/dora-register/modules/vendors/domain/aggregates/vendor"
)

// VendorLookup resolves the provider an assessment is about.
type VendorLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (vendor.Vendor, error)
}

type AssessmentService struct {
	repo    esgassessment.Repository
	vendors VendorLookup
}

func NewAssessmentService(repo esgassessment.Repository, vendors VendorLookup) *AssessmentService {
	return &AssessmentService{repo: repo, vendors: vendors}
}

func (s *AssessmentService) List(ctx context.Context, params *esgassessment.FindParams) ([]esgassessment.Assessment, int64, error) {
	if err := authorizeESG(ctx, "list"); err != nil {
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

func (s *AssessmentService) GetByID(ctx context.Context, id uuid.UUID) (esgassessment.Assessment, error) {
	if err := authorizeESG(ctx, "view"); err != nil {
		return esgassessment.Assessment{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *AssessmentService) Create(ctx context.Context, dto *esgassessment.DTO) (esgassessment.Assessment, error) {
	if err := authorizeESG(ctx, "create"); err != nil {
		return esgassessment.Assessment{}, err
	}
	if errs, ok := dto.Ok(); !ok {
		return esgassessment.Assessment{}, errs
	}
	if err := s.ensureVendor(ctx, dto.VendorID); err != nil {
		return esgassessment.Assessment{}, err
	}
	return s.repo.Create(ctx, esgassessment.New(*dto))
}

func (s *AssessmentService) Update(ctx context.Context, id uuid.UUID, dto *esgassessment.DTO) (esgassessment.Assessment, error) {
	if err := authorizeESG(ctx, "update"); err != nil {
		return esgassessment.Assessment{}, err
	}
	if errs, ok := dto.Ok(); !ok {
		return esgassessment.Assessment{}, errs
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return esgassessment.Assessment{}, err
	}
	if err := s.ensureVendor(ctx, dto.VendorID); err != nil {
		return esgassessment.Assessment{}, err
	}
	return s.repo.Update(ctx, existing.Apply(*dto))
}

func (s *AssessmentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := authorizeESG(ctx, "delete"); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// LatestByVendor returns the newest assessment per provider. The
// organization's own assessment is keyed by uuid.Nil.
func (s *AssessmentService) LatestByVendor(ctx context.Context) (map[uuid.UUID]esgassessment.Assessment, error) {
	if err := authorizeESG(ctx, "list"); err != nil {
		return nil, err
	}
	items, err := s.repo.Latest(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]esgassessment.Assessment, len(items))
	for _, a := range items {
		key := uuid.Nil
		if id := a.VendorID(); id != nil {
			key = *id
		}
		out[key] = a
	}
	return out, nil
}

// Ratings counts the latest provider assessments per grade. The
// organization's own assessment is left out.
func (s *AssessmentService) Ratings(ctx context.Context) (map[esgassessment.Rating]int, error) {
	latest, err := s.LatestByVendor(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[esgassessment.Rating]int, len(esgassessment.Ratings))
	for _, r := range esgassessment.Ratings {
		out[r] = 0
	}
	for key, a := range latest {
		if key == uuid.Nil {
			continue
		}
		out[a.Rating()]++
	}
	return out, nil
}

func (s *AssessmentService) ensureVendor(ctx context.Context, id *uuid.UUID) error {
	if id == nil || s.vendors == nil {
		return nil
	}
	if _, err := s.vendors.GetByID(ctx, *id); err != nil {
		if errors.Is(err, vendor.ErrNotFound) {
			return esgassessment.ErrUnknownVendor
		}
		return err
	}
	return nil
}
