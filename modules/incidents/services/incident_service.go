package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/modules/incidents/domain/aggregates/incident"
	"github.com/iota-uz/dora-register/modules/vendors/domain/aggregates/vendor"
)

// VendorLookup resolves the provider an incident is attributed to.
type VendorLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (vendor.Vendor, error)
}

// MonthCount is the number of major incidents detected in one calendar month.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type IncidentService struct {
	repo    incident.Repository
	vendors VendorLookup
	now     func() time.Time
}

func NewIncidentService(repo incident.Repository, vendors VendorLookup) *IncidentService {
	return &IncidentService{repo: repo, vendors: vendors, now: time.Now}
}

func (s *IncidentService) List(ctx context.Context, params *incident.FindParams) ([]incident.Incident, int64, error) {
	if err := authorizeIncidents(ctx, "list"); err != nil {
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

func (s *IncidentService) All(ctx context.Context) ([]incident.Incident, error) {
	if err := authorizeIncidents(ctx, "list"); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, &incident.FindParams{})
}

func (s *IncidentService) GetByID(ctx context.Context, id uuid.UUID) (incident.Incident, error) {
	if err := authorizeIncidents(ctx, "view"); err != nil {
		return incident.Incident{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *IncidentService) Create(ctx context.Context, dto *incident.DTO) (incident.Incident, error) {
	if err := authorizeIncidents(ctx, "create"); err != nil {
		return incident.Incident{}, err
	}
	if errs, ok := dto.Ok(); !ok {
		return incident.Incident{}, errs
	}
	if err := s.ensureVendor(ctx, dto.VendorID); err != nil {
		return incident.Incident{}, err
	}
	return s.repo.Create(ctx, incident.New(*dto))
}

func (s *IncidentService) Update(ctx context.Context, id uuid.UUID, dto *incident.DTO) (incident.Incident, error) {
	if err := authorizeIncidents(ctx, "update"); err != nil {
		return incident.Incident{}, err
	}
	if errs, ok := dto.Ok(); !ok {
		return incident.Incident{}, errs
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return incident.Incident{}, err
	}
	if !existing.IsOpen() {
		return incident.Incident{}, incident.ErrClosed
	}
	if !sameVendor(existing.VendorID(), dto.VendorID) {
		if err := s.ensureVendor(ctx, dto.VendorID); err != nil {
			return incident.Incident{}, err
		}
	}
	return s.repo.Update(ctx, existing.Apply(*dto))
}

func (s *IncidentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := authorizeIncidents(ctx, "delete"); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Classify evaluates the materiality criteria and stores the major flag.
func (s *IncidentService) Classify(ctx context.Context, id uuid.UUID) (incident.Incident, error) {
	return s.transition(ctx, id, func(i incident.Incident, now time.Time) (incident.Incident, error) {
		return i.Classify(now)
	})
}

func (s *IncidentService) RecordNotification(ctx context.Context, id uuid.UUID, kind incident.NotificationKind) (incident.Incident, error) {
	if _, ok := incident.ParseNotificationKind(string(kind)); !ok {
		return incident.Incident{}, incident.ErrUnknownNotification
	}
	return s.transition(ctx, id, func(i incident.Incident, now time.Time) (incident.Incident, error) {
		return i.RecordNotification(kind, now)
	})
}

func (s *IncidentService) Close(ctx context.Context, id uuid.UUID) (incident.Incident, error) {
	return s.transition(ctx, id, func(i incident.Incident, now time.Time) (incident.Incident, error) {
		return i.Close(now)
	})
}

// ListOverdue returns open major incidents with a missed reporting deadline.
func (s *IncidentService) ListOverdue(ctx context.Context, now time.Time) ([]incident.Incident, error) {
	if err := authorizeIncidents(ctx, "list"); err != nil {
		return nil, err
	}
	major := true
	items, err := s.repo.List(ctx, &incident.FindParams{Major: &major, Open: true})
	if err != nil {
		return nil, err
	}
	out := make([]incident.Incident, 0, len(items))
	for _, i := range items {
		if i.IsOverdue(now) {
			out = append(out, i)
		}
	}
	return out, nil
}

func (s *IncidentService) CountOpen(ctx context.Context) (int64, error) {
	if err := authorizeIncidents(ctx, "list"); err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, &incident.FindParams{Open: true})
}

// MajorByMonth counts major incidents per detection month over the last
// months, oldest first, including empty months.
func (s *IncidentService) MajorByMonth(ctx context.Context, months int) ([]MonthCount, error) {
	if err := authorizeIncidents(ctx, "list"); err != nil {
		return nil, err
	}
	if months <= 0 {
		months = 12
	}
	now := s.now().UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)
	major := true
	items, err := s.repo.List(ctx, &incident.FindParams{Major: &major, DetectedFrom: &first})
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, months)
	for _, i := range items {
		counts[i.DetectedAt().UTC().Format("2006-01")]++
	}
	out := make([]MonthCount, 0, months)
	for m := 0; m < months; m++ {
		key := first.AddDate(0, m, 0).Format("2006-01")
		out = append(out, MonthCount{Month: key, Count: counts[key]})
	}
	return out, nil
}

// Now is the clock used for deadlines.
func (s *IncidentService) Now() time.Time {
	return s.now()
}

func (s *IncidentService) transition(
	ctx context.Context,
	id uuid.UUID,
	fn func(incident.Incident, time.Time) (incident.Incident, error),
) (incident.Incident, error) {
	if err := authorizeIncidents(ctx, "update"); err != nil {
		return incident.Incident{}, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return incident.Incident{}, err
	}
	next, err := fn(existing, s.now())
	if err != nil {
		return incident.Incident{}, err
	}
	return s.repo.Update(ctx, next)
}

func (s *IncidentService) ensureVendor(ctx context.Context, id *uuid.UUID) error {
	if id == nil || s.vendors == nil {
		return nil
	}
	if _, err := s.vendors.GetByID(ctx, *id); err != nil {
		if errors.Is(err, vendor.ErrNotFound) {
			return incident.ErrUnknownVendor
		}
		return err
	}
	return nil
}

func sameVendor(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
