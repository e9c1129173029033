package sources

import (
	"context"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/modules/contracts/domain/aggregates/contract"
	"github.com/iota-uz/dora-register/modules/incidents/domain/aggregates/incident"
	"github.com/iota-uz/dora-register/modules/resilience/domain/aggregates/finding"
	"github.com/iota-uz/dora-register/modules/vendors/domain/aggregates/vendor"
)

type VendorEditor interface {
	GetByID(ctx context.Context, id uuid.UUID) (vendor.Vendor, error)
	Update(ctx context.Context, id uuid.UUID, dto *vendor.DTO) (vendor.Vendor, error)
}

type ContractEditor interface {
	GetByID(ctx context.Context, id uuid.UUID) (contract.Contract, error)
	Update(ctx context.Context, id uuid.UUID, dto *contract.DTO) (contract.Contract, error)
}

type FindingEditor interface {
	GetByID(ctx context.Context, id uuid.UUID) (finding.Finding, error)
	Update(ctx context.Context, id uuid.UUID, dto *finding.DTO) (finding.Finding, error)
}

type IncidentEditor interface {
	GetByID(ctx context.Context, id uuid.UUID) (incident.Incident, error)
	Update(ctx context.Context, id uuid.UUID, dto *incident.DTO) (incident.Incident, error)
}

func Vendors(svc VendorEditor) Source {
	return &entitySource[vendor.Vendor, vendor.DTO]{
		resource: "vendors",
		columns: []string{
			"name", "hq_country", "criticality", "substitutability",
			"supports_critical_function", "status", "notes",
		},
		get:   svc.GetByID,
		toDTO: vendor.Vendor.ToDTO,
		update: func(ctx context.Context, id uuid.UUID, dto *vendor.DTO) error {
			_, err := svc.Update(ctx, id, dto)
			return err
		},
	}
}

func Contracts(svc ContractEditor) Source {
	return &entitySource[contract.Contract, contract.DTO]{
		resource: "contracts",
		columns: []string{
			"function_name", "supports_critical_function", "end_date",
			"notice_entity_days", "notice_provider_days", "governing_law",
			"data_location", "data_sensitivity", "reliance_level",
		},
		get:   svc.GetByID,
		toDTO: contract.Contract.ToDTO,
		update: func(ctx context.Context, id uuid.UUID, dto *contract.DTO) error {
			_, err := svc.Update(ctx, id, dto)
			return err
		},
	}
}

func Findings(svc FindingEditor) Source {
	return &entitySource[finding.Finding, finding.DTO]{
		resource: "findings",
		columns:  []string{"title", "severity", "status", "owner", "due_date"},
		get:      svc.GetByID,
		toDTO:    finding.Finding.ToDTO,
		update: func(ctx context.Context, id uuid.UUID, dto *finding.DTO) error {
			_, err := svc.Update(ctx, id, dto)
			return err
		},
	}
}

func Incidents(svc IncidentEditor) Source {
	return &entitySource[incident.Incident, incident.DTO]{
		resource: "incidents",
		columns:  []string{"title", "description", "root_cause"},
		get:      svc.GetByID,
		toDTO:    incident.Incident.ToDTO,
		update: func(ctx context.Context, id uuid.UUID, dto *incident.DTO) error {
			_, err := svc.Update(ctx, id, dto)
			return err
		},
	}
}
