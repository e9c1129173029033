package persistence

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/modules/evidence/domain/aggregates/document"
	"github.com/iota-uz/dora-register/modules/evidence/infrastructure/persistence/models"
)

func toDBDocument(d document.Document) models.Document {
	return models.Document{
		ID:         d.ID().String(),
		TenantID:   d.TenantID().String(),
		OwnerType:  string(d.OwnerType()),
		OwnerID:    d.OwnerID().String(),
		Name:       d.Name(),
		MimeType:   d.MimeType(),
		Size:       d.Size(),
		SHA256:     d.Hash(),
		UploadedBy: d.UploadedBy(),
		CreatedAt:  d.CreatedAt(),
	}
}

func toDomainDocument(row models.Document) (document.Document, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return document.Document{}, fmt.Errorf("parse evidence id: %w", err)
	}
	tenantID, err := uuid.Parse(row.TenantID)
	if err != nil {
		return document.Document{}, fmt.Errorf("parse evidence tenant id: %w", err)
	}
	ownerID, err := uuid.Parse(row.OwnerID)
	if err != nil {
		return document.Document{}, fmt.Errorf("parse evidence owner id: %w", err)
	}
	return document.New(
		document.OwnerType(row.OwnerType),
		ownerID,
		row.Name,
		row.MimeType,
		row.Size,
		row.SHA256,
		document.WithID(id),
		document.WithTenantID(tenantID),
		document.WithUploadedBy(row.UploadedBy),
		document.WithCreatedAt(row.CreatedAt),
	), nil
}
