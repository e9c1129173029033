package controllers

import (
	"time"

	"github.com/iota-uz/dora-register/modules/evidence/domain/aggregates/document"
)

type DocumentResponse struct {
	ID         string             `json:"id"`
	OwnerType  document.OwnerType `json:"owner_type"`
	OwnerID    string             `json:"owner_id"`
	Name       string             `json:"name"`
	MimeType   string             `json:"mime_type"`
	Size       int64              `json:"size"`
	SHA256     string             `json:"sha256"`
	UploadedBy string             `json:"uploaded_by"`
	CreatedAt  time.Time          `json:"created_at"`
}

func toDocumentResponse(d document.Document) DocumentResponse {
	return DocumentResponse{
		ID:         d.ID().String(),
		OwnerType:  d.OwnerType(),
		OwnerID:    d.OwnerID().String(),
		Name:       d.Name(),
		MimeType:   d.MimeType(),
		Size:       d.Size(),
		SHA256:     d.Hash(),
		UploadedBy: d.UploadedBy(),
		CreatedAt:  d.CreatedAt(),
	}
}

func toDocumentResponses(items []document.Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(items))
	for _, d := range items {
		out = append(out, toDocumentResponse(d))
	}
	return out
}
