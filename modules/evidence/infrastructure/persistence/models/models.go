package models

import "time"

type Document struct {
	ID         string
	TenantID   string
	OwnerType  string
	OwnerID    string
	Name       string
	MimeType   string
	Size       int64
	SHA256     string
	UploadedBy string
	CreatedAt  time.Time
}
