package document

import (
	"time"

	"github.com/google/uuid"
)

type OwnerType string

const (
	OwnerTest     OwnerType = "test"
	OwnerFinding  OwnerType = "finding"
	OwnerContract OwnerType = "contract"
	OwnerIncident OwnerType = "incident"
)

var OwnerTypes = []OwnerType{OwnerTest, OwnerFinding, OwnerContract, OwnerIncident}

func (o OwnerType) Valid() bool {
	for _, v := range OwnerTypes {
		if v == o {
			return true
		}
	}
	return false
}

// Document is an evidence file attached to a record. Files are content
// addressed: Path is "<tenant>/<sha256>", so identical uploads share storage.
type Document struct {
	id         uuid.UUID
	tenantID   uuid.UUID
	ownerType  OwnerType
	ownerID    uuid.UUID
	name       string
	mimeType   string
	size       int64
	hash       string
	uploadedBy string
	createdAt  time.Time
}

type Option func(*Document)

func WithID(id uuid.UUID) Option {
	return func(d *Document) { d.id = id }
}

func WithTenantID(id uuid.UUID) Option {
	return func(d *Document) { d.tenantID = id }
}

func WithUploadedBy(actor string) Option {
	return func(d *Document) { d.uploadedBy = actor }
}

func WithCreatedAt(t time.Time) Option {
	return func(d *Document) { d.createdAt = t }
}

func New(ownerType OwnerType, ownerID uuid.UUID, name, mimeType string, size int64, hash string, opts ...Option) Document {
	d := Document{
		ownerType: ownerType,
		ownerID:   ownerID,
		name:      name,
		mimeType:  mimeType,
		size:      size,
		hash:      hash,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// Path locates the file inside the uploads directory.
func (d Document) Path() string {
	return d.tenantID.String() + "/" + d.hash
}

func (d Document) ID() uuid.UUID        { return d.id }
func (d Document) TenantID() uuid.UUID  { return d.tenantID }
func (d Document) OwnerType() OwnerType { return d.ownerType }
func (d Document) OwnerID() uuid.UUID   { return d.ownerID }
func (d Document) Name() string         { return d.name }
func (d Document) MimeType() string     { return d.mimeType }
func (d Document) Size() int64          { return d.size }
func (d Document) Hash() string         { return d.hash }
func (d Document) UploadedBy() string   { return d.uploadedBy }
func (d Document) CreatedAt() time.Time { return d.createdAt }
