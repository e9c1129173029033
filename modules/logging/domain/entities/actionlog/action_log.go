package actionlog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Kind separates plain request entries from the ones that carry a
// before/after snapshot.
type Kind string

const (
	KindRequest  Kind = "request"
	KindGridEdit Kind = "grid_edit"
	KindExport   Kind = "export"
)

func (k Kind) Valid() bool {
	switch k {
	case KindRequest, KindGridEdit, KindExport:
		return true
	}
	return false
}

type ActionLog struct {
	ID        int64
	TenantID  uuid.UUID
	UserID    string
	Kind      Kind
	Method    string
	Path      string
	Before    json.RawMessage
	After     json.RawMessage
	UserAgent string
	IP        string
	CreatedAt time.Time
}

type FindParams struct {
	UserID string
	Kind   Kind
	Method string
	Path   string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]*ActionLog, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, log *ActionLog) error
}
