package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DefaultTable receives every compliance event written by the modules.
var DefaultTable = pgx.Identifier{"public", "compliance_outbox"}

// Message is the unit stored in the outbox table.
type Message struct {
	TenantID uuid.UUID
	Topic    string
	// DedupKey collapses repeated enqueues of the same fact (e.g. the same
	// contract crossing the expiry threshold on every scan).
	DedupKey string
	EventID  uuid.UUID
	Payload  json.RawMessage
}

// NewMessage marshals payload and assigns a fresh event id.
func NewMessage(tenantID uuid.UUID, topic, dedupKey string, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("outbox: marshal %s payload: %w", topic, err)
	}
	return Message{
		TenantID: tenantID,
		Topic:    topic,
		DedupKey: dedupKey,
		EventID:  uuid.New(),
		Payload:  raw,
	}, nil
}

// Meta is the stable dispatch metadata handed to subscribers.
type Meta struct {
	Table    pgx.Identifier
	TenantID uuid.UUID
	Topic    string
	EventID  uuid.UUID
	Sequence int64
	Attempts int
}

// DispatchedMessage is the unit delivered by Relay to Dispatcher.
type DispatchedMessage struct {
	Meta    Meta
	Payload json.RawMessage
}

type Dispatcher interface {
	Dispatch(ctx context.Context, msg DispatchedMessage) error
}

func TableLabel(table pgx.Identifier) string {
	if len(table) == 0 {
		return ""
	}
	return strings.Join(table, ".")
}
