package outbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/dora-register/pkg/repo"
)

// Publisher writes messages inside the caller's transaction so an event
// exists only if the change that produced it was committed.
type Publisher interface {
	Enqueue(ctx context.Context, tx repo.Tx, msg Message) (sequence int64, err error)
}

type publisher struct {
	table pgx.Identifier
	m     *metrics
}

func NewPublisher(table pgx.Identifier) Publisher {
	if len(table) == 0 {
		table = DefaultTable
	}
	return &publisher{table: table, m: getMetrics()}
}

func validateMessage(msg Message) error {
	switch {
	case msg.TenantID == uuid.Nil:
		return invalidMessage("tenant_id is required")
	case msg.EventID == uuid.Nil:
		return invalidMessage("event_id is required")
	case msg.Topic == "":
		return invalidMessage("topic is required")
	case len(msg.Payload) == 0:
		return invalidMessage("payload is required")
	}
	return nil
}

// Enqueue inserts msg. A pending message with the same tenant, topic and
// dedup key absorbs the new one and its sequence is returned instead.
func (p *publisher) Enqueue(ctx context.Context, tx repo.Tx, msg Message) (int64, error) {
	if err := validateMessage(msg); err != nil {
		return 0, err
	}

	var dedup any
	if msg.DedupKey != "" {
		dedup = msg.DedupKey
	}
	q := fmt.Sprintf(
		`INSERT INTO %s (tenant_id, topic, dedup_key, payload, event_id, available_at)
		 VALUES ($1, $2, $3, $4, $5, now())
		 ON CONFLICT DO NOTHING
		 RETURNING sequence`,
		p.table.Sanitize(),
	)

	var sequence int64
	err := tx.QueryRow(ctx, q, msg.TenantID, msg.Topic, dedup, msg.Payload, msg.EventID).Scan(&sequence)
	if errors.Is(err, pgx.ErrNoRows) {
		p.m.enqueueTotal.WithLabelValues(TableLabel(p.table), msg.Topic, "deduplicated").Inc()
		return p.existingSequence(ctx, tx, msg)
	}
	if err != nil {
		return 0, fmt.Errorf("outbox enqueue: %w", err)
	}
	p.m.enqueueTotal.WithLabelValues(TableLabel(p.table), msg.Topic, "inserted").Inc()
	return sequence, nil
}

func (p *publisher) existingSequence(ctx context.Context, tx repo.Tx, msg Message) (int64, error) {
	q := fmt.Sprintf(
		`SELECT sequence FROM %s
		  WHERE event_id = $1
		     OR (tenant_id = $2 AND topic = $3 AND dedup_key = $4 AND published_at IS NULL AND dead_at IS NULL)
		  ORDER BY sequence DESC
		  LIMIT 1`,
		p.table.Sanitize(),
	)
	var sequence int64
	if err := tx.QueryRow(ctx, q, msg.EventID, msg.TenantID, msg.Topic, msg.DedupKey).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("outbox enqueue lookup: %w", err)
	}
	return sequence, nil
}
