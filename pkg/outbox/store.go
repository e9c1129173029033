package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type claimed struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	Topic    string
	Payload  []byte
	EventID  uuid.UUID
	Sequence int64
	Attempts int
}

type queueDepth struct {
	Pending int64
	Locked  int64
	Dead    int64
}

// store is the relay's view of the outbox table.
type store interface {
	claim(ctx context.Context, now, lockCutoff time.Time, maxAttempts, limit int) ([]claimed, error)
	ack(ctx context.Context, id uuid.UUID) error
	nack(ctx context.Context, id uuid.UUID, lastError string, nextAvailable time.Time) error
	dead(ctx context.Context, id uuid.UUID, lastError string) error
	depth(ctx context.Context) (queueDepth, error)
	purge(ctx context.Context, publishedBefore, deadBefore time.Time) (int64, error)
}

// beginner is satisfied by both *pgxpool.Pool and *pgxpool.Conn.
type beginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgStore struct {
	db    beginner
	table pgx.Identifier
}

func newPgStore(pool *pgxpool.Pool, table pgx.Identifier) *pgStore {
	return &pgStore{db: pool, table: table}
}

func (s *pgStore) withConn(conn *pgxpool.Conn) *pgStore {
	return &pgStore{db: conn, table: s.table}
}

func (s *pgStore) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *pgStore) claim(ctx context.Context, now, lockCutoff time.Time, maxAttempts, limit int) ([]claimed, error) {
	var items []claimed
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		tableName := s.table.Sanitize()
		q := fmt.Sprintf(
			`SELECT id, tenant_id, topic, payload, event_id, sequence, attempts
			   FROM %s
			  WHERE published_at IS NULL
			    AND dead_at IS NULL
			    AND available_at <= $1
			    AND attempts < $2
			    AND (locked_at IS NULL OR locked_at < $3)
			  ORDER BY available_at, sequence
			  LIMIT $4
			  FOR UPDATE SKIP LOCKED`,
			tableName,
		)
		rows, err := tx.Query(ctx, q, now, maxAttempts, lockCutoff, limit)
		if err != nil {
			return fmt.Errorf("outbox claim select: %w", err)
		}
		defer rows.Close()

		var ids []uuid.UUID
		for rows.Next() {
			var c claimed
			if err := rows.Scan(&c.ID, &c.TenantID, &c.Topic, &c.Payload, &c.EventID, &c.Sequence, &c.Attempts); err != nil {
				return fmt.Errorf("outbox claim scan: %w", err)
			}
			c.Attempts++
			items = append(items, c)
			ids = append(ids, c.ID)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("outbox claim rows: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}
		update := fmt.Sprintf(`UPDATE %s SET locked_at = $1, attempts = attempts + 1 WHERE id = ANY($2)`, tableName)
		if _, err := tx.Exec(ctx, update, now, pgtype.FlatArray[uuid.UUID](ids)); err != nil {
			return fmt.Errorf("outbox claim update: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *pgStore) exec(ctx context.Context, label, q string, args ...any) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, q, args...); err != nil {
			return fmt.Errorf("outbox %s: %w", label, err)
		}
		return nil
	})
}

func (s *pgStore) ack(ctx context.Context, id uuid.UUID) error {
	q := fmt.Sprintf(
		`UPDATE %s
		    SET published_at = now(),
		        locked_at = NULL,
		        last_error = NULL
		  WHERE id = $1 AND published_at IS NULL`,
		s.table.Sanitize(),
	)
	return s.exec(ctx, "ack", q, id)
}

func (s *pgStore) nack(ctx context.Context, id uuid.UUID, lastError string, nextAvailable time.Time) error {
	q := fmt.Sprintf(
		`UPDATE %s
		    SET locked_at = NULL,
		        last_error = $2,
		        available_at = $3
		  WHERE id = $1 AND published_at IS NULL`,
		s.table.Sanitize(),
	)
	return s.exec(ctx, "nack", q, id, lastError, nextAvailable)
}

func (s *pgStore) dead(ctx context.Context, id uuid.UUID, lastError string) error {
	q := fmt.Sprintf(
		`UPDATE %s
		    SET locked_at = NULL,
		        last_error = $2,
		        dead_at = now()
		  WHERE id = $1 AND published_at IS NULL`,
		s.table.Sanitize(),
	)
	return s.exec(ctx, "dead", q, id, lastError)
}

func (s *pgStore) depth(ctx context.Context) (queueDepth, error) {
	q := fmt.Sprintf(
		`SELECT count(*) FILTER (WHERE published_at IS NULL AND dead_at IS NULL),
		        count(*) FILTER (WHERE published_at IS NULL AND dead_at IS NULL AND locked_at IS NOT NULL),
		        count(*) FILTER (WHERE dead_at IS NOT NULL)
		   FROM %s`,
		s.table.Sanitize(),
	)
	var d queueDepth
	if err := s.db.QueryRow(ctx, q).Scan(&d.Pending, &d.Locked, &d.Dead); err != nil {
		return queueDepth{}, fmt.Errorf("outbox depth: %w", err)
	}
	return d, nil
}

func (s *pgStore) purge(ctx context.Context, publishedBefore, deadBefore time.Time) (int64, error) {
	var removed int64
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		tableName := s.table.Sanitize()
		tag, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE published_at IS NOT NULL AND published_at < $1`, tableName), publishedBefore)
		if err != nil {
			return fmt.Errorf("outbox purge published: %w", err)
		}
		removed += tag.RowsAffected()
		tag, err = tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE dead_at IS NOT NULL AND dead_at < $1`, tableName), deadBefore)
		if err != nil {
			return fmt.Errorf("outbox purge dead: %w", err)
		}
		removed += tag.RowsAffected()
		return nil
	})
	return removed, err
}
