package outbox

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/pkg/itf"
)

func TestNewMessage(t *testing.T) {
	tenantID := uuid.New()
	msg, err := NewMessage(tenantID, "findings.overdue", "finding:1", map[string]string{"id": "1"})
	require.NoError(t, err)
	require.Equal(t, tenantID, msg.TenantID)
	require.NotEqual(t, uuid.Nil, msg.EventID)
	require.JSONEq(t, `{"id":"1"}`, string(msg.Payload))
}

func TestPublisher_EnqueueValidates(t *testing.T) {
	p := NewPublisher(nil)
	_, err := p.Enqueue(context.Background(), &itf.StubTx{}, Message{Topic: "x", EventID: uuid.New(), Payload: json.RawMessage(`{}`)})
	require.ErrorIs(t, err, ErrInvalidMessage)
}

func TestPublisher_EnqueueInserts(t *testing.T) {
	tx := &itf.StubTx{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return itf.Row{Values: []any{int64(7)}}
		},
	}
	msg, err := NewMessage(uuid.New(), "contracts.expiring", "", map[string]int{"days": 30})
	require.NoError(t, err)

	seq, err := NewPublisher(nil).Enqueue(context.Background(), tx, msg)
	require.NoError(t, err)
	require.Equal(t, int64(7), seq)

	call, ok := tx.LastCall("INSERT INTO")
	require.True(t, ok)
	require.Contains(t, call.SQL, `"public"."compliance_outbox"`)
	require.Nil(t, call.Args[2], "empty dedup key is stored as NULL")
}

func TestPublisher_EnqueueDeduplicated(t *testing.T) {
	calls := 0
	tx := &itf.StubTx{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			calls++
			if calls == 1 {
				return itf.Row{Err: pgx.ErrNoRows}
			}
			return itf.Row{Values: []any{int64(3)}}
		},
	}
	msg, err := NewMessage(uuid.New(), "contracts.expiring", "contract:1", struct{}{})
	require.NoError(t, err)

	seq, err := NewPublisher(nil).Enqueue(context.Background(), tx, msg)
	require.NoError(t, err)
	require.Equal(t, int64(3), seq)
	require.Equal(t, 2, calls)
}
