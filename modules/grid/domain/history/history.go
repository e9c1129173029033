// Package history models the per-user undo and redo stacks of grid edits.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultDepth bounds each stack; older entries fall off.
const DefaultDepth = 50

type Stack string

const (
	StackUndo Stack = "undo"
	StackRedo Stack = "redo"
)

// Entry is one cell edit. Forward and Reverse are RFC 6902 patches over
// the record's editable document.
type Entry struct {
	Resource string          `json:"resource"`
	RecordID uuid.UUID       `json:"record_id"`
	Column   string          `json:"column"`
	Forward  json.RawMessage `json:"forward"`
	Reverse  json.RawMessage `json:"reverse"`
	At       time.Time       `json:"at"`
}

// Store keeps the stacks keyed by tenant and user. Stacks are LIFO and
// List returns newest first.
type Store interface {
	// Record pushes a fresh edit onto the undo stack and clears redo.
	Record(ctx context.Context, key string, e Entry) error
	Push(ctx context.Context, key string, s Stack, e Entry) error
	Pop(ctx context.Context, key string, s Stack) (Entry, bool, error)
	List(ctx context.Context, key string, s Stack) ([]Entry, error)
}

func Key(tenantID uuid.UUID, userID string) string {
	return fmt.Sprintf("%s:%s", tenantID, userID)
}
