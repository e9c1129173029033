package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/wI2L/jsondiff"

	"github.com/iota-uz/dora-register/modules/grid/domain/history"
	"github.com/iota-uz/dora-register/modules/grid/sources"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/eventbus"
	"github.com/iota-uz/dora-register/pkg/serrors"
)

var (
	ErrUnknownResource = serrors.NewError("GRID_RESOURCE_NOT_FOUND", "resource is not editable in the grid", "Grid.Errors.UnknownResource")
	ErrColumnReadOnly  = serrors.NewError("INVALID_GRID_COLUMN", "column is not editable", "Grid.Errors.ColumnReadOnly")
	ErrNothingToUndo   = serrors.NewError("GRID_UNDO_NOT_FOUND", "nothing to undo", "Grid.Errors.NothingToUndo")
	ErrNothingToRedo   = serrors.NewError("GRID_REDO_NOT_FOUND", "nothing to redo", "Grid.Errors.NothingToRedo")
)

type Action string

const (
	ActionEdit Action = "edit"
	ActionUndo Action = "undo"
	ActionRedo Action = "redo"
)

// CellError is returned when a change could not be persisted. Current is
// the stored document the client should revert to.
type CellError struct {
	Err     error
	Current json.RawMessage
}

func (e *CellError) Error() string { return e.Err.Error() }
func (e *CellError) Unwrap() error { return e.Err }

// CellEditedEvent is published after every persisted edit, undo and redo.
type CellEditedEvent struct {
	TenantID uuid.UUID
	ActorID  string
	Action   Action
	Resource string
	RecordID uuid.UUID
	Column   string
	Before   json.RawMessage
	After    json.RawMessage
	At       time.Time
}

type Result struct {
	Resource string          `json:"resource"`
	RecordID uuid.UUID       `json:"record_id"`
	Column   string          `json:"column"`
	Document json.RawMessage `json:"document"`
}

type History struct {
	Undo []history.Entry `json:"undo"`
	Redo []history.Entry `json:"redo"`
}

type GridService struct {
	sources   map[string]sources.Source
	store     history.Store
	publisher eventbus.EventBus
	now       func() time.Time
}

func NewGridService(store history.Store, publisher eventbus.EventBus, srcs ...sources.Source) *GridService {
	s := &GridService{
		sources:   make(map[string]sources.Source, len(srcs)),
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
	for _, src := range srcs {
		s.sources[src.Resource()] = src
	}
	return s
}

// Columns lists the editable columns per resource.
func (s *GridService) Columns() map[string][]string {
	out := make(map[string][]string, len(s.sources))
	for name, src := range s.sources {
		out[name] = src.Columns()
	}
	return out
}

func (s *GridService) historyKey(ctx context.Context) (string, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return "", err
	}
	return history.Key(tenantID, composables.UseActorID(ctx)), nil
}

func (s *GridService) source(resource string) (sources.Source, error) {
	src, ok := s.sources[resource]
	if !ok {
		return nil, ErrUnknownResource
	}
	return src, nil
}

// PatchCell replaces one column of a record and records the edit for undo.
// Concurrent edits are last write wins.
func (s *GridService) PatchCell(ctx context.Context, resource string, id uuid.UUID, column string, value json.RawMessage) (Result, error) {
	if err := authorizeGrid(ctx, "update"); err != nil {
		return Result{}, err
	}
	key, err := s.historyKey(ctx)
	if err != nil {
		return Result{}, err
	}
	src, err := s.source(resource)
	if err != nil {
		return Result{}, err
	}
	if !src.Editable(column) {
		return Result{}, ErrColumnReadOnly
	}
	if len(value) == 0 {
		value = json.RawMessage("null")
	}
	forward, err := json.Marshal([]map[string]any{{
		"op":    "replace",
		"path":  "/" + escapePointer(column),
		"value": value,
	}})
	if err != nil {
		return Result{}, errors.Wrap(err, "encode patch")
	}

	before, after, err := s.apply(ctx, src, id, forward)
	if err != nil {
		return Result{}, err
	}
	reverse, err := diff(after, before)
	if err != nil {
		return Result{}, err
	}
	entry := history.Entry{
		Resource: resource,
		RecordID: id,
		Column:   column,
		Forward:  forward,
		Reverse:  reverse,
		At:       s.now(),
	}
	if err := s.store.Record(ctx, key, entry); err != nil {
		return Result{}, err
	}
	s.publish(ctx, ActionEdit, entry, before, after)
	return Result{Resource: resource, RecordID: id, Column: column, Document: after}, nil
}

// apply patches the current document of id and persists it. It returns
// the document before the change and the one stored afterwards.
func (s *GridService) apply(ctx context.Context, src sources.Source, id uuid.UUID, patch []byte) (json.RawMessage, json.RawMessage, error) {
	before, err := src.Document(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, nil, errors.Wrap(err, "decode patch")
	}
	patched, err := ops.Apply(before)
	if err != nil {
		return nil, nil, &CellError{Err: errors.Wrap(err, "apply patch"), Current: before}
	}
	if err := src.Apply(ctx, id, patched); err != nil {
		return nil, nil, &CellError{Err: err, Current: before}
	}
	after, err := src.Document(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return before, after, nil
}

func diff(from, to json.RawMessage) (json.RawMessage, error) {
	patch, err := jsondiff.CompareJSON(from, to)
	if err != nil {
		return nil, errors.Wrap(err, "diff documents")
	}
	if len(patch) == 0 {
		return json.RawMessage("[]"), nil
	}
	data, err := json.Marshal(patch)
	return data, errors.Wrap(err, "encode reverse patch")
}

// escapePointer escapes a JSON Pointer reference token (RFC 6901).
func escapePointer(s string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(s)
}

// Undo reverts the caller's last edit and makes it redoable. A failed
// revert stays on the undo stack.
func (s *GridService) Undo(ctx context.Context) (Result, error) {
	return s.replay(ctx, history.StackUndo, history.StackRedo, ActionUndo)
}

// Redo re-applies the last undone edit without clearing the redo stack.
func (s *GridService) Redo(ctx context.Context) (Result, error) {
	return s.replay(ctx, history.StackRedo, history.StackUndo, ActionRedo)
}

func (s *GridService) replay(ctx context.Context, from, to history.Stack, action Action) (Result, error) {
	if err := authorizeGrid(ctx, "update"); err != nil {
		return Result{}, err
	}
	key, err := s.historyKey(ctx)
	if err != nil {
		return Result{}, err
	}
	entry, ok, err := s.store.Pop(ctx, key, from)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		if from == history.StackUndo {
			return Result{}, ErrNothingToUndo
		}
		return Result{}, ErrNothingToRedo
	}
	src, err := s.source(entry.Resource)
	if err != nil {
		return Result{}, err
	}
	patch := entry.Reverse
	if action == ActionRedo {
		patch = entry.Forward
	}
	before, after, err := s.apply(ctx, src, entry.RecordID, patch)
	if err != nil {
		if pushErr := s.store.Push(ctx, key, from, entry); pushErr != nil {
			return Result{}, errors.Wrap(pushErr, "restore history entry")
		}
		return Result{}, err
	}
	if err := s.store.Push(ctx, key, to, entry); err != nil {
		return Result{}, err
	}
	s.publish(ctx, action, entry, before, after)
	return Result{Resource: entry.Resource, RecordID: entry.RecordID, Column: entry.Column, Document: after}, nil
}

// History returns the caller's stacks, newest first.
func (s *GridService) History(ctx context.Context) (History, error) {
	if err := authorizeGrid(ctx, "view"); err != nil {
		return History{}, err
	}
	key, err := s.historyKey(ctx)
	if err != nil {
		return History{}, err
	}
	undo, err := s.store.List(ctx, key, history.StackUndo)
	if err != nil {
		return History{}, err
	}
	redo, err := s.store.List(ctx, key, history.StackRedo)
	if err != nil {
		return History{}, err
	}
	return History{Undo: undo, Redo: redo}, nil
}

func (s *GridService) publish(ctx context.Context, action Action, e history.Entry, before, after json.RawMessage) {
	if s.publisher == nil {
		return
	}
	tenantID, _ := composables.UseTenantID(ctx)
	s.publisher.Publish(&CellEditedEvent{
		TenantID: tenantID,
		ActorID:  composables.UseActorID(ctx),
		Action:   action,
		Resource: e.Resource,
		RecordID: e.RecordID,
		Column:   e.Column,
		Before:   before,
		After:    after,
		At:       s.now(),
	})
}
