// Package sources exposes records of the editable modules to the grid as
// flat JSON documents of their whitelisted columns.
package sources

import (
	"context"
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Source interface {
	Resource() string
	Columns() []string
	Editable(column string) bool
	// Document returns the record's editable columns as a JSON object.
	Document(ctx context.Context, id uuid.UUID) (json.RawMessage, error)
	// Apply persists doc through the owning module's update path, so its
	// validation and authorization apply.
	Apply(ctx context.Context, id uuid.UUID, doc json.RawMessage) error
}

// entitySource adapts a module service whose aggregate round-trips
// through a DTO.
type entitySource[E any, D any] struct {
	resource string
	columns  []string
	get      func(ctx context.Context, id uuid.UUID) (E, error)
	toDTO    func(E) D
	update   func(ctx context.Context, id uuid.UUID, dto *D) error
}

func (s *entitySource[E, D]) Resource() string {
	return s.resource
}

func (s *entitySource[E, D]) Columns() []string {
	return append([]string(nil), s.columns...)
}

func (s *entitySource[E, D]) Editable(column string) bool {
	for _, c := range s.columns {
		if c == column {
			return true
		}
	}
	return false
}

func (s *entitySource[E, D]) full(ctx context.Context, id uuid.UUID) ([]byte, error) {
	e, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(s.toDTO(e))
	return data, errors.Wrapf(err, "encode %s %s", s.resource, id)
}

func (s *entitySource[E, D]) Document(ctx context.Context, id uuid.UUID) (json.RawMessage, error) {
	data, err := s.full(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.project(data, true)
}

// project keeps the whitelisted columns of doc. With fill set, missing
// columns become null; otherwise they are left out, so a merge patch built
// from the result only touches the columns doc carries.
func (s *entitySource[E, D]) project(doc []byte, fill bool) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return nil, errors.Wrapf(err, "decode %s document", s.resource)
	}
	out := make(map[string]json.RawMessage, len(s.columns))
	for _, c := range s.columns {
		v, ok := fields[c]
		switch {
		case ok:
			out[c] = v
		case fill:
			out[c] = json.RawMessage("null")
		}
	}
	data, err := json.Marshal(out)
	return data, errors.Wrapf(err, "encode %s document", s.resource)
}

func (s *entitySource[E, D]) Apply(ctx context.Context, id uuid.UUID, doc json.RawMessage) error {
	current, err := s.full(ctx, id)
	if err != nil {
		return err
	}
	editable, err := s.project(doc, false)
	if err != nil {
		return err
	}
	merged, err := jsonpatch.MergePatch(current, editable)
	if err != nil {
		return errors.Wrapf(err, "merge %s %s", s.resource, id)
	}
	var dto D
	if err := json.Unmarshal(merged, &dto); err != nil {
		return errors.Wrapf(err, "decode %s %s", s.resource, id)
	}
	return s.update(ctx, id, &dto)
}
