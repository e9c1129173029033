package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/iota-uz/dora-register/pkg/repo"
	"github.com/iota-uz/dora-register/pkg/serrors"
)

var (
	ErrMalformedJSON = serrors.NewError("MALFORMED_JSON", "request body is not valid JSON", "Errors.MalformedJSON")
	ErrMalformedID   = serrors.NewError("MALFORMED_ID", "identifier is not a valid UUID", "Errors.MalformedID")
)

// ReadJSON decodes the body into dst. On failure it answers 400 and returns false.
func ReadJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := DecodeJSON(r, dst); err != nil {
		WriteServiceError(w, r, ErrMalformedJSON)
		return false
	}
	return true
}

// UUIDVar parses the route variable name. On failure it answers 400.
func UUIDVar(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		WriteServiceError(w, r, ErrMalformedID)
		return uuid.Nil, false
	}
	return id, true
}

// QueryUUID parses an optional query parameter; empty or malformed values yield nil.
func QueryUUID(r *http.Request, name string) *uuid.UUID {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil
	}
	return &id
}

// QueryInt reads a positive integer query parameter, falling back to def.
func QueryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(name)))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// QueryBool reads a boolean query parameter; absent or malformed values are false.
func QueryBool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(r.URL.Query().Get(name)))
	return err == nil && v
}

// Page is the list envelope shared by every collection endpoint.
type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

func NewPage[T any](items []T, total int64, limit, offset int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Limit: limit, Offset: offset}
}

// QuerySort reads ?sort=field or ?sort=-field for descending order.
func QuerySort(r *http.Request) repo.SortBy {
	field := strings.TrimSpace(r.URL.Query().Get("sort"))
	if rest, ok := strings.CutPrefix(field, "-"); ok {
		return repo.SortBy{Field: rest, Direction: repo.SortDesc}
	}
	return repo.SortBy{Field: field, Direction: repo.SortAsc}
}
