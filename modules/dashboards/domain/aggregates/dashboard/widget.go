package dashboard

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindKPI      Kind = "kpi"
	KindBar      Kind = "bar"
	KindLine     Kind = "line"
	KindTable    Kind = "table"
	KindProgress Kind = "progress"
)

var Kinds = []Kind{KindKPI, KindBar, KindLine, KindTable, KindProgress}

// GridColumns is the width of the dashboard layout grid.
const GridColumns = 12

// GridRows is the last row a widget may reach.
const GridRows = 1000

// DefaultSize is the footprint given to a widget placed without a position.
func DefaultSize(k Kind) (w, h int) {
	switch k {
	case KindKPI, KindProgress:
		return 3, 2
	case KindTable:
		return 6, 4
	default:
		return 6, 3
	}
}

// Position places a widget on the grid. X and W count columns, Y and H rows.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

func (p Position) Valid() bool {
	if p.X < 0 || p.X >= GridColumns || p.W < 1 || p.W > GridColumns {
		return false
	}
	if p.Y < 0 || p.Y >= GridRows || p.H < 1 || p.H > GridRows {
		return false
	}
	return p.X+p.W <= GridColumns
}

func (p Position) Overlaps(o Position) bool {
	return p.X < o.X+o.W && o.X < p.X+p.W && p.Y < o.Y+o.H && o.Y < p.Y+p.H
}

type Widget struct {
	id          uuid.UUID
	dashboardID uuid.UUID
	title       string
	kind        Kind
	source      string
	position    Position
	config      json.RawMessage
	createdAt   time.Time
	updatedAt   time.Time
}

type WidgetOption func(*Widget)

func WithWidgetID(id uuid.UUID) WidgetOption {
	return func(w *Widget) { w.id = id }
}

func WithWidgetTimestamps(createdAt, updatedAt time.Time) WidgetOption {
	return func(w *Widget) {
		w.createdAt = createdAt
		w.updatedAt = updatedAt
	}
}

// NewWidget builds a widget from dto. A nil dto position leaves the
// widget at the origin; Dashboard.AddWidget places it.
func NewWidget(dashboardID uuid.UUID, dto WidgetDTO, opts ...WidgetOption) Widget {
	w := Widget{id: uuid.New(), dashboardID: dashboardID}.Apply(dto)
	for _, opt := range opts {
		opt(&w)
	}
	return w
}

func (w Widget) Apply(dto WidgetDTO) Widget {
	w.title = dto.Title
	w.kind = Kind(dto.Kind)
	w.source = dto.Source
	if dto.Position != nil {
		w.position = *dto.Position
	}
	w.config = append(json.RawMessage(nil), dto.Config...)
	if len(w.config) == 0 {
		w.config = json.RawMessage(`{}`)
	}
	return w
}

func (w Widget) ToDTO() WidgetDTO {
	pos := w.position
	return WidgetDTO{
		Title:    w.title,
		Kind:     string(w.kind),
		Source:   w.source,
		Position: &pos,
		Config:   append(json.RawMessage(nil), w.config...),
	}
}

func (w Widget) Move(p Position) Widget {
	w.position = p
	return w
}

func (w Widget) ID() uuid.UUID           { return w.id }
func (w Widget) DashboardID() uuid.UUID  { return w.dashboardID }
func (w Widget) Title() string           { return w.title }
func (w Widget) Kind() Kind              { return w.kind }
func (w Widget) Source() string          { return w.source }
func (w Widget) Position() Position      { return w.position }
func (w Widget) Config() json.RawMessage { return w.config }
func (w Widget) CreatedAt() time.Time    { return w.createdAt }
func (w Widget) UpdatedAt() time.Time    { return w.updatedAt }
