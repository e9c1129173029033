// Package dashboard holds tenant dashboards and the widget layout rules.
package dashboard

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

type Dashboard struct {
	id        uuid.UUID
	tenantID  uuid.UUID
	name      string
	isDefault bool
	widgets   []Widget
	createdAt time.Time
	updatedAt time.Time
}

type Option func(*Dashboard)

func WithID(id uuid.UUID) Option {
	return func(d *Dashboard) { d.id = id }
}

func WithTenantID(id uuid.UUID) Option {
	return func(d *Dashboard) { d.tenantID = id }
}

func WithWidgets(widgets []Widget) Option {
	return func(d *Dashboard) { d.widgets = append([]Widget(nil), widgets...) }
}

func WithTimestamps(createdAt, updatedAt time.Time) Option {
	return func(d *Dashboard) {
		d.createdAt = createdAt
		d.updatedAt = updatedAt
	}
}

func New(dto DTO, opts ...Option) Dashboard {
	d := Dashboard{id: uuid.New()}.Apply(dto)
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func (d Dashboard) Apply(dto DTO) Dashboard {
	d.name = dto.Name
	d.isDefault = dto.IsDefault
	return d
}

func (d Dashboard) ToDTO() DTO {
	return DTO{Name: d.name, IsDefault: d.isDefault}
}

func (d Dashboard) ID() uuid.UUID        { return d.id }
func (d Dashboard) TenantID() uuid.UUID  { return d.tenantID }
func (d Dashboard) Name() string         { return d.name }
func (d Dashboard) IsDefault() bool      { return d.isDefault }
func (d Dashboard) CreatedAt() time.Time { return d.createdAt }
func (d Dashboard) UpdatedAt() time.Time { return d.updatedAt }

// Widgets returns the widgets in reading order: top to bottom, then left
// to right.
func (d Dashboard) Widgets() []Widget {
	out := append([]Widget(nil), d.widgets...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].position, out[j].position
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return out
}

func (d Dashboard) Widget(id uuid.UUID) (Widget, bool) {
	for _, w := range d.widgets {
		if w.id == id {
			return w, true
		}
	}
	return Widget{}, false
}

// Fits returns nil when p is on the grid and free, ignoring the widget
// with id skip.
func (d Dashboard) Fits(p Position, skip uuid.UUID) error {
	if !p.Valid() {
		return ErrInvalidPosition
	}
	for _, w := range d.widgets {
		if w.id != skip && w.position.Overlaps(p) {
			return ErrOverlap
		}
	}
	return nil
}

// FreePosition finds the first free w×h slot scanning rows top down. The
// slot must end within GridRows.
func (d Dashboard) FreePosition(w, h int) Position {
	if w < 1 {
		w = 1
	}
	if w > GridColumns {
		w = GridColumns
	}
	if h < 1 {
		h = 1
	}
	if h > GridRows {
		h = GridRows
	}
	for y := 0; y+h <= GridRows; y++ {
		for x := 0; x+w <= GridColumns; x++ {
			p := Position{X: x, Y: y, W: w, H: h}
			if d.Fits(p, uuid.Nil) == nil {
				return p
			}
		}
	}
	// A full grid yields a position that Fits rejects.
	return Position{X: 0, Y: GridRows, W: w, H: h}
}

// AddWidget places w. autoPlace puts it in the first free slot of its size.
func (d Dashboard) AddWidget(w Widget, autoPlace bool) (Dashboard, Widget, error) {
	if autoPlace {
		w.position = d.FreePosition(w.position.W, w.position.H)
	}
	if err := d.Fits(w.position, uuid.Nil); err != nil {
		return d, Widget{}, err
	}
	w.dashboardID = d.id
	d.widgets = append(append([]Widget(nil), d.widgets...), w)
	return d, w, nil
}

// ReplaceWidget swaps in an edited or moved widget.
func (d Dashboard) ReplaceWidget(w Widget) (Dashboard, error) {
	idx := d.indexOf(w.id)
	if idx < 0 {
		return d, ErrWidgetNotFound
	}
	if err := d.Fits(w.position, w.id); err != nil {
		return d, err
	}
	widgets := append([]Widget(nil), d.widgets...)
	widgets[idx] = w
	d.widgets = widgets
	return d, nil
}

func (d Dashboard) RemoveWidget(id uuid.UUID) (Dashboard, error) {
	idx := d.indexOf(id)
	if idx < 0 {
		return d, ErrWidgetNotFound
	}
	widgets := make([]Widget, 0, len(d.widgets)-1)
	widgets = append(widgets, d.widgets[:idx]...)
	d.widgets = append(widgets, d.widgets[idx+1:]...)
	return d, nil
}

func (d Dashboard) indexOf(id uuid.UUID) int {
	for i, w := range d.widgets {
		if w.id == id {
			return i
		}
	}
	return -1
}
