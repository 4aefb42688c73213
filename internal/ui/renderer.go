// Package ui keeps the rendered views consistent with the board store and
// turns user gestures into API calls.
package ui

import (
	"fmt"
	"sync"

	"eisenhower-board/internal/board"
)

// ViewID names one visual surface.
type ViewID string

const (
	ViewBoard     ViewID = "board"
	ViewStaff     ViewID = "staff"
	ViewOverview  ViewID = "overview"
	ViewDanger    ViewID = "danger"
	ViewIdle      ViewID = "idle"
	ViewCompleted ViewID = "completed"
)

// Tabs lists the tabbed views in display order. The board is always visible
// and is not a tab.
var Tabs = []ViewID{ViewStaff, ViewOverview, ViewDanger, ViewIdle, ViewCompleted}

// ValidTab reports whether id names a tab.
func ValidTab(id ViewID) bool {
	for _, t := range Tabs {
		if t == id {
			return true
		}
	}
	return false
}

// ViewState is Stale until a view is rebuilt from the current store.
type ViewState int

const (
	Stale ViewState = iota
	Rendered
)

func (s ViewState) String() string {
	if s == Rendered {
		return "rendered"
	}
	return "stale"
}

// Painter draws a view model onto some surface (HTML, terminal, ...). It
// receives one of the board.*View types and must not touch the store.
type Painter interface {
	Paint(id ViewID, model any) error
}

// PainterFunc adapts a function to Painter.
type PainterFunc func(id ViewID, model any) error

func (f PainterFunc) Paint(id ViewID, model any) error { return f(id, model) }

type viewEntry struct {
	state ViewState
	model any
	paint int
}

// Renderer rebuilds views from the store. Every Render is a full rebuild;
// there is no diffing.
type Renderer struct {
	store   *board.Store
	painter Painter

	mu    sync.Mutex
	opts  board.Options
	views map[ViewID]*viewEntry
}

// NewRenderer returns a renderer with every view stale.
func NewRenderer(store *board.Store, painter Painter) *Renderer {
	r := &Renderer{
		store:   store,
		painter: painter,
		opts:    board.DefaultOptions(),
		views:   make(map[ViewID]*viewEntry),
	}
	for _, id := range append([]ViewID{ViewBoard}, Tabs...) {
		r.views[id] = &viewEntry{}
	}
	return r
}

// Build computes the view model for id from snap without painting.
func Build(id ViewID, snap board.Snapshot, opts board.Options) (any, error) {
	switch id {
	case ViewBoard:
		return board.BuildBoard(snap), nil
	case ViewStaff:
		return board.BuildStaffRoster(snap, opts), nil
	case ViewOverview:
		return board.BuildOverview(snap), nil
	case ViewDanger:
		return board.BuildDangerList(snap), nil
	case ViewIdle:
		return board.BuildIdleList(snap), nil
	case ViewCompleted:
		return board.BuildCompleted(snap, opts), nil
	}
	return nil, fmt.Errorf("unknown view %q", id)
}

// Render rebuilds id from the current store and paints it.
func (r *Renderer) Render(id ViewID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.views[id]
	if !ok {
		return fmt.Errorf("unknown view %q", id)
	}
	model, err := Build(id, r.store.Snapshot(), r.opts)
	if err != nil {
		return err
	}
	if r.painter != nil {
		if err := r.painter.Paint(id, model); err != nil {
			entry.state = Stale
			return fmt.Errorf("paint %s: %w", id, err)
		}
	}
	entry.model = model
	entry.state = Rendered
	entry.paint++
	return nil
}

// MarkStale flags views as no longer reflecting the store.
func (r *Renderer) MarkStale(ids ...ViewID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if entry, ok := r.views[id]; ok {
			entry.state = Stale
		}
	}
}

// MarkAllStale flags every view as stale.
func (r *Renderer) MarkAllStale() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.views {
		entry.state = Stale
	}
}

// State reports whether id currently reflects the store.
func (r *Renderer) State(id ViewID) ViewState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.views[id]; ok {
		return entry.state
	}
	return Stale
}

// Model returns the last view model painted for id, or nil.
func (r *Renderer) Model(id ViewID) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.views[id]; ok {
		return entry.model
	}
	return nil
}

// PaintCount reports how many times id has been rendered.
func (r *Renderer) PaintCount(id ViewID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.views[id]; ok {
		return entry.paint
	}
	return 0
}

// Options returns the current view options.
func (r *Renderer) Options() board.Options {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opts
}

// UpdateOptions applies fn to the view options. Callers re-render the
// affected view afterwards.
func (r *Renderer) UpdateOptions(fn func(*board.Options)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(&r.opts)
}
