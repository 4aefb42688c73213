package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"sync"

	"eisenhower-board/internal/board"
	"eisenhower-board/internal/models"
)

// HTMLPainter renders each view into an HTML fragment and keeps the latest
// fragment per view. The page handler stitches the fragments together.
type HTMLPainter struct {
	tmpl *template.Template

	mu        sync.Mutex
	fragments map[ViewID]template.HTML
}

func NewHTMLPainter() *HTMLPainter {
	return &HTMLPainter{
		tmpl:      newTemplates(),
		fragments: make(map[ViewID]template.HTML),
	}
}

// Paint implements Painter.
func (p *HTMLPainter) Paint(id ViewID, model any) error {
	name, err := templateFor(id, model)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, model); err != nil {
		return err
	}
	p.mu.Lock()
	p.fragments[id] = template.HTML(buf.String())
	p.mu.Unlock()
	return nil
}

// Fragment returns the last fragment painted for id.
func (p *HTMLPainter) Fragment(id ViewID) template.HTML {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fragments[id]
}

func templateFor(id ViewID, model any) (string, error) {
	ok := false
	switch id {
	case ViewBoard:
		_, ok = model.(board.BoardView)
	case ViewStaff:
		_, ok = model.(board.StaffRosterView)
	case ViewOverview:
		_, ok = model.(board.OverviewView)
	case ViewDanger, ViewIdle:
		_, ok = model.(board.SeverityListView)
		if ok {
			return "severity", nil
		}
	case ViewCompleted:
		_, ok = model.(board.CompletedView)
	default:
		return "", fmt.Errorf("unknown view %q", id)
	}
	if !ok {
		return "", fmt.Errorf("view %s: unexpected model %T", id, model)
	}
	return string(id), nil
}

// TabLink is one entry of the tab bar.
type TabLink struct {
	ID     ViewID
	Label  string
	Active bool
}

var tabLabels = map[ViewID]string{
	ViewStaff:     "スタッフ",
	ViewOverview:  "プレビュー",
	ViewDanger:    "危険",
	ViewIdle:      "暇",
	ViewCompleted: "完了",
}

// TabLinks returns the tab bar with active highlighted.
func TabLinks(active ViewID) []TabLink {
	links := make([]TabLink, 0, len(Tabs))
	for _, id := range Tabs {
		links = append(links, TabLink{ID: id, Label: tabLabels[id], Active: id == active})
	}
	return links
}

// PageData feeds the full page template.
type PageData struct {
	Title      string
	Tabs       []TabLink
	ActiveTab  ViewID
	Board      template.HTML
	Panels     map[ViewID]template.HTML
	Payload    template.JS
	Staff      []models.Staff
	Statuses   []models.TaskStatus
	Priorities []models.TaskPriority
}

// RenderPage paints every view with a fresh renderer over store and writes
// the complete page. payload must be JSON produced by encoding/json, which
// escapes '<' so it is safe inside a script element.
func RenderPage(w io.Writer, store *board.Store, active ViewID, payload []byte) error {
	painter := NewHTMLPainter()
	renderer := NewRenderer(store, painter)
	if err := renderer.Render(ViewBoard); err != nil {
		return err
	}
	panels := make(map[ViewID]template.HTML, len(Tabs))
	for _, id := range Tabs {
		if err := renderer.Render(id); err != nil {
			return err
		}
		panels[id] = painter.Fragment(id)
	}
	data := PageData{
		Title:      "アイゼンハワー・マトリクス",
		Tabs:       TabLinks(active),
		ActiveTab:  active,
		Board:      painter.Fragment(ViewBoard),
		Panels:     panels,
		Payload:    template.JS(payload),
		Staff:      store.Snapshot().Staff,
		Statuses:   models.StatusOptions(),
		Priorities: models.PriorityOptions(),
	}
	return painter.tmpl.ExecuteTemplate(w, "page", data)
}
