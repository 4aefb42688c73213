// Package termui paints board views for a terminal with lipgloss.
package termui

import (
	"fmt"
	"io"
	"strings"

	"eisenhower-board/internal/board"
	"eisenhower-board/internal/ui"

	"github.com/charmbracelet/lipgloss"
)

// Painter writes each painted view to out.
type Painter struct {
	out io.Writer
}

func NewPainter(out io.Writer) *Painter {
	return &Painter{out: out}
}

// Paint implements ui.Painter.
func (p *Painter) Paint(id ui.ViewID, model any) error {
	var s string
	switch v := model.(type) {
	case board.BoardView:
		s = renderBoard(v)
	case board.StaffRosterView:
		s = renderRoster(v)
	case board.OverviewView:
		s = renderOverview(v)
	case board.SeverityListView:
		s = renderSeverity(v)
	case board.CompletedView:
		s = renderCompleted(v)
	default:
		return fmt.Errorf("view %s: unexpected model %T", id, model)
	}
	_, err := fmt.Fprintln(p.out, s)
	return err
}

func renderCard(c board.Card) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s\n", c.ID, labelStyle.Render(c.Title))
	fmt.Fprintf(&b, "  %s  %s  %s  %s",
		statusStyle(c.StatusClass).Render(c.Status),
		priorityStyle(c.PriorityClass).Render(c.Priority),
		c.OwnerName,
		valueMuted.Render(c.DueDate))
	return b.String()
}

func renderQuadrant(q board.QuadrantSection) string {
	lines := []string{headerStyle.Render(fmt.Sprintf("%d %s %s", q.Number, q.Face.Emoji, q.Label))}
	if q.Empty {
		lines = append(lines, valueMuted.Render(q.Placeholder))
	}
	for _, c := range q.Cards {
		lines = append(lines, renderCard(c))
	}
	return paneStyle.Render(strings.Join(lines, "\n"))
}

func renderBoard(v board.BoardView) string {
	panes := make([]string, len(v.Quadrants))
	for i, q := range v.Quadrants {
		panes[i] = renderQuadrant(q)
	}
	rows := make([]string, 0, 2)
	for i := 0; i < len(panes); i += 2 {
		end := min(i+2, len(panes))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, panes[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderRoster(v board.StaffRosterView) string {
	if v.Empty {
		return valueMuted.Render(v.Placeholder)
	}
	lines := make([]string, 0, len(v.Members))
	for _, m := range v.Members {
		lines = append(lines, fmt.Sprintf("#%d %s  %s  %d", m.ID, labelStyle.Render(m.Name), valueMuted.Render(m.Department), m.ActiveCount))
	}
	return strings.Join(lines, "\n")
}

func renderOverview(v board.OverviewView) string {
	lines := []string{headerStyle.Render(fmt.Sprintf("total %d  danger %d  idle %d", v.Total, v.DangerCount, v.IdleCount))}
	for _, q := range v.Quadrants {
		owners := make([]string, 0, len(q.Owners))
		for _, o := range q.Owners {
			owners = append(owners, fmt.Sprintf("%s(%d)", o.Name, o.Count))
		}
		if q.Unassigned > 0 {
			owners = append(owners, fmt.Sprintf("%s(%d)", board.UnknownOwner, q.Unassigned))
		}
		lines = append(lines, fmt.Sprintf("%d %s %s: %d  %s", q.Number, q.Face.Emoji, q.Label, q.Count, strings.Join(owners, " ")))
	}
	return strings.Join(lines, "\n")
}

func renderSeverity(v board.SeverityListView) string {
	lines := []string{headerStyle.Render(v.Label)}
	if v.Empty {
		lines = append(lines, valueMuted.Render(v.Placeholder))
	}
	for _, e := range v.Entries {
		line := fmt.Sprintf("%s  %s  %d", e.Name, e.Department, e.Count)
		if e.Critical {
			line = criticalStyle.Render(line + " !")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderCompleted(v board.CompletedView) string {
	if v.Empty {
		return valueMuted.Render(v.Placeholder)
	}
	lines := make([]string, 0, len(v.Items))
	for _, c := range v.Items {
		lines = append(lines, renderCard(c))
	}
	return strings.Join(lines, "\n")
}
