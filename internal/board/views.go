package board

import (
	"strconv"

	"eisenhower-board/internal/models"

	"golang.org/x/text/language"
)

// Placeholder copy shown by views with nothing to list.
const (
	PlaceholderNoTasks     = "タスクはありません"
	PlaceholderNoStaff     = "スタッフが登録されていません"
	PlaceholderNoDanger    = "第1象限に滞留しているタスクはありません"
	PlaceholderNoIdle      = "第4象限に滞留しているタスクはありません"
	PlaceholderNoCompleted = "完了したタスクはありません"
)

// UnknownOwner is displayed for tasks whose owner is not in the roster.
const UnknownOwner = "-"

// Options carries the per-view UI choices the builders need.
type Options struct {
	StaffFilter   string
	StaffSort     StaffSort
	CompletedSort CompletedSort
	Locale        language.Tag
}

// DefaultOptions sorts staff by name and completed tasks by due date.
func DefaultOptions() Options {
	return Options{
		StaffSort:     StaffSort{Key: StaffByName},
		CompletedSort: CompletedSort{Key: CompletedByDueDate},
		Locale:        DefaultLocale,
	}
}

// Card is one task as displayed on the board or a list.
type Card struct {
	ID            int64
	Title         string
	Description   string
	CreatedBy     string
	OwnerID       int64
	OwnerName     string
	OwnerPhoto    string
	OwnerInitial  string
	Status        string
	StatusClass   string
	Priority      string
	PriorityClass string
	DueDate       string
	Quadrant      int
	DragPayload   string
}

// QuadrantSection is one drop target of the board.
type QuadrantSection struct {
	Number      int
	Label       string
	Face        models.QuadrantFace
	Cards       []Card
	Empty       bool
	Placeholder string
}

// BoardView is the four-quadrant board of active tasks.
type BoardView struct {
	Quadrants []QuadrantSection
	Total     int
}

// StaffCard is one roster entry.
type StaffCard struct {
	ID          int64
	Name        string
	Department  string
	Photo       string
	Initial     string
	ActiveCount int
}

// StaffRosterView is the filtered, sorted staff list.
type StaffRosterView struct {
	Members     []StaffCard
	Filter      string
	Sort        StaffSort
	Empty       bool
	Placeholder string
}

// OwnerSummary is one owner's share of a quadrant.
type OwnerSummary struct {
	StaffID int64
	Name    string
	Photo   string
	Initial string
	Count   int
}

// OverviewQuadrant summarizes one quadrant for the preview tab.
type OverviewQuadrant struct {
	Number     int
	Label      string
	Face       models.QuadrantFace
	Count      int
	Owners     []OwnerSummary
	Unassigned int
	Empty      bool
}

// OverviewView is the per-quadrant, per-owner preview.
type OverviewView struct {
	Quadrants   []OverviewQuadrant
	Total       int
	DangerCount int
	IdleCount   int
}

// SeverityEntry is one owner on the danger or idle list.
type SeverityEntry struct {
	StaffID    int64
	Name       string
	Department string
	Photo      string
	Initial    string
	Count      int
	Critical   bool
}

// SeverityListView is the danger (quadrant 1) or idle (quadrant 4) list.
type SeverityListView struct {
	Quadrant    int
	Label       string
	Threshold   int
	Entries     []SeverityEntry
	Empty       bool
	Placeholder string
}

// Flagged returns the entries at or over the threshold.
func (v SeverityListView) Flagged() []SeverityEntry {
	var out []SeverityEntry
	for _, e := range v.Entries {
		if e.Critical {
			out = append(out, e)
		}
	}
	return out
}

// CompletedView lists done tasks.
type CompletedView struct {
	Items       []Card
	Sort        CompletedSort
	Empty       bool
	Placeholder string
}

// DragPayload is the value a card puts on the drag transfer when a drag
// starts.
func DragPayload(taskID int64) string {
	return strconv.FormatInt(taskID, 10)
}

// ParseDragPayload resolves a drop payload back to a task id.
func ParseDragPayload(payload string) (int64, bool) {
	id, err := strconv.ParseInt(payload, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func staffIndex(staff []models.Staff) map[int64]models.Staff {
	m := make(map[int64]models.Staff, len(staff))
	for _, s := range staff {
		m[s.ID] = s
	}
	return m
}

// displayPriority maps aliases and unknown values onto the three display
// priorities; unknown means medium.
func displayPriority(p models.TaskPriority) models.TaskPriority {
	switch models.PriorityRank(p) {
	case 1:
		return models.PriorityHigh
	case 3:
		return models.PriorityLow
	}
	return models.PriorityMedium
}

func priorityClass(p models.TaskPriority) string {
	switch models.PriorityRank(p) {
	case 1:
		return "priority--high"
	case 3:
		return "priority--low"
	}
	return "priority--medium"
}

func newCard(t models.Task, owners map[int64]models.Staff, pres models.Presentation) Card {
	q := t.EffectiveQuadrant()
	priority := displayPriority(t.Priority)
	c := Card{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		CreatedBy:     t.CreatedBy,
		OwnerID:       t.OwnerID,
		OwnerName:     UnknownOwner,
		OwnerInitial:  UnknownOwner,
		Status:        string(t.Status),
		StatusClass:   pres.StatusColors[string(t.Status)],
		Priority:      string(priority),
		PriorityClass: priorityClass(priority),
		DueDate:       "-",
		Quadrant:      q,
		DragPayload:   DragPayload(t.ID),
	}
	if t.DueDate != nil && *t.DueDate != "" {
		c.DueDate = *t.DueDate
	}
	if owner, ok := owners[t.OwnerID]; ok {
		c.OwnerName = owner.Name
		c.OwnerPhoto = owner.PhotoFor(q)
		c.OwnerInitial = owner.Initial()
	}
	return c
}

// BuildBoard places every active task in exactly one quadrant section.
func BuildBoard(snap Snapshot) BoardView {
	owners := staffIndex(snap.Staff)
	view := BoardView{Quadrants: make([]QuadrantSection, 0, models.MaxQuadrant)}
	for q := models.MinQuadrant; q <= models.MaxQuadrant; q++ {
		view.Quadrants = append(view.Quadrants, QuadrantSection{
			Number:      q,
			Label:       snap.Presentation.QuadrantLabels[q],
			Face:        snap.Presentation.QuadrantFaces[q],
			Placeholder: PlaceholderNoTasks,
		})
	}
	for _, t := range SortTasksForBoard(ActiveTasks(snap.Tasks)) {
		section := &view.Quadrants[t.EffectiveQuadrant()-1]
		section.Cards = append(section.Cards, newCard(t, owners, snap.Presentation))
		view.Total++
	}
	for i := range view.Quadrants {
		view.Quadrants[i].Empty = len(view.Quadrants[i].Cards) == 0
	}
	return view
}

// BuildStaffRoster filters by name and then sorts.
func BuildStaffRoster(snap Snapshot, opts Options) StaffRosterView {
	counts := ActiveCountByOwner(snap.Tasks)
	members := SortStaff(FilterStaff(snap.Staff, opts.StaffFilter), opts.StaffSort, opts.Locale)
	view := StaffRosterView{
		Members:     make([]StaffCard, 0, len(members)),
		Filter:      opts.StaffFilter,
		Sort:        opts.StaffSort,
		Placeholder: PlaceholderNoStaff,
	}
	for _, s := range members {
		view.Members = append(view.Members, StaffCard{
			ID:          s.ID,
			Name:        s.Name,
			Department:  s.Department,
			Photo:       s.Photo,
			Initial:     s.Initial(),
			ActiveCount: counts[s.ID],
		})
	}
	view.Empty = len(view.Members) == 0
	return view
}

func ownerSummaries(groups []OwnerCount, q int) []OwnerSummary {
	out := make([]OwnerSummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, OwnerSummary{
			StaffID: g.Staff.ID,
			Name:    g.Staff.Name,
			Photo:   g.Staff.PhotoFor(q),
			Initial: g.Staff.Initial(),
			Count:   g.Count,
		})
	}
	return out
}

// BuildOverview counts active tasks per quadrant and per owner.
func BuildOverview(snap Snapshot) OverviewView {
	counts := QuadrantCounts(snap.Tasks)
	view := OverviewView{
		DangerCount: len(DangerOwners(snap.Tasks, snap.Staff)),
		IdleCount:   len(IdleOwners(snap.Tasks, snap.Staff)),
	}
	for q := models.MinQuadrant; q <= models.MaxQuadrant; q++ {
		groups := OwnerCounts(snap.Tasks, snap.Staff, q)
		assigned := 0
		for _, g := range groups {
			assigned += g.Count
		}
		view.Quadrants = append(view.Quadrants, OverviewQuadrant{
			Number:     q,
			Label:      snap.Presentation.QuadrantLabels[q],
			Face:       snap.Presentation.QuadrantFaces[q],
			Count:      counts[q],
			Owners:     ownerSummaries(groups, q),
			Unassigned: counts[q] - assigned,
			Empty:      counts[q] == 0,
		})
		view.Total += counts[q]
	}
	return view
}

func buildSeverity(snap Snapshot, q int, placeholder string) SeverityListView {
	view := SeverityListView{
		Quadrant:    q,
		Label:       snap.Presentation.QuadrantLabels[q],
		Threshold:   SeverityThreshold,
		Placeholder: placeholder,
	}
	for _, g := range OwnerCounts(snap.Tasks, snap.Staff, q) {
		view.Entries = append(view.Entries, SeverityEntry{
			StaffID:    g.Staff.ID,
			Name:       g.Staff.Name,
			Department: g.Staff.Department,
			Photo:      g.Staff.PhotoFor(q),
			Initial:    g.Staff.Initial(),
			Count:      g.Count,
			Critical:   g.Count >= SeverityThreshold,
		})
	}
	view.Empty = len(view.Entries) == 0
	return view
}

// BuildDangerList lists owners of active quadrant-1 tasks, flagging those at
// or over SeverityThreshold.
func BuildDangerList(snap Snapshot) SeverityListView {
	return buildSeverity(snap, 1, PlaceholderNoDanger)
}

// BuildIdleList lists owners of active quadrant-4 tasks, flagging those at
// or over SeverityThreshold.
func BuildIdleList(snap Snapshot) SeverityListView {
	return buildSeverity(snap, 4, PlaceholderNoIdle)
}

// BuildCompleted lists done tasks in the selected order.
func BuildCompleted(snap Snapshot, opts Options) CompletedView {
	owners := staffIndex(snap.Staff)
	tasks := SortCompleted(CompletedTasks(snap.Tasks), opts.CompletedSort)
	view := CompletedView{
		Items:       make([]Card, 0, len(tasks)),
		Sort:        opts.CompletedSort,
		Placeholder: PlaceholderNoCompleted,
	}
	for _, t := range tasks {
		view.Items = append(view.Items, newCard(t, owners, snap.Presentation))
	}
	view.Empty = len(view.Items) == 0
	return view
}
