package board

import (
	"cmp"
	"slices"
	"strings"

	"eisenhower-board/internal/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// missingDueDate sorts tasks without a due date after every real date.
const missingDueDate = "9999-12-31"

// SeverityThreshold is the number of active tasks in quadrant 1 (danger) or
// quadrant 4 (idle) at which an owner is flagged.
const SeverityThreshold = 3

func dueKey(t models.Task) string {
	if t.DueDate == nil || *t.DueDate == "" {
		return missingDueDate
	}
	return *t.DueDate
}

// SortTasksForBoard orders tasks by quadrant, then priority, then due date.
// The input is not modified.
func SortTasksForBoard(tasks []models.Task) []models.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b models.Task) int {
		return cmp.Or(
			cmp.Compare(a.EffectiveQuadrant(), b.EffectiveQuadrant()),
			cmp.Compare(models.PriorityRank(a.Priority), models.PriorityRank(b.Priority)),
			strings.Compare(dueKey(a), dueKey(b)),
		)
	})
	return out
}

// ActiveTasks returns tasks that are not done, in input order.
func ActiveTasks(tasks []models.Task) []models.Task {
	return slices.DeleteFunc(slices.Clone(tasks), models.Task.Done)
}

// CompletedTasks returns only done tasks, in input order.
func CompletedTasks(tasks []models.Task) []models.Task {
	return slices.DeleteFunc(slices.Clone(tasks), func(t models.Task) bool { return !t.Done() })
}

// TasksInQuadrant returns the tasks whose effective quadrant is q.
func TasksInQuadrant(tasks []models.Task, q int) []models.Task {
	return slices.DeleteFunc(slices.Clone(tasks), func(t models.Task) bool { return t.EffectiveQuadrant() != q })
}

// CompletedSortKey selects the completed-list ordering.
type CompletedSortKey string

const (
	CompletedByDueDate  CompletedSortKey = "due_date"
	CompletedByPriority CompletedSortKey = "priority"
)

// CompletedSort is the user's choice for the completed list.
type CompletedSort struct {
	Key  CompletedSortKey
	Desc bool
}

// SortCompleted orders tasks by the selected key. Ties keep input order.
func SortCompleted(tasks []models.Task, by CompletedSort) []models.Task {
	out := slices.Clone(tasks)
	compare := func(a, b models.Task) int {
		return strings.Compare(dueKey(a), dueKey(b))
	}
	if by.Key == CompletedByPriority {
		compare = func(a, b models.Task) int {
			return cmp.Compare(models.PriorityRank(a.Priority), models.PriorityRank(b.Priority))
		}
	}
	slices.SortStableFunc(out, func(a, b models.Task) int {
		if by.Desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return out
}

// StaffSortKey selects the roster ordering.
type StaffSortKey string

const (
	StaffByName       StaffSortKey = "name"
	StaffByDepartment StaffSortKey = "department"
)

// StaffSort is the user's choice for the staff roster.
type StaffSort struct {
	Key  StaffSortKey
	Desc bool
}

// DefaultLocale is the collation locale used when none is configured.
var DefaultLocale = language.Japanese

func newCollator(tag language.Tag) *collate.Collator {
	return collate.New(tag, collate.Numeric, collate.IgnoreCase, collate.IgnoreWidth)
}

// SortStaff orders staff with locale-aware collation: numeric substrings
// compare numerically, case and width are ignored. Department ordering
// falls back to name within a department; the direction applies to the
// primary key only.
func SortStaff(staff []models.Staff, by StaffSort, tag language.Tag) []models.Staff {
	out := slices.Clone(staff)
	c := newCollator(tag)
	slices.SortStableFunc(out, func(a, b models.Staff) int {
		primary := c.CompareString(a.Name, b.Name)
		if by.Key == StaffByDepartment {
			primary = c.CompareString(a.Department, b.Department)
		}
		if by.Desc {
			primary = -primary
		}
		if primary != 0 || by.Key != StaffByDepartment {
			return primary
		}
		return c.CompareString(a.Name, b.Name)
	})
	return out
}

// FilterStaff keeps staff whose name contains text, ignoring case. Blank
// text returns the full list.
func FilterStaff(staff []models.Staff, text string) []models.Staff {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return slices.Clone(staff)
	}
	return slices.DeleteFunc(slices.Clone(staff), func(s models.Staff) bool {
		return !strings.Contains(strings.ToLower(s.Name), needle)
	})
}

// QuadrantCounts counts active tasks per quadrant; index 0 is unused.
// Tasks with dangling owners are included.
func QuadrantCounts(tasks []models.Task) [models.MaxQuadrant + 1]int {
	var counts [models.MaxQuadrant + 1]int
	for _, t := range tasks {
		if t.Done() {
			continue
		}
		counts[t.EffectiveQuadrant()]++
	}
	return counts
}

// ActiveCountByOwner counts active tasks per owner id across all quadrants.
func ActiveCountByOwner(tasks []models.Task) map[int64]int {
	counts := make(map[int64]int)
	for _, t := range tasks {
		if !t.Done() {
			counts[t.OwnerID]++
		}
	}
	return counts
}

// OwnerCount is one owner's active-task total within a quadrant.
type OwnerCount struct {
	Staff models.Staff
	Count int
}

// OwnerCounts groups the active tasks of quadrant q by owner, ordered by
// descending count with ties kept in first-encounter order. Owners that do
// not resolve to a staff record are left out.
func OwnerCounts(tasks []models.Task, staff []models.Staff, q int) []OwnerCount {
	byID := make(map[int64]models.Staff, len(staff))
	for _, s := range staff {
		byID[s.ID] = s
	}
	index := make(map[int64]int)
	var groups []OwnerCount
	for _, t := range tasks {
		if t.Done() || t.EffectiveQuadrant() != q {
			continue
		}
		owner, ok := byID[t.OwnerID]
		if !ok {
			continue
		}
		if i, seen := index[owner.ID]; seen {
			groups[i].Count++
			continue
		}
		index[owner.ID] = len(groups)
		groups = append(groups, OwnerCount{Staff: owner, Count: 1})
	}
	slices.SortStableFunc(groups, func(a, b OwnerCount) int { return cmp.Compare(b.Count, a.Count) })
	return groups
}

// DangerOwners returns owners with at least SeverityThreshold active tasks
// in quadrant 1.
func DangerOwners(tasks []models.Task, staff []models.Staff) []OwnerCount {
	return flagged(OwnerCounts(tasks, staff, 1))
}

// IdleOwners returns owners with at least SeverityThreshold active tasks in
// quadrant 4.
func IdleOwners(tasks []models.Task, staff []models.Staff) []OwnerCount {
	return flagged(OwnerCounts(tasks, staff, 4))
}

func flagged(groups []OwnerCount) []OwnerCount {
	return slices.DeleteFunc(groups, func(g OwnerCount) bool { return g.Count < SeverityThreshold })
}
