package todo

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Filter selects which todos a view shows.
type Filter int

const (
	// FilterUnfinished shows todos without a completion date.
	FilterUnfinished Filter = iota

	// FilterAll shows every todo.
	FilterAll

	// FilterWeek shows unfinished todos due in the current week.
	FilterWeek
)

// String returns the filter's name.
func (f Filter) String() string {
	switch f {
	case FilterAll:
		return "all"
	case FilterWeek:
		return "week"
	default:
		return "unfinished"
	}
}

// ParseFilter parses a filter name.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unfinished":
		return FilterUnfinished, nil
	case "all":
		return FilterAll, nil
	case "week":
		return FilterWeek, nil
	default:
		return FilterUnfinished, fmt.Errorf("unknown filter %q", s)
	}
}

// noDueDate sorts undated todos after every dated one.
var noDueDate = time.Date(3000, time.January, 1, 0, 0, 0, 0, time.UTC)

// WeekWindow returns the Sunday at or before now and the Saturday after it,
// both as dates. The window is inclusive at both ends.
func WeekWindow(now time.Time) (time.Time, time.Time) {
	today := DateOf(now)
	start := today.AddDate(0, 0, -int(today.Weekday()))
	return start, start.AddDate(0, 0, 6)
}

// View filters todos and sorts them by due date, undated last. Ties keep
// their input order.
func View(todos []Todo, filter Filter, now time.Time) []Todo {
	start, end := WeekWindow(now)
	out := make([]Todo, 0, len(todos))
	for _, t := range todos {
		switch filter {
		case FilterAll:
		case FilterWeek:
			if t.Completed() || t.DueDate == nil {
				continue
			}
			due := DateOf(*t.DueDate)
			if due.Before(start) || due.After(end) {
				continue
			}
		default:
			if t.Completed() {
				continue
			}
		}
		out = append(out, t)
	}
	slices.SortStableFunc(out, func(a, b Todo) int {
		return sortKey(a).Compare(sortKey(b))
	})
	return out
}

func sortKey(t Todo) time.Time {
	if t.DueDate == nil {
		return noDueDate
	}
	return DateOf(*t.DueDate)
}

// TableHeader is the first row of TableRows.
var TableHeader = []string{"Id", "Task", "Due_Date", "Completed_At", "Status"}

// TableRows returns a header followed by one row of strings per todo.
// Unset values render as "-".
func TableRows(todos []Todo) [][]string {
	rows := make([][]string, 0, len(todos)+1)
	rows = append(rows, append([]string(nil), TableHeader...))
	for _, t := range todos {
		rows = append(rows, []string{
			orDash(t.ID),
			orDash(t.Task),
			orDash(FormatDate(t.DueDate)),
			orDash(FormatDate(t.CompletedAt)),
			orDash(string(t.Status)),
		})
	}
	return rows
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
