// Package report is the aggregation engine behind the dashboard: pure,
// stateless transformations of time entries into totals, rankings, and
// chart-ready distributions. Functions here never validate, never touch
// I/O, and return sentinel values instead of errors on empty input.
package report

import (
	"sort"

	"pointage/internal/core"
)

// NoData is returned by the dominant-* functions when no hours exist.
const NoData = "Aucun"

type (
	// Row drives a single bar in a distribution chart.
	Row struct {
		Name  string  `json:"name"`
		Hours float64 `json:"hours"`
		Color string  `json:"color"`
	}

	// ClientTotal is a per-client hour sum in caller-supplied order.
	ClientTotal struct {
		ID    string  `json:"id"`
		Name  string  `json:"name"`
		Hours float64 `json:"hours"`
	}
)

// tally accumulates hours per key while remembering first-seen key order,
// so tie-breaks and color assignment stay deterministic.
type tally struct {
	keys   []string
	totals map[string]float64
}

func newTally() *tally {
	return &tally{totals: make(map[string]float64)}
}

func (t *tally) add(key string, hours float64) {
	if _, seen := t.totals[key]; !seen {
		t.keys = append(t.keys, key)
	}
	t.totals[key] += hours
}

// max returns the key with the strictly largest total. On equal totals the
// key seen first retains priority.
func (t *tally) max() (string, float64) {
	best := ""
	var bestHours float64
	for i, key := range t.keys {
		if i == 0 || t.totals[key] > bestHours {
			best = key
			bestHours = t.totals[key]
		}
	}
	return best, bestHours
}

// subjectKeys returns an entry's subject keys in deterministic order: the
// closed subject set first, then any unknown keys sorted. Map iteration
// order must never leak into the results.
func subjectKeys(e core.TimeEntry) []string {
	keys := make([]string, 0, len(e.SubjectHours))
	for _, s := range core.Subjects {
		if _, ok := e.SubjectHours[s]; ok {
			keys = append(keys, s)
		}
	}
	var unknown []string
	for s := range e.SubjectHours {
		if !core.IsKnownSubject(s) {
			unknown = append(unknown, s)
		}
	}
	sort.Strings(unknown)
	return append(keys, unknown...)
}

// TotalHours sums every subject of every entry. Negative values are summed
// as-is; validation belongs to the write path, not here.
func TotalHours(entries []core.TimeEntry) float64 {
	var sum float64
	for _, e := range entries {
		sum += e.TotalHours()
	}
	return sum
}

// DominantSubject returns the subject with the largest summed hours, or
// NoData when no subject has positive hours.
func DominantSubject(entries []core.TimeEntry) string {
	t := newTally()
	for _, e := range entries {
		for _, subject := range subjectKeys(e) {
			t.add(subject, e.SubjectHours[subject])
		}
	}
	subject, hours := t.max()
	if subject == "" || hours <= 0 {
		return NoData
	}
	return subject
}

// DominantClient returns the display name of the client with the largest
// summed hours, resolved through the supplied lookup.
func DominantClient(entries []core.TimeEntry, resolve func(clientID string) string) string {
	t := newTally()
	for _, e := range entries {
		t.add(e.ClientID, e.TotalHours())
	}
	clientID, hours := t.max()
	if clientID == "" || hours <= 0 {
		return NoData
	}
	return resolve(clientID)
}

// DistributionByEmployee sums hours per employee, drops zero totals,
// cycles the palette by employee position, and ranks by hours descending.
// The sort is stable: equal totals keep the employees' original order.
func DistributionByEmployee(entries []core.TimeEntry, employees []core.Employee, palette []string) []Row {
	rows := make([]Row, 0, len(employees))
	for i, emp := range employees {
		var hours float64
		for _, e := range entries {
			if e.EmployeeID == emp.ID {
				hours += e.TotalHours()
			}
		}
		if hours <= 0 {
			continue
		}
		rows = append(rows, Row{Name: emp.Name, Hours: hours, Color: colorAt(palette, i)})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Hours > rows[j].Hours })
	return rows
}

// DistributionBySubject sums hours per subject actually worked on. Colors
// follow first-seen order into the grouping, ranking is hours descending.
func DistributionBySubject(entries []core.TimeEntry, palette []string) []Row {
	t := newTally()
	for _, e := range entries {
		for _, subject := range subjectKeys(e) {
			t.add(subject, e.SubjectHours[subject])
		}
	}
	rows := make([]Row, 0, len(t.keys))
	for i, subject := range t.keys {
		if t.totals[subject] <= 0 {
			continue
		}
		rows = append(rows, Row{Name: subject, Hours: t.totals[subject], Color: colorAt(palette, i)})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Hours > rows[j].Hours })
	return rows
}

// ClientTotals sums hours per client, excluding zero totals. Unlike the
// distributions it preserves the caller-supplied client order.
func ClientTotals(entries []core.TimeEntry, clients []core.Client) []ClientTotal {
	out := make([]ClientTotal, 0, len(clients))
	for _, c := range clients {
		var hours float64
		for _, e := range entries {
			if e.ClientID == c.ID {
				hours += e.TotalHours()
			}
		}
		if hours <= 0 {
			continue
		}
		out = append(out, ClientTotal{ID: c.ID, Name: c.Name, Hours: hours})
	}
	return out
}

// FilterByDateRange keeps entries whose calendar date falls inside
// [start, end], both bounds inclusive. Comparison is date-only.
func FilterByDateRange(entries []core.TimeEntry, start, end core.Date) []core.TimeEntry {
	from, to := start.Normalize(), end.Normalize()
	out := make([]core.TimeEntry, 0, len(entries))
	for _, e := range entries {
		d := e.Date.Normalize()
		if d.Before(from.Time) || d.After(to.Time) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// HasEntryOn reports whether the employee logged at least one entry on the
// exact calendar date. Used to mark calendar cells.
func HasEntryOn(entries []core.TimeEntry, employeeID string, date core.Date) bool {
	want := date.String()
	for _, e := range entries {
		if e.EmployeeID == employeeID && e.Date.String() == want {
			return true
		}
	}
	return false
}

// ClientDistributionByEmployee is DistributionByEmployee restricted to one
// client's entries, without the descending ranking (chart order follows
// employee order, matching the per-client detail view).
func ClientDistributionByEmployee(entries []core.TimeEntry, clientID string, employees []core.Employee, palette []string) []Row {
	scoped := onlyClient(entries, clientID)
	rows := make([]Row, 0, len(employees))
	for i, emp := range employees {
		var hours float64
		for _, e := range scoped {
			if e.EmployeeID == emp.ID {
				hours += e.TotalHours()
			}
		}
		if hours <= 0 {
			continue
		}
		rows = append(rows, Row{Name: emp.Name, Hours: hours, Color: colorAt(palette, i)})
	}
	return rows
}

// ClientDistributionBySubject groups one client's entries by subject in
// first-seen order, unranked.
func ClientDistributionBySubject(entries []core.TimeEntry, clientID string, palette []string) []Row {
	t := newTally()
	for _, e := range onlyClient(entries, clientID) {
		for _, subject := range subjectKeys(e) {
			t.add(subject, e.SubjectHours[subject])
		}
	}
	rows := make([]Row, 0, len(t.keys))
	for i, subject := range t.keys {
		if t.totals[subject] <= 0 {
			continue
		}
		rows = append(rows, Row{Name: subject, Hours: t.totals[subject], Color: colorAt(palette, i)})
	}
	return rows
}

func onlyClient(entries []core.TimeEntry, clientID string) []core.TimeEntry {
	out := make([]core.TimeEntry, 0, len(entries))
	for _, e := range entries {
		if e.ClientID == clientID {
			out = append(out, e)
		}
	}
	return out
}

func colorAt(palette []string, i int) string {
	if len(palette) == 0 {
		return ""
	}
	return palette[i%len(palette)]
}
