package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pointage/internal/core"
)

func entry(date, employeeID, clientID string, hours map[string]float64) core.TimeEntry {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return core.TimeEntry{Date: d, EmployeeID: employeeID, ClientID: clientID, SubjectHours: hours}
}

func sampleEntries() []core.TimeEntry {
	return []core.TimeEntry{
		entry("2024-03-01", "e1", "c1", map[string]float64{"HSE": 2, "Recrutement": 0}),
		entry("2024-03-02", "e1", "c1", map[string]float64{"HSE": 1}),
	}
}

func TestTotalHours(t *testing.T) {
	tests := []struct {
		name    string
		entries []core.TimeEntry
		want    float64
	}{
		{name: "empty list", entries: nil, want: 0},
		{name: "spec example", entries: sampleEntries(), want: 3},
		{name: "multiple subjects per entry", entries: []core.TimeEntry{
			entry("2024-03-01", "e1", "c1", map[string]float64{"HSE": 2, "Formation": 1.5}),
			entry("2024-03-01", "e2", "c2", map[string]float64{"Prospection": 4}),
		}, want: 7.5},
		{name: "negative hours pass through unclamped", entries: []core.TimeEntry{
			entry("2024-03-01", "e1", "c1", map[string]float64{"HSE": -2}),
			entry("2024-03-02", "e1", "c1", map[string]float64{"HSE": 5}),
		}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalHours(tt.entries))
		})
	}
}

func TestTotalHoursOrderIndependent(t *testing.T) {
	a := entry("2024-03-01", "e1", "c1", map[string]float64{"HSE": 2})
	b := entry("2024-03-02", "e2", "c2", map[string]float64{"Formation": 3})
	c := entry("2024-03-03", "e3", "c1", map[string]float64{"Prospection": 0.5})

	assert.Equal(t, TotalHours([]core.TimeEntry{a, b, c}), TotalHours([]core.TimeEntry{c, a, b}))
}

func TestDominantSubject(t *testing.T) {
	t.Run("spec example", func(t *testing.T) {
		assert.Equal(t, "HSE", DominantSubject(sampleEntries()))
	})

	t.Run("empty list yields sentinel", func(t *testing.T) {
		assert.Equal(t, NoData, DominantSubject(nil))
	})

	t.Run("all zero hours yields sentinel", func(t *testing.T) {
		entries := []core.TimeEntry{
			entry("2024-03-01", "e1", "c1", map[string]float64{"HSE": 0, "Formation": 0}),
		}
		assert.Equal(t, NoData, DominantSubject(entries))
	})

	t.Run("ties resolve to first-seen subject", func(t *testing.T) {
		// HSE precedes Prospection in the closed subject order, so it is
		// accumulated first and keeps priority on equal totals.
		entries := []core.TimeEntry{
			entry("2024-03-01", "e1", "c1", map[string]float64{"HSE": 2, "Prospection": 2}),
		}
		assert.Equal(t, "HSE", DominantSubject(entries))
	})

	t.Run("returned subject is present with nonzero hours", func(t *testing.T) {
		entries := []core.TimeEntry{
			entry("2024-03-01", "e1", "c1", map[string]float64{"Recrutement": 0, "Formation": 1}),
		}
		assert.Equal(t, "Formation", DominantSubject(entries))
	})
}

func TestDominantClient(t *testing.T) {
	names := map[string]string{"c1": "Acme", "c2": "Globex"}
	resolve := func(id string) string {
		if n, ok := names[id]; ok {
			return n
		}
		return core.UnknownName
	}

	t.Run("largest total wins", func(t *testing.T) {
		entries := []core.TimeEntry{
			entry("2024-03-01", "e1", "c1", map[string]float64{"HSE": 2}),
			entry("2024-03-02", "e1", "c2", map[string]float64{"HSE": 5}),
		}
		assert.Equal(t, "Globex", DominantClient(entries, resolve))
	})

	t.Run("tie keeps first-seen client", func(t *testing.T) {
		entries := []core.TimeEntry{
			entry("2024-03-01", "e1", "c2", map[string]float64{"HSE": 3}),
			entry("2024-03-02", "e1", "c1", map[string]float64{"HSE": 3}),
		}
		assert.Equal(t, "Globex", DominantClient(entries, resolve))
	})

	t.Run("empty list yields sentinel without calling resolver", func(t *testing.T) {
		assert.Equal(t, NoData, DominantClient(nil, func(string) string {
			t.Fatal("resolver must not be called on empty input")
			return ""
		}))
	})

	t.Run("orphaned client id resolves through lookup", func(t *testing.T) {
		entries := []core.TimeEntry{
			entry("2024-03-01", "e1", "deleted", map[string]float64{"HSE": 1}),
		}
		assert.Equal(t, core.UnknownName, DominantClient(entries, resolve))
	})
}

func TestDistributionByEmployee(t *testing.T) {
	employees := []core.Employee{
		{ID: "e1", Name: "Nadia", Title: "Consultante RH"},
		{ID: "e2", Name: "Karim", Title: "Consultant RH"},
		{ID: "e3", Name: "Sofia", Title: "Juriste"},
	}
	entries := []core.TimeEntry{
		entry("2024-03-01", "e1", "c1", map[string]float64{"HSE": 2}),
		entry("2024-03-02", "e2", "c1", map[string]float64{"Formation": 6}),
		entry("2024-03-03", "e1", "c2", map[string]float64{"Prospection": 1}),
	}

	rows := DistributionByEmployee(entries, employees, PaletteOrange)

	require.Len(t, rows, 2, "employees with zero hours must be excluded")
	assert.Equal(t, "Karim", rows[0].Name)
	assert.Equal(t, 6.0, rows[0].Hours)
	assert.Equal(t, "Nadia", rows[1].Name)
	assert.Equal(t, 3.0, rows[1].Hours)

	// Colors follow the employee's position in the input, not the rank.
	assert.Equal(t, PaletteOrange[1], rows[0].Color)
	assert.Equal(t, PaletteOrange[0], rows[1].Color)

	for _, r := range rows {
		assert.Greater(t, r.Hours, 0.0)
	}
}

func TestDistributionByEmployeePaletteWraps(t *testing.T) {
	palette := []string{"#111111", "#222222"}
	employees := []core.Employee{
		{ID: "e1", Name: "A", Title: "t"},
		{ID: "e2", Name: "B", Title: "t"},
		{ID: "e3", Name: "C", Title: "t"},
	}
	entries := []core.TimeEntry{
		entry("2024-03-01", "e1", "c1", map[string]float64{"HSE": 3}),
		entry("2024-03-01", "e2", "c1", map[string]float64{"HSE": 2}),
		entry("2024-03-01", "e3", "c1", map[string]float64{"HSE": 1}),
	}

	rows := DistributionByEmployee(entries, employees, palette)

	require.Len(t, rows, 3)
	assert.Equal(t, "#111111", rows[0].Color) // e1, index 0
	assert.Equal(t, "#222222", rows[1].Color) // e2, index 1
	assert.Equal(t, "#111111", rows[2].Color) // e3, index 2 wraps
}

func TestDistributionBySubject(t *testing.T) {
	entries := []core.TimeEntry{
		entry("2024-03-01", "e1", "c1", map[string]float64{"HSE": 2, "Recrutement": 0}),
		entry("2024-03-02", "e2", "c1", map[string]float64{"Formation": 5, "HSE": 1}),
	}

	rows := DistributionBySubject(entries, PaletteBlue)

	require.Len(t, rows, 2, "zero-hour subjects must not appear")
	assert.Equal(t, "Formation", rows[0].Name)
	assert.Equal(t, 5.0, rows[0].Hours)
	assert.Equal(t, "HSE", rows[1].Name)
	assert.Equal(t, 3.0, rows[1].Hours)
}

func TestDistributionBySubjectRoundTrip(t *testing.T) {
	// Summing the distribution equals TotalHours for non-negative input.
	entries := []core.TimeEntry{
		entry("2024-03-01", "e1", "c1", map[string]float64{"HSE": 2, "Formation": 1.5}),
		entry("2024-03-02", "e2", "c2", map[string]float64{"Prospection": 4}),
		entry("2024-03-03", "e1", "c1", map[string]float64{"HSE": 0.5}),
	}

	var sum float64
	for _, r := range DistributionBySubject(entries, PaletteBlue) {
		sum += r.Hours
	}
	assert.Equal(t, TotalHours(entries), sum)
}

func TestDistributionBySubjectDeterministic(t *testing.T) {
	entries := []core.TimeEntry{
		entry("2024-03-01", "e1", "c1", map[string]float64{"HSE": 2, "Formation": 2, "Prospection": 2}),
	}

	first := DistributionBySubject(entries, PaletteBlue)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, DistributionBySubject(entries, PaletteBlue))
	}
}

func TestClientTotals(t *testing.T) {
	clients := []core.Client{
		{ID: "c2", Name: "Globex"},
		{ID: "c1", Name: "Acme"},
		{ID: "c3", Name: "Initech"},
	}
	entries := []core.TimeEntry{
		entry("2024-03-01", "e1", "c1", map[string]float64{"HSE": 2}),
		entry("2024-03-02", "e1", "c1", map[string]float64{"HSE": 1}),
		entry("2024-03-02", "e2", "c2", map[string]float64{"Formation": 4}),
	}

	totals := ClientTotals(entries, clients)

	require.Len(t, totals, 2, "zero-hour clients must be excluded")
	// Caller-supplied order is preserved, no ranking.
	assert.Equal(t, ClientTotal{ID: "c2", Name: "Globex", Hours: 4}, totals[0])
	assert.Equal(t, ClientTotal{ID: "c1", Name: "Acme", Hours: 3}, totals[1])
}

func TestClientTotalsSpecExample(t *testing.T) {
	totals := ClientTotals(sampleEntries(), []core.Client{{ID: "c1", Name: "Acme"}})
	require.Len(t, totals, 1)
	assert.Equal(t, ClientTotal{ID: "c1", Name: "Acme", Hours: 3}, totals[0])
}

func TestFilterByDateRange(t *testing.T) {
	entries := []core.TimeEntry{
		entry("2024-02-29", "e1", "c1", map[string]float64{"HSE": 1}),
		entry("2024-03-01", "e1", "c1", map[string]float64{"HSE": 1}),
		entry("2024-03-15", "e1", "c1", map[string]float64{"HSE": 1}),
		entry("2024-03-31", "e1", "c1", map[string]float64{"HSE": 1}),
		entry("2024-04-01", "e1", "c1", map[string]float64{"HSE": 1}),
	}

	t.Run("both bounds inclusive", func(t *testing.T) {
		got := FilterByDateRange(entries, core.NewDate(2024, 3, 1), core.NewDate(2024, 3, 31))
		require.Len(t, got, 3)
		assert.Equal(t, "2024-03-01", got[0].Date.String())
		assert.Equal(t, "2024-03-31", got[2].Date.String())
	})

	t.Run("single-day range matches exact date only", func(t *testing.T) {
		d := core.NewDate(2024, 3, 15)
		got := FilterByDateRange(entries, d, d)
		require.Len(t, got, 1)
		assert.Equal(t, "2024-03-15", got[0].Date.String())
	})

	t.Run("time-of-day on bounds is normalized away", func(t *testing.T) {
		// 01:30 on the boundary day must not exclude that day's entries.
		noisy := core.Date{Time: core.NewDate(2024, 3, 31).Add(90 * time.Minute)}
		got := FilterByDateRange(entries, core.NewDate(2024, 3, 1), noisy)
		assert.Len(t, got, 3)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, FilterByDateRange(nil, core.NewDate(2024, 3, 1), core.NewDate(2024, 3, 31)))
	})
}

func TestHasEntryOn(t *testing.T) {
	entries := sampleEntries()

	assert.True(t, HasEntryOn(entries, "e1", core.NewDate(2024, 3, 1)))
	assert.True(t, HasEntryOn(entries, "e1", core.NewDate(2024, 3, 2)))
	assert.False(t, HasEntryOn(entries, "e1", core.NewDate(2024, 3, 3)))
	assert.False(t, HasEntryOn(entries, "e2", core.NewDate(2024, 3, 1)))
	assert.False(t, HasEntryOn(nil, "e1", core.NewDate(2024, 3, 1)))
}

func TestClientDistributions(t *testing.T) {
	employees := []core.Employee{
		{ID: "e1", Name: "Nadia", Title: "Consultante RH"},
		{ID: "e2", Name: "Karim", Title: "Consultant RH"},
	}
	entries := []core.TimeEntry{
		entry("2024-03-01", "e1", "c1", map[string]float64{"HSE": 2}),
		entry("2024-03-02", "e2", "c1", map[string]float64{"Formation": 6}),
		entry("2024-03-03", "e1", "c2", map[string]float64{"Prospection": 9}),
	}

	t.Run("by employee keeps employee order", func(t *testing.T) {
		rows := ClientDistributionByEmployee(entries, "c1", employees, PaletteOrange)
		require.Len(t, rows, 2)
		assert.Equal(t, "Nadia", rows[0].Name)
		assert.Equal(t, 2.0, rows[0].Hours)
		assert.Equal(t, "Karim", rows[1].Name)
		assert.Equal(t, 6.0, rows[1].Hours)
	})

	t.Run("by subject scopes to the client", func(t *testing.T) {
		rows := ClientDistributionBySubject(entries, "c2", PaletteBlue)
		require.Len(t, rows, 1)
		assert.Equal(t, "Prospection", rows[0].Name)
		assert.Equal(t, 9.0, rows[0].Hours)
	})

	t.Run("unknown client yields no rows", func(t *testing.T) {
		assert.Empty(t, ClientDistributionByEmployee(entries, "cX", employees, PaletteOrange))
		assert.Empty(t, ClientDistributionBySubject(entries, "cX", PaletteBlue))
	})
}
