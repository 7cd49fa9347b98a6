package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"pointage/internal/core"
	"pointage/internal/metrics"
	"pointage/internal/report"
)

// DashboardResponse is the full dashboard snapshot for one date range
// and one distribution view.
type DashboardResponse struct {
	Start           string             `json:"start"`
	End             string             `json:"end"`
	View            string             `json:"view"`
	TotalHours      float64            `json:"totalHours"`
	EntryCount      int                `json:"entryCount"`
	DominantSubject string             `json:"dominantSubject"`
	DominantClient  string             `json:"dominantClient"`
	Distribution    []report.Row       `json:"distribution"`
	Clients         []ClientDetail     `json:"clients"`
	Calendars       []EmployeeCalendar `json:"calendars"`
	Message         string             `json:"message,omitempty"`
}

// ClientDetail carries one client's total and its per-view breakdown.
type ClientDetail struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Hours        float64      `json:"hours"`
	Distribution []report.Row `json:"distribution"`
}

// EmployeeCalendar lists the days in range on which an employee logged
// hours.
type EmployeeCalendar struct {
	EmployeeID string   `json:"employeeId"`
	Name       string   `json:"name"`
	Days       []string `json:"days"`
}

// handleDashboard builds the aggregated dashboard for a date range.
// Query params: start, end ("2006-01-02", defaulting to the current
// month) and view ("employee" or "subject").
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start, end := parseRange(r)
	view := r.URL.Query().Get("view")
	if view != "subject" {
		view = "employee"
	}

	key := start.String() + "|" + end.String() + "|" + view
	if snapshot, found := s.dashCache.Get(key); found {
		metrics.ObserveCacheLookup("hit")
		snapshot.Message = randomMessage()
		writeJSON(w, http.StatusOK, snapshot)
		return
	}
	metrics.ObserveCacheLookup("miss")

	began := time.Now()
	snapshot, err := s.buildDashboard(r.Context(), start, end, view)
	if err != nil {
		metrics.ObserveDashboardBuild("error", time.Since(began))
		slog.ErrorContext(r.Context(), "Dashboard build failed",
			"error", err, "start", start.String(), "end", end.String())
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	metrics.ObserveDashboardBuild("ok", time.Since(began))

	s.dashCache.Set(key, snapshot)

	snapshot.Message = randomMessage()
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) buildDashboard(ctx context.Context, start, end core.Date, view string) (DashboardResponse, error) {
	var (
		employees []core.Employee
		clients   []core.Client
		entries   []core.TimeEntry
	)

	// The three snapshots are independent reads, fetched in parallel.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = s.store.ListEmployees(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		clients, err = s.store.ListClients(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.store.ListEntries(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardResponse{}, err
	}

	inRange := report.FilterByDateRange(entries, start, end)

	clientName := func(id string) string {
		for _, c := range clients {
			if c.ID == id {
				return c.Name
			}
		}
		return core.UnknownName
	}

	resp := DashboardResponse{
		Start:           start.String(),
		End:             end.String(),
		View:            view,
		TotalHours:      report.TotalHours(inRange),
		EntryCount:      len(inRange),
		DominantSubject: report.DominantSubject(inRange),
		DominantClient:  report.DominantClient(inRange, clientName),
	}

	if view == "subject" {
		resp.Distribution = report.DistributionBySubject(inRange, report.PaletteBlue)
	} else {
		resp.Distribution = report.DistributionByEmployee(inRange, employees, report.PaletteOrange)
	}

	// Per-client cards follow the clients' listing order; zero-hour
	// clients are dropped.
	for _, total := range report.ClientTotals(inRange, clients) {
		detail := ClientDetail{
			ID:    total.ID,
			Name:  total.Name,
			Hours: total.Hours,
		}
		if view == "subject" {
			detail.Distribution = report.ClientDistributionBySubject(inRange, total.ID, report.PaletteBlue)
		} else {
			detail.Distribution = report.ClientDistributionByEmployee(inRange, total.ID, employees, report.PaletteOrange)
		}
		resp.Clients = append(resp.Clients, detail)
	}

	resp.Calendars = buildCalendars(inRange, employees, start, end)

	return resp, nil
}

// buildCalendars walks the range day by day per employee. Ranges are a
// month or so in practice, the quadratic scan is fine.
func buildCalendars(entries []core.TimeEntry, employees []core.Employee, start, end core.Date) []EmployeeCalendar {
	calendars := make([]EmployeeCalendar, 0, len(employees))
	for _, emp := range employees {
		cal := EmployeeCalendar{EmployeeID: emp.ID, Name: emp.Name}
		for d := start.Normalize(); !d.After(end.Normalize().Time); d = core.DateOf(d.AddDate(0, 0, 1)) {
			if report.HasEntryOn(entries, emp.ID, d) {
				cal.Days = append(cal.Days, d.String())
			}
		}
		calendars = append(calendars, cal)
	}
	return calendars
}
