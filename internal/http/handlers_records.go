package http

import (
	"net/http"
	"strings"

	"pointage/internal/amqp"
	"pointage/internal/core"
	"pointage/internal/metrics"
	"pointage/internal/report"
)

// handleEmployees serves the employee collection: list and create.
func (s *Server) handleEmployees(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		employees, err := s.store.ListEmployees(r.Context())
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, employees)

	case http.MethodPost:
		var in core.Employee
		if err := decodeJSON(w, r, &in); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		in.ID = ""
		in.Name = sanitizeInput(in.Name)
		in.Title = sanitizeInput(in.Title)

		created, err := s.service.CreateEmployee(r.Context(), in)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		s.invalidateDashboards()
		metrics.ObserveRecordWrite(amqp.KindEmployee, amqp.ActionCreated)
		writeJSON(w, http.StatusCreated, created)

	default:
		w.Header().Set("Allow", "GET, POST")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleEmployeeByID serves one employee: update and delete.
func (s *Server) handleEmployeeByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/employees/")
	if id == "" || strings.Contains(id, "/") {
		writeJSONError(w, http.StatusNotFound, "record not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var in core.Employee
		if err := decodeJSON(w, r, &in); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		in.ID = id
		in.Name = sanitizeInput(in.Name)
		in.Title = sanitizeInput(in.Title)

		updated, err := s.service.UpdateEmployee(r.Context(), in)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		s.invalidateDashboards()
		metrics.ObserveRecordWrite(amqp.KindEmployee, amqp.ActionUpdated)
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.service.DeleteEmployee(r.Context(), id); err != nil {
			writeStoreError(w, r, err)
			return
		}
		s.invalidateDashboards()
		metrics.ObserveRecordWrite(amqp.KindEmployee, amqp.ActionDeleted)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", "PUT, DELETE")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleClients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		clients, err := s.store.ListClients(r.Context())
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, clients)

	case http.MethodPost:
		var in core.Client
		if err := decodeJSON(w, r, &in); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		in.ID = ""
		in.Name = sanitizeInput(in.Name)

		created, err := s.service.CreateClient(r.Context(), in)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		s.invalidateDashboards()
		metrics.ObserveRecordWrite(amqp.KindClient, amqp.ActionCreated)
		writeJSON(w, http.StatusCreated, created)

	default:
		w.Header().Set("Allow", "GET, POST")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleClientByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/clients/")
	if id == "" || strings.Contains(id, "/") {
		writeJSONError(w, http.StatusNotFound, "record not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var in core.Client
		if err := decodeJSON(w, r, &in); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		in.ID = id
		in.Name = sanitizeInput(in.Name)

		updated, err := s.service.UpdateClient(r.Context(), in)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		s.invalidateDashboards()
		metrics.ObserveRecordWrite(amqp.KindClient, amqp.ActionUpdated)
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		// Entries referencing this client survive; the dashboard shows
		// them under "Inconnu".
		if err := s.service.DeleteClient(r.Context(), id); err != nil {
			writeStoreError(w, r, err)
			return
		}
		s.invalidateDashboards()
		metrics.ObserveRecordWrite(amqp.KindClient, amqp.ActionDeleted)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", "PUT, DELETE")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		entries, err := s.store.ListEntries(r.Context())
		if err != nil {
			writeStoreError(w, r, err)
			return
		}

		// Optional date-range filter, same params as the dashboard.
		if r.URL.Query().Get("start") != "" || r.URL.Query().Get("end") != "" {
			start, end := parseRange(r)
			entries = report.FilterByDateRange(entries, start, end)
		}
		writeJSON(w, http.StatusOK, entries)

	case http.MethodPost:
		var in core.TimeEntry
		if err := decodeJSON(w, r, &in); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		in.ID = ""

		created, err := s.service.CreateEntry(r.Context(), in)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		s.invalidateDashboards()
		metrics.ObserveRecordWrite(amqp.KindTimeEntry, amqp.ActionCreated)
		writeJSON(w, http.StatusCreated, created)

	default:
		w.Header().Set("Allow", "GET, POST")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleEntryByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/entries/")
	if id == "" || strings.Contains(id, "/") {
		writeJSONError(w, http.StatusNotFound, "record not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var in core.TimeEntry
		if err := decodeJSON(w, r, &in); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		in.ID = id

		updated, err := s.service.UpdateEntry(r.Context(), in)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		s.invalidateDashboards()
		metrics.ObserveRecordWrite(amqp.KindTimeEntry, amqp.ActionUpdated)
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.service.DeleteEntry(r.Context(), id); err != nil {
			writeStoreError(w, r, err)
			return
		}
		s.invalidateDashboards()
		metrics.ObserveRecordWrite(amqp.KindTimeEntry, amqp.ActionDeleted)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", "PUT, DELETE")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
