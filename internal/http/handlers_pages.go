package http

import (
	"log/slog"
	"net/http"
	"time"

	"pointage/internal/auth"
	"pointage/internal/core"
)

type pageData struct {
	Title     string
	UserName  string
	UserEmail string
	Subjects  []string
	Today     string
	Error     string
}

func (s *Server) newPageData(r *http.Request, title string) pageData {
	data := pageData{
		Title:    title,
		Subjects: core.Subjects,
		Today:    core.DateOf(time.Now()).String(),
	}
	if claims := auth.SessionFromContext(r.Context()); claims != nil {
		data.UserName = claims.Name
		data.UserEmail = claims.Email
	}
	return data
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
		http.Error(w, "rendering error", http.StatusInternalServerError)
	}
}

// handleIndex renders the dashboard page. The page fetches its data from
// /api/dashboard client-side.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.renderPage(w, r, "index.html", s.newPageData(r, "Tableau de bord"))
}

func (s *Server) handleEmployeesPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "employees.html", s.newPageData(r, "Employés"))
}

func (s *Server) handleClientsPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "clients.html", s.newPageData(r, "Clients"))
}

func (s *Server) handleEntriesPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "entries.html", s.newPageData(r, "Saisies"))
}
