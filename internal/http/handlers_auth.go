package http

import (
	"errors"
	"log/slog"
	"net/http"

	"pointage/internal/auth"
	"pointage/internal/metrics"
)

const oauthStateCookie = "pointage_oauth_state"

// handleLoginPage renders the login form. When no sign-in method is
// configured the app runs open and the page just links back home.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData(r, "Connexion")
	data.Error = sanitizeInput(r.URL.Query().Get("error"))
	s.renderPage(w, r, "login.html", data)
}

// handleGoogleLogin starts the OAuth authorization-code flow.
func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.google == nil {
		http.Redirect(w, r, "/login?error=Connexion+Google+non+configurée", http.StatusSeeOther)
		return
	}

	state, err := auth.RandomState()
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to generate OAuth state", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, s.google.AuthURL(state), http.StatusSeeOther)
}

// handleGoogleCallback finishes the OAuth flow: verifies state, exchanges
// the code, upserts the employee record, and issues a session.
func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.google == nil || s.sessions == nil {
		http.NotFound(w, r)
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		metrics.ObserveLogin("google", "state_mismatch")
		http.Redirect(w, r, "/login?error=Session+expirée,+réessayez", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		metrics.ObserveLogin("google", "denied")
		http.Redirect(w, r, "/login?error=Connexion+annulée", http.StatusSeeOther)
		return
	}

	profile, err := s.google.Exchange(r.Context(), code)
	if err != nil {
		if errors.Is(err, auth.ErrDomainNotAllowed) {
			metrics.ObserveLogin("google", "domain_rejected")
			http.Redirect(w, r, "/login?error=Compte+hors+du+domaine+autorisé", http.StatusSeeOther)
			return
		}
		metrics.ObserveLogin("google", "error")
		slog.ErrorContext(r.Context(), "Google sign-in failed", "error", err)
		http.Redirect(w, r, "/login?error=Échec+de+la+connexion+Google", http.StatusSeeOther)
		return
	}

	employee, err := auth.EnsureEmployee(r.Context(), s.store, profile.Name, s.cfg.AuthDefaultTitle)
	if err != nil {
		metrics.ObserveLogin("google", "error")
		slog.ErrorContext(r.Context(), "Employee upsert failed on sign-in",
			"error", err, "user_email", profile.Email)
		http.Redirect(w, r, "/login?error=Échec+de+la+connexion", http.StatusSeeOther)
		return
	}

	token, err := s.sessions.Issue(profile.Email, profile.Name, employee.ID)
	if err != nil {
		metrics.ObserveLogin("google", "error")
		slog.ErrorContext(r.Context(), "Session issue failed", "error", err)
		http.Redirect(w, r, "/login?error=Échec+de+la+connexion", http.StatusSeeOther)
		return
	}

	metrics.ObserveLogin("google", "success")
	slog.InfoContext(r.Context(), "User signed in",
		"user_email", profile.Email, "employee_id", employee.ID)

	s.sessions.SetSessionCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handlePasswordLogin is the admin fallback: a single bcrypt-checked
// account configured by environment.
func (s *Server) handlePasswordLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.sessions == nil || !s.password.Enabled() {
		http.Redirect(w, r, "/login?error=Connexion+par+mot+de+passe+désactivée", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/login?error=Formulaire+invalide", http.StatusSeeOther)
		return
	}

	user := sanitizeInput(r.Form.Get("username"))
	password := r.Form.Get("password")

	if err := s.password.Verify(user, password); err != nil {
		metrics.ObserveLogin("password", "failure")
		slog.WarnContext(r.Context(), "Password login failed", "user", user)
		http.Redirect(w, r, "/login?error=Identifiants+invalides", http.StatusSeeOther)
		return
	}

	token, err := s.sessions.Issue(user, user, "")
	if err != nil {
		metrics.ObserveLogin("password", "error")
		slog.ErrorContext(r.Context(), "Session issue failed", "error", err)
		http.Redirect(w, r, "/login?error=Échec+de+la+connexion", http.StatusSeeOther)
		return
	}

	metrics.ObserveLogin("password", "success")
	s.sessions.SetSessionCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
