// Package http serves the web UI and the JSON API.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pointage/internal/auth"
	"pointage/internal/cache"
	"pointage/internal/config"
	"pointage/internal/middleware/ratelimit"
	"pointage/internal/middleware/security"
	"pointage/internal/middleware/trace"
	"pointage/internal/services"
	"pointage/internal/store"
	appweb "pointage/web"
)

type Server struct {
	http.Server

	store     store.Store
	service   *services.RecordService
	templates *template.Template

	sessions *auth.SessionManager
	google   *auth.GoogleAuthenticator
	password *auth.PasswordVerifier
	cfg      *config.Config

	// Dashboard snapshots are cached per (start,end,view) key and cleared
	// on every record write.
	dashCache    *cache.LRUCache[DashboardResponse]
	cacheManager *cache.Manager

	detector    *security.Detector
	rateLimiter *ratelimit.Limiter

	shutdownOnce sync.Once
}

// NewServer configures routes, middleware, and templates, returning a
// ready-to-run server.
func NewServer(cfg *config.Config, st store.Store, svc *services.RecordService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		store:       st,
		service:     svc,
		cfg:         cfg,
		detector:    security.NewDetector(),
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		dashCache:   cache.NewLRUCache[DashboardResponse](100, 5*time.Minute),
	}

	if cfg.AuthEnabled() {
		s.sessions = auth.NewSessionManager(
			cfg.AuthSessionSecret,
			"pointage",
			time.Duration(cfg.AuthSessionTTLHours)*time.Hour,
		)
	}
	if cfg.GoogleAuthEnabled() {
		s.google = auth.NewGoogleAuthenticator(
			cfg.AuthGoogleClientID,
			cfg.AuthGoogleClientSecret,
			cfg.AuthGoogleRedirectURL,
			cfg.AuthAllowedDomain,
		)
	}
	s.password = auth.NewPasswordVerifier(cfg.AuthAdminUser, cfg.AuthAdminPasswordHash)

	s.cacheManager = cache.NewManager()
	s.cacheManager.Register(s.dashCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	// Probes and metrics stay outside the middleware chain.
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	// Login endpoints must be reachable without a session.
	mux.HandleFunc("/login", s.handleLoginPage)
	mux.HandleFunc("/login/password", s.handlePasswordLogin)
	mux.HandleFunc("/auth/google", s.handleGoogleLogin)
	mux.HandleFunc("/auth/google/callback", s.handleGoogleCallback)
	mux.HandleFunc("/logout", s.handleLogout)

	protected := http.NewServeMux()
	protected.HandleFunc("/", s.handleIndex)
	protected.HandleFunc("/employes", s.handleEmployeesPage)
	protected.HandleFunc("/clients", s.handleClientsPage)
	protected.HandleFunc("/saisies", s.handleEntriesPage)
	protected.HandleFunc("/api/employees", s.handleEmployees)
	protected.HandleFunc("/api/employees/", s.handleEmployeeByID)
	protected.HandleFunc("/api/clients", s.handleClients)
	protected.HandleFunc("/api/clients/", s.handleClientByID)
	protected.HandleFunc("/api/entries", s.handleEntries)
	protected.HandleFunc("/api/entries/", s.handleEntryByID)
	protected.HandleFunc("/api/dashboard", s.handleDashboard)

	var app http.Handler = protected
	if s.sessions != nil {
		app = auth.Middleware(s.sessions)(app)
	}
	mux.Handle("/", app)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(s.detector.ExtractClientIP)
	limited := s.rateLimiter.Middleware(s.detector.ExtractClientIP, nil)

	handler := headers.Middleware(limited(tracer.Middleware(s.screen(mux))))

	s.Server = http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// screen rejects requests the detector flags as hostile probes.
func (s *Server) screen(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			slog.WarnContext(r.Context(), "Blocked suspicious request",
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", s.detector.ExtractClientIP(r))
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// invalidateDashboards drops every cached dashboard snapshot.
func (s *Server) invalidateDashboards() {
	s.dashCache.Clear()
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
