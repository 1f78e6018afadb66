// Package web serves rendered menus over HTTP for previewing.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/alexanderramin/sitemenu/internal/domain"
	"github.com/alexanderramin/sitemenu/internal/navigation"
	"github.com/alexanderramin/sitemenu/internal/render"
	"github.com/alexanderramin/sitemenu/internal/repository"
	"github.com/alexanderramin/sitemenu/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouteHeader carries the request-bound route hint for page menus.
const RouteHeader = "X-Route-Name"

// DefaultSite selects the default site in a /sites/{site} path.
const DefaultSite = "_"

// Options configures a Server.
type Options struct {
	Addr         string
	BaseURL      string
	CurrentClass string
	Metrics      http.Handler
	Logger       *slog.Logger
}

// Server is the preview HTTP server.
type Server struct {
	Addr   string
	router *chi.Mux
	server *http.Server

	sites  service.SiteService
	nav    service.NavigationService
	opts   Options
	logger *slog.Logger
}

// NewServer creates a preview server.
func NewServer(sites service.SiteService, nav service.NavigationService, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		Addr:   opts.Addr,
		router: chi.NewRouter(),
		sites:  sites,
		nav:    nav,
		opts:   opts,
		logger: logger,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/sites/{site}/menus/{position}", s.handleMenu)
	s.router.Get("/sites/{site}/pages/menu", s.handlePageMenu)
	if s.opts.Metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
}

// statusFor maps projection and lookup errors to HTTP status codes.
func statusFor(err error) int {
	var cfgErr *navigation.ConfigurationError
	var nfErr *navigation.NotFoundError
	switch {
	case errors.As(err, &cfgErr):
		return http.StatusBadRequest
	case errors.As(err, &nfErr), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

func (s *Server) resolveSite(r *http.Request) (*domain.Site, error) {
	name := chi.URLParam(r, "site")
	if name == DefaultSite {
		name = ""
	}
	return s.sites.Resolve(r.Context(), name)
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	site, err := s.resolveSite(r)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	q := r.URL.Query()
	attrs, err := ParseAttributes(q["attr"])
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	position := chi.URLParam(r, "position")
	tree, err := s.nav.MenuTree(r.Context(), service.MenuTreeRequest{
		Site:        site,
		Position:    position,
		RequestPath: q.Get("path"),
		BaseURL:     s.opts.BaseURL,
		Attributes:  attrs,
	})
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeTree(w, r, site.Name+" · "+position, tree)
}

func (s *Server) handlePageMenu(w http.ResponseWriter, r *http.Request) {
	site, err := s.resolveSite(r)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	q := r.URL.Query()
	path := q.Get("path")
	tree, err := s.nav.PageTree(r.Context(), service.PageTreeRequest{
		Site:  site,
		URL:   q.Get("url"),
		Route: q.Get("route"),
		Context: navigation.RequestContext{
			Path:  path,
			Route: r.Header.Get(RouteHeader),
		},
		RequestPath: path,
		BaseURL:     s.opts.BaseURL,
	})
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeTree(w, r, site.Name+" · pages", tree)
}

func (s *Server) writeTree(w http.ResponseWriter, r *http.Request, title string, tree *navigation.RenderNode) {
	switch format := r.URL.Query().Get("format"); format {
	case "json":
		w.Header().Set("Content-Type", "application/json")
		if err := render.WriteJSON(w, tree); err != nil {
			s.logger.Error("writing json menu", "error", err)
		}
	case "", "html":
		page := render.Document(title, render.Menu(tree, render.HTMLOptions{CurrentClass: s.opts.CurrentClass}))
		templ.Handler(page).ServeHTTP(w, r)
	default:
		s.writeError(w, http.StatusBadRequest, errors.New("format must be html or json"))
	}
}

// ParseAttributes reads repeated key=value pairs into a map. No pairs
// yields a nil map.
func ParseAttributes(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	attrs := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, errors.New("attributes must be key=value pairs")
		}
		attrs[k] = v
	}
	return attrs, nil
}
