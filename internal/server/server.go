// Package server exposes the building resolver over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/campusbot/whereis/internal/asset"
	"github.com/campusbot/whereis/internal/command"
	"github.com/campusbot/whereis/internal/normalize"
	"github.com/campusbot/whereis/internal/reload"
	"github.com/campusbot/whereis/internal/resolve"
)

// Config configures the HTTP API.
type Config struct {
	Port         int
	RateLimit    float64
	Burst        int
	CORSOrigins  []string
	ImageBaseURL string
	ImageExt     string
	Suggestions  int
	Prefix       string
}

// Server routes HTTP requests to the live resolver.
type Server struct {
	cfg        Config
	holder     *reload.Holder
	dispatcher *command.Dispatcher
	metrics    *Metrics
	router     chi.Router
}

// New builds the router. A nil Metrics gets a fresh registry.
func New(holder *reload.Holder, cfg Config, metrics *Metrics) *Server {
	if metrics == nil {
		metrics = NewMetrics()
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 20
	}
	if cfg.Burst < 1 {
		cfg.Burst = 40
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	s := &Server{
		cfg:     cfg,
		holder:  holder,
		metrics: metrics,
	}
	s.dispatcher = command.New(holder, command.Config{
		Prefix:       cfg.Prefix,
		ImageBaseURL: cfg.ImageBaseURL,
		ImageExt:     cfg.ImageExt,
		Suggestions:  cfg.Suggestions,
		OnResolve:    metrics.ObserveResolve,
	})
	metrics.SetCatalog(holder.Resolver())

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(accessLog(metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(rateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst)))
		r.Get("/buildings", s.handleList)
		r.Get("/buildings/{code}", s.handleBuilding)
		r.Get("/resolve", s.handleResolve)
		r.Post("/command", s.handleCommand)
	})

	s.router = r
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the collectors the server records into.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Run listens on the configured port until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+strconv.Itoa(s.cfg.Port))
	if err != nil {
		return eris.Wrapf(err, "server: listen on port %d", s.cfg.Port)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("server: listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return eris.Wrap(err, "server: serve")
	case <-ctx.Done():
	}

	zap.L().Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "server: shutdown")
	}
	<-errCh
	return nil
}

func (s *Server) imageURL(code string) string {
	return asset.ImageURL(s.cfg.ImageBaseURL, code, s.cfg.ImageExt)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"buildings": s.holder.Resolver().Catalog().Len(),
	})
}

type listResponse struct {
	Codes     []string `json:"codes"`
	FullNames []string `json:"full_names"`
}

func (s *Server) listResponse() listResponse {
	codes, names := s.holder.ListAll()
	return listResponse{Codes: codes, FullNames: names}
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.listResponse())
}

type buildingResponse struct {
	Code     string   `json:"code"`
	FullName string   `json:"full_name"`
	Aliases  []string `json:"aliases,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
}

func (s *Server) handleBuilding(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	b, ok := s.holder.Resolver().Catalog().GetByCode(code)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown building code")
		return
	}
	writeJSON(w, http.StatusOK, buildingResponse{
		Code:     b.Code,
		FullName: b.FullName,
		Aliases:  b.Aliases,
		ImageURL: s.imageURL(b.Code),
	})
}

type resolveResponse struct {
	resolve.MatchResult
	Query       string   `json:"query"`
	ImageURL    string   `json:"image_url,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if normalize.Key(q) == command.ListQuery {
		writeJSON(w, http.StatusOK, s.listResponse())
		return
	}

	m := s.holder.ResolveOne(q)
	s.metrics.ObserveResolve(m)

	resp := resolveResponse{MatchResult: m, Query: q}
	if m.Found {
		resp.ImageURL = s.imageURL(m.Code)
	} else if s.cfg.Suggestions > 0 {
		resp.Suggestions = s.holder.Suggest(q, s.cfg.Suggestions)
	}
	writeJSON(w, http.StatusOK, resp)
}

type commandRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, ok := s.dispatcher.Handle(req.Message)
	if !ok {
		writeError(w, http.StatusNotFound, "not a command")
		return
	}
	writeJSON(w, http.StatusOK, reply)
}
