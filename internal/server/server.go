package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"viidemo/internal/config"
	"viidemo/internal/gallery"
	"viidemo/internal/logging"
	"viidemo/internal/manifest"
	"viidemo/internal/prompttext"
	"viidemo/internal/site"
)

const requestIDHeader = "X-Request-ID"

// Server serves gallery pages, card fragments, embedded assets and the site
// root.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	client   *http.Client
	loader   *manifest.Loader
	aspects  gallery.AspectSource
	renderer *site.Renderer
	sessions *sessionStore
	handler  http.Handler

	listener net.Listener
	server   *http.Server
}

// Option customizes a Server.
type Option func(*Server)

// WithHTTPClient sets the client used for manifest and prompt fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Server) {
		if client != nil {
			s.client = client
		}
	}
}

// WithAspectSource overrides the aspect source used when media.probe_aspect
// is enabled.
func WithAspectSource(src gallery.AspectSource) Option {
	return func(s *Server) { s.aspects = src }
}

// New wires a Server from configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server: config is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	renderer, err := site.NewRenderer()
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:      cfg,
		logger:   logger.With(logging.String(logging.FieldComponent, "preview-server")),
		client:   http.DefaultClient,
		renderer: renderer,
		sessions: newSessionStore(cfg.Server.MaxSessions),
	}
	for _, opt := range opts {
		opt(s)
	}
	base := cfg.AssetBase()
	s.loader = manifest.NewLoader(s.client, base)
	if cfg.Media.ProbeAspect && s.aspects == nil {
		s.aspects = gallery.NewProbeAspects(cfg.Media.FFprobeBinary, base, cfg.ProbeTimeout())
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /pages/{page}/cards/{card}", s.handleCard)
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServerFS(site.Assets())))
	mux.Handle("GET /", http.FileServer(http.Dir(cfg.Site.Root)))
	s.handler = s.withRequestID(mux)

	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.ManifestTimeout() + cfg.PromptTimeout() + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on server.bind and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Server.Bind)
	if err != nil {
		return fmt.Errorf("preview listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("preview server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("preview server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	debug := r.URL.Query().Has("debug")
	pageID := uuid.NewString()
	logger := logging.WithContext(ctx, s.logger).With(logging.PageID(pageID))
	trace := logging.NewTracer(logger, debug || s.cfg.Logging.Debug)

	container := gallery.NewContainer()
	loadCtx, cancel := context.WithTimeout(ctx, s.cfg.ManifestTimeout())
	m, err := s.loader.Load(loadCtx, s.cfg.Manifest.URL)
	cancel()
	if err != nil {
		logger.Warn("manifest load failed", logging.String("url", s.cfg.Manifest.URL), logging.Error(err))
		container.Fail(err)
	} else {
		// Each page load gets its own prompt cache and cache-bust token, so
		// edited or briefly missing prompt files recover on reload.
		resolver := prompttext.NewResolver(s.cfg.AssetBase(),
			prompttext.WithHTTPClient(s.client),
			prompttext.WithTimeout(s.cfg.PromptTimeout()),
			prompttext.WithTracer(trace),
		)
		buildCtx := context.WithoutCancel(ctx)
		builder := gallery.NewBuilder(resolver,
			gallery.WithLogger(logger),
			gallery.WithTracer(trace),
			gallery.WithConcurrency(s.cfg.Render.FetchConcurrency),
			gallery.WithOriginalToggle(s.cfg.Features.OriginalToggle),
			gallery.WithAspectSource(s.aspects),
		)
		builder.Build(buildCtx, container, m)
		if err := container.Wait(ctx); err != nil {
			logger.Debug("page request ended before the gallery settled", logging.Error(err))
			return
		}
		s.sessions.put(pageID, session{container: container, debug: debug})
	}

	meta := s.meta(debug)
	if err == nil {
		meta.PageID = pageID
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := s.renderer.RenderPage(w, site.NewPage(container, meta)); err != nil {
		logger.Error("page render failed", logging.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	trace.Log("page served", logging.Int("groups", len(container.Groups())))
}

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	pageID := r.PathValue("page")
	sess, ok := s.sessions.get(pageID)
	if !ok {
		http.Error(w, "page session expired; reload the page", http.StatusNotFound)
		return
	}
	card, ok := sess.container.Card(r.PathValue("card"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	variant := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("variant")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid variant index", http.StatusBadRequest)
			return
		}
		variant = parsed
	}
	card.SelectVariant(variant)

	meta := s.meta(sess.debug)
	meta.PageID = pageID
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := s.renderer.RenderRows(w, site.NewCardPage(card, meta, false)); err != nil {
		logging.WithContext(r.Context(), s.logger).Error("fragment render failed",
			logging.CardID(card.ID),
			logging.Error(err),
		)
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}

func (s *Server) meta(debug bool) site.Meta {
	return site.Meta{
		Title:       s.cfg.Site.Title,
		ManifestURL: s.cfg.Manifest.URL,
		AssetPrefix: "/assets/",
		MediaBase:   s.cfg.Site.BaseURL,
		Debug:       debug,
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := logging.WithRequestID(r.Context(), id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))
		logging.WithContext(ctx, s.logger).Debug("request served",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", rec.status),
			logging.Duration("elapsed", time.Since(start)),
		)
	})
}
