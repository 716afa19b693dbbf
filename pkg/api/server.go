// Package api serves ormlens analyses over HTTP: model analysis and path
// queries, cached reports, GraphQL, health and Prometheus metrics.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/cluso-ormlens/pkg/analysis"
	"github.com/dd0wney/cluso-ormlens/pkg/api/middleware"
	"github.com/dd0wney/cluso-ormlens/pkg/auth"
	"github.com/dd0wney/cluso-ormlens/pkg/config"
	"github.com/dd0wney/cluso-ormlens/pkg/ddd"
	"github.com/dd0wney/cluso-ormlens/pkg/graphql"
	"github.com/dd0wney/cluso-ormlens/pkg/health"
	"github.com/dd0wney/cluso-ormlens/pkg/logging"
	"github.com/dd0wney/cluso-ormlens/pkg/metrics"
	"github.com/dd0wney/cluso-ormlens/pkg/pubsub"
	"github.com/dd0wney/cluso-ormlens/pkg/store"
)

const (
	// TokenIssuer is the issuer bearer tokens must carry
	TokenIssuer = "ormlens"
	// MaxRequestBytes caps API request bodies
	MaxRequestBytes = 10 << 20

	shutdownTimeout = 10 * time.Second
	metricsInterval = 10 * time.Second
)

// Server represents the HTTP API server
type Server struct {
	cfg       config.ServerConfig
	options   analysis.Options
	logger    logging.Logger
	metrics   *metrics.Registry
	store     *store.ReportStore
	broker    *pubsub.Broker
	bridge    *pubsub.NNGBridge
	validator auth.TokenValidator
	health    *health.HealthChecker
	graphql   http.Handler
	limiter   *middleware.RateLimiter

	mu        sync.Mutex
	analyzers map[string]*analysis.Analyzer

	startTime time.Time
	version   string
}

// Option customizes a Server
type Option func(*Server)

// WithTokenValidator replaces the validator derived from the JWT secret.
// A nil validator disables authentication.
func WithTokenValidator(v auth.TokenValidator) Option {
	return func(s *Server) { s.validator = v }
}

// WithVersion sets the version reported by the server
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// NewServer wires the analyzer, report cache, event broker and optional
// event bridge from cfg. logger may be nil; a nil registry uses the
// process-wide default.
func NewServer(cfg *config.Config, logger logging.Logger, reg *metrics.Registry, opts ...Option) (*Server, error) {
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}
	logger = logging.OrNop(logger).With(logging.Component("api"))

	reports, err := store.New(cfg.Server.CacheSize, reg)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:       cfg.Server,
		options:   cfg.AnalysisOptions(),
		logger:    logger,
		metrics:   reg,
		store:     reports,
		broker:    pubsub.NewBroker(reg),
		health:    health.NewHealthChecker(),
		analyzers: make(map[string]*analysis.Analyzer),
		startTime: time.Now(),
		version:   "dev",
	}

	// Fail fast on a bad default classifier
	if _, err := s.analyzer(""); err != nil {
		return nil, err
	}

	if cfg.Server.JWTSecret != "" {
		jwtManager, err := auth.NewJWTManager(cfg.Server.JWTSecret, TokenIssuer)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize JWT manager: %w", err)
		}
		s.validator = jwtManager
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.validator == nil {
		logger.Warn("authentication disabled, set jwt_secret to require bearer tokens")
	}

	limits := graphql.DefaultLimitConfig()
	schema, err := graphql.GenerateSchema(s.store, limits)
	if err != nil {
		return nil, err
	}
	s.graphql = graphql.NewHandler(schema, limits.MaxDepth, logger)

	if cfg.Server.RateLimit > 0 {
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = float64(cfg.Server.RateLimit)
		rl.BurstSize = 2 * cfg.Server.RateLimit
		s.limiter = middleware.NewRateLimiter(rl, logger)
	}

	if cfg.Server.EventsURL != "" {
		bridge, err := pubsub.NewNNGBridge(cfg.Server.EventsURL, logger, reg)
		if err != nil {
			s.Close()
			return nil, err
		}
		if err := bridge.Forward(s.broker, pubsub.TopicAnalysisCompleted); err != nil {
			_ = bridge.Close()
			s.Close()
			return nil, err
		}
		s.bridge = bridge
		logger.Info("forwarding report events", logging.String("url", cfg.Server.EventsURL))
	}

	s.registerHealthChecks()
	return s, nil
}

func (s *Server) registerHealthChecks() {
	s.health.RegisterLivenessCheck("api", health.SimpleCheck("api"))
	s.health.RegisterReadinessCheck("classifier", health.ClassifierCheck(s.options.Classifier, ddd.Names))
	s.health.RegisterReadinessCheck("event_bridge", health.EventBridgeCheck(s.cfg.EventsURL != "", func() bool {
		return s.bridge != nil
	}))
	s.health.RegisterCheck("report_cache", health.CacheCheck(s.store.Len, s.cfg.CacheSize))
	s.health.RegisterCheck("memory", health.MemoryCheck(nil))
}

// analyzer returns the analyzer for a classifier name, creating it on first
// use. An empty name selects the configured classifier.
func (s *Server) analyzer(classifier string) (*analysis.Analyzer, error) {
	if classifier == "" {
		classifier = s.options.Classifier
	}
	if classifier == "" {
		classifier = ddd.HeuristicName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.analyzers[classifier]; ok {
		return a, nil
	}

	opts := s.options
	opts.Classifier = classifier
	a, err := analysis.New(opts, s.logger, s.metrics)
	if err != nil {
		return nil, err
	}
	s.analyzers[classifier] = a
	return a, nil
}

// Broker returns the broker report events are published on
func (s *Server) Broker() *pubsub.Broker {
	return s.broker
}

// Handler returns the routed handler with the full middleware chain
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /api/v1/analyze", s.rateLimited(s.requireRole(auth.RoleAnalyst, http.HandlerFunc(s.handleAnalyze))))
	mux.Handle("POST /api/v1/paths", s.rateLimited(s.requireRole(auth.RoleAnalyst, http.HandlerFunc(s.handlePaths))))
	mux.Handle("GET /api/v1/reports", s.requireRole(auth.RoleViewer, http.HandlerFunc(s.handleListReports)))
	mux.Handle("GET /api/v1/reports/{id}", s.requireRole(auth.RoleViewer, http.HandlerFunc(s.handleGetReport)))
	mux.Handle("DELETE /api/v1/reports/{id}", s.requireRole(auth.RoleAnalyst, http.HandlerFunc(s.handleDeleteReport)))
	mux.Handle("/graphql", s.requireRole(auth.RoleViewer, s.graphql))

	mux.HandleFunc("GET /health", s.health.HTTPHandler())
	mux.HandleFunc("GET /ready", s.health.ReadinessHandler())
	mux.HandleFunc("GET /live", s.health.LivenessHandler())
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.GetPrometheusRegistry(), promhttp.HandlerOpts{}))

	var handler http.Handler = mux
	handler = middleware.Metrics(s.metrics, routeLabel)(handler)
	handler = middleware.BodySizeLimit(MaxRequestBytes)(handler)
	handler = middleware.SecurityHeaders()(handler)
	handler = middleware.Logging(s.logger)(handler)
	handler = middleware.RequestID()(handler)
	handler = middleware.PanicRecovery(s.logger)(handler)
	return handler
}

// routeLabel labels metrics by matched route pattern so report IDs do not
// become label values. The mux fills in Pattern on the request it is given.
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return "unmatched"
	}
	if _, path, ok := strings.Cut(r.Pattern, " "); ok {
		return path
	}
	return r.Pattern
}

func (s *Server) rateLimited(next http.Handler) http.Handler {
	return middleware.RateLimit(s.limiter, middleware.RemoteHost)(next)
}

// Start serves on the configured port until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go s.updateMetricsPeriodically(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			logging.String("addr", server.Addr),
			logging.String("version", s.version),
			logging.Bool("auth", s.validator != nil))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

func (s *Server) updateMetricsPeriodically(ctx context.Context) {
	ticker := time.NewTicker(metricsInterval)
	defer ticker.Stop()

	s.metrics.UpdateSystemMetrics()
	for {
		select {
		case <-ticker.C:
			s.metrics.UpdateSystemMetrics()
		case <-ctx.Done():
			return
		}
	}
}

// Close stops the rate limiter, the event bridge and the broker
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	if s.bridge != nil {
		if err := s.bridge.Close(); err != nil {
			s.logger.Warn("failed to close event bridge", logging.Error(err))
		}
	}
	s.broker.Shutdown()
}
