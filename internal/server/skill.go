package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teemow/gcalskill/internal/instrumentation"
	"github.com/teemow/gcalskill/internal/logging"
	"github.com/teemow/gcalskill/internal/skill"
)

const (
	// DefaultSkillAddr is the default address for the skill endpoint.
	DefaultSkillAddr = ":8080"

	// DefaultSkillReadTimeout is the default read header timeout for the skill server.
	DefaultSkillReadTimeout = 10 * time.Second

	// DefaultSkillWriteTimeout is the default write timeout for the skill server.
	DefaultSkillWriteTimeout = 30 * time.Second

	// DefaultSkillIdleTimeout is the default idle timeout for the skill server.
	DefaultSkillIdleTimeout = 120 * time.Second

	// maxRequestBytes bounds the size of a voice request envelope.
	maxRequestBytes = 1 << 20

	unmatchedRoute = "unmatched"
)

// emptyAck is written for requests that need no speech, like session end.
var emptyAck = []byte("{}")

// SkillServerConfig holds configuration for the skill HTTP server.
type SkillServerConfig struct {
	// Addr is the address to bind the skill server to (e.g., ":8080").
	Addr string

	// SkillID restricts requests to one application id when set.
	SkillID string

	// Handler answers decoded voice requests.
	Handler *skill.Handler

	// ServerContext backs the health endpoints. Optional.
	ServerContext *ServerContext

	// Metrics records HTTP request metrics. Optional.
	Metrics *instrumentation.Metrics

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// SkillServer serves the voice endpoint and health probes.
type SkillServer struct {
	engine     *gin.Engine
	health     *HealthChecker
	sc         *ServerContext
	httpServer *http.Server
	addr       string
	skillID    string
	handler    *skill.Handler
	metrics    *instrumentation.Metrics
	logger     *slog.Logger
}

// NewSkillServer creates the skill server and its routes:
//
//	POST /, POST /alexa   voice requests
//	GET  /healthz         liveness
//	GET  /readyz          readiness
//	GET  /healthz/detailed snapshot details
func NewSkillServer(config SkillServerConfig) (*SkillServer, error) {
	if config.Handler == nil {
		return nil, fmt.Errorf("skill handler is required for skill server")
	}
	if config.Addr == "" {
		config.Addr = DefaultSkillAddr
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	s := &SkillServer{
		addr:    config.Addr,
		skillID: config.SkillID,
		handler: config.Handler,
		metrics: config.Metrics,
		logger:  config.Logger,
		health:  NewHealthChecker(config.ServerContext),
		sc:      config.ServerContext,
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestMetrics(s.metrics))
	engine.POST("/", s.handleSkill)
	engine.POST("/alexa", s.handleSkill)
	s.health.RegisterHealthEndpoints(engine)
	s.engine = engine

	return s, nil
}

// ServeHTTP lets the server be used as a plain http.Handler.
func (s *SkillServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// Health returns the health checker behind the probe endpoints.
func (s *SkillServer) Health() *HealthChecker {
	return s.health
}

// Start starts the skill server in a blocking manner.
func (s *SkillServer) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: DefaultSkillReadTimeout,
		WriteTimeout:      DefaultSkillWriteTimeout,
		IdleTimeout:       DefaultSkillIdleTimeout,
	}
	if s.sc != nil {
		s.httpServer.BaseContext = func(net.Listener) context.Context { return s.sc.Context() }
	}

	s.logger.Info("starting skill server", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown marks the server as not ready and drains in-flight requests.
func (s *SkillServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)
	if s.httpServer != nil {
		s.logger.Info("shutting down skill server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Addr returns the configured address for the skill server.
func (s *SkillServer) Addr() string {
	return s.addr
}

func (s *SkillServer) handleSkill(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)

	var req skill.RequestEnvelope
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Warn("rejected skill request", "reason", "invalid body", logging.Err(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if s.skillID != "" && req.ApplicationID() != s.skillID {
		s.logger.Warn("rejected skill request", "reason", "application id mismatch",
			"application_id", req.ApplicationID())
		c.JSON(http.StatusForbidden, gin.H{"error": "unknown application id"})
		return
	}

	resp, err := s.handler.Handle(c.Request.Context(), &req)
	switch {
	case errors.Is(err, skill.ErrUnsupportedRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		s.logger.Error("skill request failed", "request_type", req.Request.Type, logging.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	case resp == nil:
		c.Data(http.StatusOK, "application/json", emptyAck)
	default:
		c.JSON(http.StatusOK, resp)
	}
}

// requestMetrics records count and latency per route template.
func requestMetrics(m *instrumentation.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		m.RecordHTTPRequest(c.Request.Context(), c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
