package server

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
)

// HealthChecker answers the liveness and readiness probes of the skill
// server. The snapshot is loaded before the server exists, so a new checker
// starts out ready.
type HealthChecker struct {
	ready   atomic.Bool
	sc      *ServerContext
	started time.Time
}

// NewHealthChecker returns a ready checker. sc may be nil.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{sc: sc, started: time.Now()}
	h.ready.Store(true)
	return h
}

// SetReady sets whether the server accepts skill traffic.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports whether the server accepts skill traffic.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// HealthResponse is the body of /healthz and /readyz.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse is the body of /healthz/detailed.
type DetailedHealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Days      int    `json:"days"`
	Reminders int    `json:"reminders"`
	LoadedAt  string `json:"loaded_at,omitempty"`
}

// RegisterHealthEndpoints adds the probe routes to r.
func (h *HealthChecker) RegisterHealthEndpoints(r gin.IRoutes) {
	r.GET("/healthz", h.liveness)
	r.GET("/readyz", h.readiness)
	r.GET("/healthz/detailed", h.detailed)
}

// evaluate returns the per-check results and the overall verdict.
func (h *HealthChecker) evaluate() (checks map[string]string, status string) {
	checks = map[string]string{"ready": healthStatusOK, "shutdown": healthStatusOK}
	status = healthStatusOK

	if h.sc != nil && h.sc.IsShutdown() {
		checks["shutdown"] = healthStatusShuttingDown
		status = healthStatusShuttingDown
	}
	if !h.IsReady() {
		checks["ready"] = healthStatusNotReady
		status = healthStatusNotReady
	}
	return checks, status
}

func statusCode(status string) int {
	if status == healthStatusOK {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

// liveness only fails when the process cannot answer at all.
func (h *HealthChecker) liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: healthStatusOK})
}

func (h *HealthChecker) readiness(c *gin.Context) {
	checks, status := h.evaluate()
	if status == healthStatusShuttingDown {
		status = healthStatusNotReady
	}
	c.JSON(statusCode(status), HealthResponse{Status: status, Checks: checks})
}

func (h *HealthChecker) detailed(c *gin.Context) {
	_, status := h.evaluate()
	resp := DetailedHealthResponse{
		Status: status,
		Uptime: time.Since(h.started).Truncate(time.Second).String(),
	}
	if h.sc != nil {
		snap := h.sc.Snapshot()
		resp.Days = snap.Days
		resp.Reminders = snap.Reminders
		if !snap.LoadedAt.IsZero() {
			resp.LoadedAt = snap.LoadedAt.UTC().Format(time.RFC3339)
		}
	}
	c.JSON(statusCode(status), resp)
}
