package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const healthPingTimeout = 2 * time.Second

// Pinger checks a dependency, e.g. *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports liveness of the database and the scheduler
type HealthHandler struct {
	db        Pinger
	scheduler interface{ IsRunning() bool }
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Scheduler string `json:"scheduler"`
}

// NewHealthHandler creates a HealthHandler; scheduler may be nil when it is
// disabled
func NewHealthHandler(db Pinger, scheduler interface{ IsRunning() bool }) *HealthHandler {
	return &HealthHandler{db: db, scheduler: scheduler}
}

// Register mounts GET /health on the engine root
func (h *HealthHandler) Register(engine *gin.Engine) {
	engine.GET("/health", h.Health)
}

// Health answers 200 when the database is reachable and 503 otherwise. A
// disabled scheduler does not make the service unhealthy.
//
// @ID           healthCheck
// @Summary      Health check
// @Description  Database reachability and scheduler state
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "ok", Database: "up", Scheduler: "disabled"}
	status := http.StatusOK

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		logger.GetGinLogger(c).Warn("Health check: database unreachable", zap.Error(err))
		resp.Status = "unavailable"
		resp.Database = "down"
		status = http.StatusServiceUnavailable
	}

	if h.scheduler != nil {
		resp.Scheduler = "stopped"
		if h.scheduler.IsRunning() {
			resp.Scheduler = "running"
		}
	}

	c.JSON(status, resp)
}
