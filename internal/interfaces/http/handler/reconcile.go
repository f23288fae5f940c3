package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/logger"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/scheduler"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/interfaces/http/dto"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// recentRunsLimit bounds the run history returned by the status endpoint
const recentRunsLimit = 20

// JobTrigger starts runs and reports per-kind state
type JobTrigger interface {
	TriggerManualRun(kind string, ownerID *uuid.UUID, year, month int) (*scheduler.Job, error)
	GetStatus() []scheduler.KindStatus
	IsRunning() bool
}

// RunHistory lists recently persisted runs
type RunHistory interface {
	Recent(ctx context.Context, limit int) ([]scheduler.JobRunRecord, error)
}

// ReconcileHandler exposes manual runs and scheduler status
type ReconcileHandler struct {
	BaseHandler
	trigger JobTrigger
	history RunHistory
}

// NewReconcileHandler creates a ReconcileHandler. history may be nil when
// runs are not persisted.
func NewReconcileHandler(trigger JobTrigger, history RunHistory) *ReconcileHandler {
	return &ReconcileHandler{trigger: trigger, history: history}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *ReconcileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	router.NewDomainGroup("reconcile", "/reconcile").
		GET("/status", h.Status).
		POST("/:job", h.Run).
		RegisterRoutes(rg)
}

// Run handles POST /api/v1/reconcile/:job. The run continues after the
// response; its outcome shows up in the status endpoint.
//
// @ID           runReconcileJob
// @Summary      Run a reconciliation job
// @Description  Start a manual run of one job kind in the background, for one owner or every user
// @Tags         reconcile
// @Accept       json
// @Produce      json
// @Param        job      path  string             true   "Job kind"  Enums(budgets, debts, goals, goal-overdue-sweep, reports, reminders)
// @Param        request  body  dto.RunJobRequest  false  "Owner and calendar month"
// @Success      202 {object} dto.Response{data=dto.JobRunResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reconcile/{job} [post]
func (h *ReconcileHandler) Run(c *gin.Context) {
	var req dto.RunJobRequest
	if !h.BindJSON(c, &req) {
		return
	}

	kind := c.Param("job")
	owner := req.Owner()
	job, err := h.trigger.TriggerManualRun(kind, owner, req.Year, req.Month)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	log := logger.GetGinLogger(c).With(zap.String("job", kind), zap.String("run_id", job.ID.String()))
	if owner != nil {
		log = log.With(zap.String("owner_id", owner.String()))
	}
	log.Info("Manual reconcile run requested")

	h.Accepted(c, dto.NewJobRunResponse(job))
}

// Status handles GET /api/v1/reconcile/status
//
// @ID           getReconcileStatus
// @Summary      Get scheduler status
// @Description  Per-kind schedule and last outcome, plus the most recent persisted runs
// @Tags         reconcile
// @Produce      json
// @Success      200 {object} dto.Response{data=dto.ReconcileStatusResponse}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reconcile/status [get]
func (h *ReconcileHandler) Status(c *gin.Context) {
	resp := dto.ReconcileStatusResponse{
		Running: h.trigger.IsRunning(),
		Jobs:    h.trigger.GetStatus(),
	}

	if h.history != nil {
		records, err := h.history.Recent(c.Request.Context(), recentRunsLimit)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		resp.Recent = make([]dto.JobRunResponse, 0, len(records))
		for _, r := range records {
			resp.Recent = append(resp.Recent, dto.NewJobRunResponseFromRecord(r))
		}
	}

	h.Success(c, resp)
}
