package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"welth/internal/services"
)

// JobRunner runs the periodic jobs on demand.
type JobRunner interface {
	TriggerRecurring(ctx context.Context) (int, error)
	CheckBudgetAlerts(ctx context.Context) (*services.JobSummary, error)
	GenerateMonthlyReports(ctx context.Context) (*services.JobSummary, error)
}

// JobHandler exposes the periodic jobs to an external scheduler.
type JobHandler struct {
	runner JobRunner
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(runner JobRunner) *JobHandler {
	return &JobHandler{runner: runner}
}

// TriggerRecurringResponse reports how many recurring events were dispatched.
type TriggerRecurringResponse struct {
	Dispatched int `json:"dispatched"`
}

// TriggerRecurring handles dispatching every due recurring template
// @Summary     Trigger recurring transactions
// @Tags        jobs
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} TriggerRecurringResponse "Events dispatched"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /internal/jobs/recurring/trigger [post]
func (h *JobHandler) TriggerRecurring(c *gin.Context) {
	n, err := h.runner.TriggerRecurring(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, TriggerRecurringResponse{Dispatched: n})
}

// CheckBudgetAlerts handles one budget alert evaluation
// @Summary     Run budget alerts
// @Tags        jobs
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} services.JobSummary "Run summary"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /internal/jobs/budget-alerts [post]
func (h *JobHandler) CheckBudgetAlerts(c *gin.Context) {
	summary, err := h.runner.CheckBudgetAlerts(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GenerateMonthlyReports handles sending last month's reports
// @Summary     Send monthly reports
// @Tags        jobs
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} services.JobSummary "Run summary"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /internal/jobs/monthly-reports [post]
func (h *JobHandler) GenerateMonthlyReports(c *gin.Context) {
	summary, err := h.runner.GenerateMonthlyReports(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
