package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"welth/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService  services.BudgetServicer
	accountService services.AccountServicer
	auditService   services.AuditServicer
	now            func() time.Time
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, accountService services.AccountServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{
		budgetService:  budgetService,
		accountService: accountService,
		auditService:   auditService,
		now:            time.Now,
	}
}

// UpsertBudgetRequest represents the request payload for setting the monthly budget.
type UpsertBudgetRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// UpsertBudget handles creating or updating the caller's monthly budget.
// @Summary     Set monthly budget
// @Description Create the monthly budget or change its amount. Each user has at most one budget.
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpsertBudgetRequest true "Budget amount in cents"
// @Success     200 {object} models.Budget "Budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget [put]
func (h *BudgetHandler) UpsertBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpsertBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	budget, err := h.budgetService.UpsertBudget(userID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUpsertBudget, "budget", budget.ID, c.ClientIP(),
		map[string]any{"amount": req.Amount})

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// GetCurrentBudget handles the budget overview for the default account.
// @Summary     Get current budget
// @Description Get the monthly budget with month-to-date expenses on the default account
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.BudgetStatus "Budget status"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget or default account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget [get]
func (h *BudgetHandler) GetCurrentBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.GetDefaultAccount(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.respondWithStatus(c, userID, account.ID)
}

// GetAccountBudget handles the budget overview for one account.
// @Summary     Get budget for account
// @Description Get the monthly budget with month-to-date expenses on the given account
// @Tags        budget,accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} services.BudgetStatus "Budget status"
// @Failure     400 {object} ErrorResponse "Invalid account ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget or account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id}/budget [get]
func (h *BudgetHandler) GetAccountBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.respondWithStatus(c, userID, accountID)
}

func (h *BudgetHandler) respondWithStatus(c *gin.Context, userID, accountID string) {
	status, err := h.budgetService.GetCurrentBudget(userID, accountID, h.now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
