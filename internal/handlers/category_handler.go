package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"welth/internal/categories"
	apperrors "welth/internal/errors"
	"welth/internal/models"
)

// CategoryHandler serves the fixed category catalogue.
type CategoryHandler struct{}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// GetCategories handles listing the catalogue
// @Summary     Get categories
// @Description List the transaction categories, optionally only those of one type
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       type query string false "Filter by type (INCOME, EXPENSE)"
// @Success     200 {array} categories.Category "Categories"
// @Failure     400 {object} ErrorResponse "Invalid type"
// @Router      /categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	v := c.Query("type")
	if v == "" {
		c.JSON(http.StatusOK, gin.H{"categories": categories.All()})
		return
	}

	t := models.TransactionType(strings.ToUpper(v))
	if t != models.TransactionTypeIncome && t != models.TransactionTypeExpense {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid type, must be INCOME or EXPENSE"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories.ByType(t)})
}
