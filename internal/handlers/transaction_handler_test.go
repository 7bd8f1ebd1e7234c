package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "welth/internal/errors"
	"welth/internal/models"
	"welth/internal/pagination"
	"welth/internal/services"
)

// --- mock transaction service ---

type mockTransactionService struct {
	createFn       func(userID string, in services.TransactionInput) (*models.Transaction, error)
	updateFn       func(userID, transactionID string, in services.TransactionInput) (*models.Transaction, error)
	deleteFn       func(userID, transactionID string) error
	bulkDeleteFn   func(userID string, ids []string) (int64, error)
	getByIDFn      func(userID, transactionID string) (*models.Transaction, error)
	getUserTxFn    func(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getAccountTxFn func(userID, accountID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
}

func (m *mockTransactionService) CreateTransaction(userID string, in services.TransactionInput) (*models.Transaction, error) {
	if m.createFn != nil {
		return m.createFn(userID, in)
	}
	return &models.Transaction{Base: models.Base{ID: testTxID}}, nil
}

func (m *mockTransactionService) UpdateTransaction(userID, transactionID string, in services.TransactionInput) (*models.Transaction, error) {
	if m.updateFn != nil {
		return m.updateFn(userID, transactionID, in)
	}
	return &models.Transaction{Base: models.Base{ID: transactionID}}, nil
}

func (m *mockTransactionService) DeleteTransaction(userID, transactionID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, transactionID)
	}
	return nil
}

func (m *mockTransactionService) BulkDeleteTransactions(userID string, ids []string) (int64, error) {
	if m.bulkDeleteFn != nil {
		return m.bulkDeleteFn(userID, ids)
	}
	return int64(len(ids)), nil
}

func (m *mockTransactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(userID, transactionID)
	}
	return &models.Transaction{Base: models.Base{ID: transactionID}}, nil
}

func (m *mockTransactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getUserTxFn != nil {
		return m.getUserTxFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetAccountTransactions(userID, accountID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getAccountTxFn != nil {
		return m.getAccountTxFn(userID, accountID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/transactions", handler.CreateTransaction)
	auth.GET("/transactions", handler.GetUserTransactions)
	auth.POST("/transactions/bulk-delete", handler.BulkDeleteTransactions)
	auth.GET("/transactions/:id", handler.GetTransactionByID)
	auth.PUT("/transactions/:id", handler.UpdateTransaction)
	auth.DELETE("/transactions/:id", handler.DeleteTransaction)
	auth.GET("/accounts/:id/transactions", handler.GetAccountTransactions)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns_201_and_forwards_the_input", func(t *testing.T) {
		var got services.TransactionInput
		svc := &mockTransactionService{
			createFn: func(_ string, in services.TransactionInput) (*models.Transaction, error) {
				got = in
				return &models.Transaction{Base: models.Base{ID: testTxID}, Amount: in.Amount, Type: in.Type}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupTransactionRouter(NewTransactionHandler(svc, audit))

		rec := doRequest(r, "POST", "/transactions",
			`{"account_id":"`+testAccountID+`","type":"EXPENSE","amount":15000,"category":"groceries","date":"2024-01-15","is_recurring":true,"recurring_interval":"MONTHLY"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Amount != 15000 || got.Category != "groceries" {
			t.Errorf("unexpected input %+v", got)
		}
		if !got.Date.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected date %v", got.Date)
		}
		if got.RecurringInterval == nil || *got.RecurringInterval != models.RecurringMonthly {
			t.Errorf("expected MONTHLY interval, got %v", got.RecurringInterval)
		}
		if len(audit.calls) != 1 || audit.calls[0].resourceID != testTxID {
			t.Errorf("unexpected audit calls %+v", audit.calls)
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"zero_amount", `{"account_id":"` + testAccountID + `","type":"EXPENSE","amount":0,"category":"groceries"}`},
		{"negative_amount", `{"account_id":"` + testAccountID + `","type":"EXPENSE","amount":-5,"category":"groceries"}`},
		{"unknown_type", `{"account_id":"` + testAccountID + `","type":"TRANSFER","amount":5,"category":"groceries"}`},
		{"bad_interval", `{"account_id":"` + testAccountID + `","type":"EXPENSE","amount":5,"category":"groceries","is_recurring":true,"recurring_interval":"HOURLY"}`},
		{"bad_account_id", `{"account_id":"1","type":"EXPENSE","amount":5,"category":"groceries"}`},
		{"bad_date", `{"account_id":"` + testAccountID + `","type":"EXPENSE","amount":5,"category":"groceries","date":"yesterday"}`},
		{"missing_category", `{"account_id":"` + testAccountID + `","type":"EXPENSE","amount":5}`},
	}
	for _, tt := range tests {
		t.Run("returns_400_on_"+tt.name, func(t *testing.T) {
			r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))
			rec := doRequest(r, "POST", "/transactions", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}

	t.Run("passes_through_service_errors", func(t *testing.T) {
		svc := &mockTransactionService{
			createFn: func(string, services.TransactionInput) (*models.Transaction, error) {
				return nil, apperrors.ErrInvalidCategory
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))
		rec := doRequest(r, "POST", "/transactions",
			`{"account_id":"`+testAccountID+`","type":"INCOME","amount":5,"category":"groceries"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CATEGORY")
	})
}

func TestTransactionHandler_GetUserTransactions(t *testing.T) {
	t.Run("parses_filters", func(t *testing.T) {
		var got services.TransactionFilter
		svc := &mockTransactionService{
			getUserTxFn: func(_ string, _ pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				got = filter
				resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
				return &resp, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions?type=expense&category=groceries&is_recurring=true&from_date=2024-01-01&search=%20coffee%20", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Type == nil || *got.Type != models.TransactionTypeExpense {
			t.Errorf("expected EXPENSE filter, got %v", got.Type)
		}
		if got.Category == nil || *got.Category != "groceries" {
			t.Errorf("expected category filter, got %v", got.Category)
		}
		if got.IsRecurring == nil || !*got.IsRecurring {
			t.Errorf("expected is_recurring filter, got %v", got.IsRecurring)
		}
		if got.FromDate == nil || got.ToDate != nil {
			t.Errorf("unexpected date filters %v %v", got.FromDate, got.ToDate)
		}
		if got.Search != "coffee" {
			t.Errorf("expected trimmed search, got %q", got.Search)
		}
	})

	for _, q := range []string{"type=transfer", "is_recurring=maybe", "to_date=01-02-2024"} {
		t.Run("returns_400_on_"+q, func(t *testing.T) {
			r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))
			rec := doRequest(r, "GET", "/transactions?"+q, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestTransactionHandler_GetAccountTransactions(t *testing.T) {
	var gotAccount string
	svc := &mockTransactionService{
		getAccountTxFn: func(_, accountID string, _ pagination.PageRequest, _ services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
			gotAccount = accountID
			resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
			return &resp, nil
		},
	}
	r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/accounts/"+testAccountID+"/transactions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotAccount != testAccountID {
		t.Errorf("expected %s, got %s", testAccountID, gotAccount)
	}
}

func TestTransactionHandler_UpdateTransaction(t *testing.T) {
	t.Run("returns_200_on_success", func(t *testing.T) {
		var gotID string
		svc := &mockTransactionService{
			updateFn: func(_, transactionID string, in services.TransactionInput) (*models.Transaction, error) {
				gotID = transactionID
				return &models.Transaction{Base: models.Base{ID: transactionID}, Amount: in.Amount}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/transactions/"+testTxID,
			`{"account_id":"`+testAccountID+`","type":"INCOME","amount":20000,"category":"salary"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotID != testTxID {
			t.Errorf("expected %s, got %s", testTxID, gotID)
		}
	})

	t.Run("returns_404_when_missing", func(t *testing.T) {
		svc := &mockTransactionService{
			updateFn: func(string, string, services.TransactionInput) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))
		rec := doRequest(r, "PUT", "/transactions/"+testTxID,
			`{"account_id":"`+testAccountID+`","type":"INCOME","amount":20000,"category":"salary"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("returns_200_on_success", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, audit))
		rec := doRequest(r, "DELETE", "/transactions/"+testTxID, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(audit.calls) != 1 || audit.calls[0].action != services.AuditDeleteTransaction {
			t.Errorf("unexpected audit calls %+v", audit.calls)
		}
	})

	t.Run("returns_500_with_a_generic_message_on_commit_failure", func(t *testing.T) {
		svc := &mockTransactionService{
			deleteFn: func(string, string) error { return apperrors.ErrTransactionFailed },
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))
		rec := doRequest(r, "DELETE", "/transactions/"+testTxID, "")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_FAILED")
	})
}

func TestTransactionHandler_BulkDeleteTransactions(t *testing.T) {
	t.Run("returns_the_deleted_count", func(t *testing.T) {
		svc := &mockTransactionService{
			bulkDeleteFn: func(_ string, ids []string) (int64, error) {
				return int64(len(ids) - 1), nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))
		rec := doRequest(r, "POST", "/transactions/bulk-delete",
			`{"transaction_ids":["`+testTxID+`","`+testAccountID+`"]}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if deleted := parseJSON(t, rec)["deleted"].(float64); deleted != 1 {
			t.Errorf("expected 1, got %v", deleted)
		}
	})

	for name, body := range map[string]string{
		"empty_list":  `{"transaction_ids":[]}`,
		"invalid_ids": `{"transaction_ids":["abc"]}`,
	} {
		t.Run("returns_400_on_"+name, func(t *testing.T) {
			r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))
			rec := doRequest(r, "POST", "/transactions/bulk-delete", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}
