package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"welth/internal/ai"
	"welth/internal/app"
	"welth/internal/config"
	"welth/internal/email"
	"welth/internal/handlers"
	"welth/internal/logger"
	"welth/internal/middleware"
	"welth/internal/models"
	"welth/internal/validator"
)

const (
	identitySecret = "integration-identity-secret"
	identityIssuer = "https://identity.test"
	pipelineKey    = "integration-pipeline-key"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Mail   *mailbox
}

// mailbox collects outgoing email instead of delivering it.
type mailbox struct {
	mu       sync.Mutex
	messages []email.Message
}

func (m *mailbox) Send(_ context.Context, msg email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mailbox) sent() []email.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]email.Message(nil), m.messages...)
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integration%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get underlying DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite, with recurring events processed inline and email captured.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	cfg := &config.Config{
		Env:                     "test",
		IdentityJWTSecret:       identitySecret,
		IdentityIssuer:          identityIssuer,
		PipelineAPIKey:          pipelineKey,
		BudgetAlertThreshold:    80,
		JobConcurrency:          2,
		RecurringPerUserLimit:   100,
		RecurringPerUserWindow:  time.Minute,
		TransactionCreateLimit:  100,
		TransactionCreateWindow: time.Minute,
	}

	box := &mailbox{}
	svc := app.NewServices(db, cfg, ai.Disabled{}, box)

	dispatcher, err := app.NewDispatcher(cfg, svc)
	if err != nil {
		t.Fatalf("failed to build dispatcher: %v", err)
	}
	t.Cleanup(func() { _ = dispatcher.Close() })

	router := app.NewRouter(cfg, svc, handlers.NewJobHandler(app.NewRunner(svc, dispatcher)))
	return &testApp{DB: db, Router: router, Mail: box}
}

// token signs an identity token for the external subject sub.
func token(t *testing.T, sub, emailAddr string) string {
	t.Helper()
	claims := middleware.IdentityClaims{
		Email: emailAddr,
		Name:  "Integration User",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    identityIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(identitySecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// job calls an internal job trigger with the pipeline key.
func (app *testApp) job(t *testing.T, path string) map[string]interface{} {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/internal/jobs/"+path, nil)
	req.Header.Set("X-API-Key", pipelineKey)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("job %s failed: %d %s", path, rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// createAccount opens an account and returns its id.
func (app *testApp) createAccount(t *testing.T, bearer, name string, balance int64) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"type":"CURRENT","balance":%d}`, name, balance)
	rec := app.request(http.MethodPost, "/api/v1/accounts", body, bearer)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account failed: %d %s", rec.Code, rec.Body.String())
	}
	account := parseJSON(t, rec)["account"].(map[string]interface{})
	return account["id"].(string)
}

// createTransaction records a transaction and returns its id.
func (app *testApp) createTransaction(t *testing.T, bearer, body string) string {
	t.Helper()
	rec := app.request(http.MethodPost, "/api/v1/transactions", body, bearer)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction failed: %d %s", rec.Code, rec.Body.String())
	}
	txn := parseJSON(t, rec)["transaction"].(map[string]interface{})
	return txn["id"].(string)
}

// balance reads an account's balance through the API.
func (app *testApp) balance(t *testing.T, bearer, accountID string) float64 {
	t.Helper()
	rec := app.request(http.MethodGet, "/api/v1/accounts/"+accountID, "", bearer)
	if rec.Code != http.StatusOK {
		t.Fatalf("get account failed: %d %s", rec.Code, rec.Body.String())
	}
	account := parseJSON(t, rec)["account"].(map[string]interface{})
	return account["balance"].(float64)
}
