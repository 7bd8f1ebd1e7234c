package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "welth/internal/errors"
	"welth/internal/models"
	"welth/internal/services"
)

const testSecret = "identity-secret"

type stubUserService struct {
	synced []services.Identity
	err    error
}

func (s *stubUserService) SyncUser(identity services.Identity) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.synced = append(s.synced, identity)
	return &models.User{Base: models.Base{ID: "local-" + identity.ExternalID}, Email: identity.Email}, nil
}

func (s *stubUserService) GetUserByID(id string) (*models.User, error) {
	return &models.User{Base: models.Base{ID: id}}, nil
}

var _ services.UserServicer = (*stubUserService)(nil)

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims IdentityClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func validClaims() IdentityClaims {
	return IdentityClaims{
		Email:   "ada@example.com",
		Name:    "Ada",
		Picture: "https://img.example.com/ada.png",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "idp|123",
			Issuer:    "https://id.example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func setupAuthRouter(users services.UserServicer) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(testSecret, "https://id.example.com", users))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("userID")})
	})
	return r
}

func authRequest(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("valid_token_syncs_the_user", func(t *testing.T) {
		users := &stubUserService{}
		token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims())

		rec := authRequest(setupAuthRouter(users), "Bearer "+token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		body := parseBody(t, rec)
		if body["user_id"] != "local-idp|123" {
			t.Errorf("unexpected user_id %v", body["user_id"])
		}
		if len(users.synced) != 1 || users.synced[0].ImageURL != "https://img.example.com/ada.png" {
			t.Errorf("unexpected sync calls %+v", users.synced)
		}
	})

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "https://evil.example.com"

	noSubject := validClaims()
	noSubject.Subject = ""

	tests := []struct {
		name   string
		header func(t *testing.T) string
	}{
		{"missing_header", func(*testing.T) string { return "" }},
		{"wrong_scheme", func(t *testing.T) string {
			return "Basic " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims())
		}},
		{"wrong_secret", func(t *testing.T) string {
			return "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims())
		}},
		{"wrong_algorithm", func(t *testing.T) string {
			return "Bearer " + signToken(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims())
		}},
		{"expired", func(t *testing.T) string {
			return "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), expired)
		}},
		{"wrong_issuer", func(t *testing.T) string {
			return "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), wrongIssuer)
		}},
		{"no_subject", func(t *testing.T) string {
			return "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), noSubject)
		}},
		{"garbage", func(*testing.T) string { return "Bearer not.a.jwt" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &stubUserService{}
			rec := authRequest(setupAuthRouter(users), tt.header(t))
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			errObj := parseBody(t, rec)["error"].(map[string]interface{})
			if errObj["code"] != "UNAUTHORIZED" {
				t.Errorf("expected UNAUTHORIZED, got %v", errObj["code"])
			}
			if len(users.synced) != 0 {
				t.Error("user must not be synced for a rejected token")
			}
		})
	}

	t.Run("sync_failure_is_reported", func(t *testing.T) {
		users := &stubUserService{err: apperrors.Wrap(apperrors.ErrInternalServer, errors.New("db down"))}
		token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims())

		rec := authRequest(setupAuthRouter(users), "Bearer "+token)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})
}
