package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/gigmarket-backend/internal/models"
	"github.com/ignatzorin/gigmarket-backend/internal/service"
)

const testAccessSecret = "access-secret"

func newAuthTestRouter(t *testing.T) (*gin.Engine, *service.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := service.NewTokenManager(testAccessSecret, "refresh-secret", time.Minute, time.Hour)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(tokens), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, tokens
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	router, tokens := newAuthTestRouter(t)

	pair, _, err := tokens.GeneratePair(&models.User{ID: uuid.New(), Role: models.RoleFreelancer})
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_UnknownRole(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	// Корректно подписанный токен с ролью вне набора маркетплейса
	claims := jwt.MapClaims{
		"sub":  uuid.NewString(),
		"role": "admin",
		"exp":  time.Now().Add(time.Minute).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testAccessSecret))
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_RefreshTokenRejected(t *testing.T) {
	router, tokens := newAuthTestRouter(t)

	pair, _, err := tokens.GeneratePair(&models.User{ID: uuid.New(), Role: models.RoleClient})
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
