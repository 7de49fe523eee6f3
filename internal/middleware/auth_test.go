package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sparrow-backend/internal/config"
	"sparrow-backend/internal/middleware"
)

const secret = "test-secret-key-for-jwt-signing-must-be-long-enough"

func newRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.AuthMiddleware(cfg))
	router.GET("/test", func(c *gin.Context) {
		userID, _ := c.Get(middleware.UserIDKey)
		c.JSON(http.StatusOK, gin.H{"user": userID})
	})
	return router
}

func sign(t *testing.T, method jwt.SigningMethod, key string, claims jwt.MapClaims) string {
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func do(router *gin.Engine, auth string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", "/test", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_OpenWithoutSecret(t *testing.T) {
	w := do(newRouter(&config.Config{}), "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	w := do(newRouter(&config.Config{JWTSecret: secret}), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing authorization header")
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	router := newRouter(&config.Config{JWTSecret: secret})
	cases := map[string]string{
		"bad scheme":    "Token abc",
		"garbage token": "Bearer invalid-token",
		"wrong secret":  "Bearer " + sign(t, jwt.SigningMethodHS256, "other-secret", jwt.MapClaims{"sub": "u"}),
		"wrong alg":     "Bearer " + sign(t, jwt.SigningMethodHS512, secret, jwt.MapClaims{"sub": "u"}),
		"expired":       "Bearer " + sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Hour).Unix()}),
		"no subject":    "Bearer " + sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{"role": "x"}),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, do(router, header).Code)
		})
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	router := newRouter(&config.Config{JWTSecret: secret})
	token := sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{"sub": "user-123"})

	w := do(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-123")
}

func TestAuthMiddleware_QueryToken(t *testing.T) {
	router := newRouter(&config.Config{JWTSecret: secret})
	token := sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{"sub": "ws-user"})

	req, _ := http.NewRequest("GET", "/test?access_token="+token, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ws-user")
}
