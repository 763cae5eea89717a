package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/storyweaver/internal/handlers"
	"github.com/thereayou/storyweaver/pkg/auth"
)

func newLogoutRouter(rdb *redis.Client) (*gin.Engine, *auth.JWTManager) {
	gin.SetMode(gin.TestMode)
	jwtMgr := auth.NewJWTManager("test-secret", time.Hour)
	r := gin.New()
	r.POST("/auth/logout", handlers.NewAuthHandler(jwtMgr, rdb).Logout)
	return r, jwtMgr
}

func TestAuthHandler_Logout_RedisDown(t *testing.T) {
	// Недоступный Redis: запись в черный список должна провалить logout,
	// а не молча пройти
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	router, jwtMgr := newLogoutRouter(rdb)

	token, err := jwtMgr.Generate("user")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAuthHandler_Logout_MissingHeader(t *testing.T) {
	router, _ := newLogoutRouter(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}))

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Logout_InvalidToken(t *testing.T) {
	router, _ := newLogoutRouter(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}))

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
