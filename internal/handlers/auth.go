package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/thereayou/storyweaver/pkg/auth"
)

// AuthHandler — единственная auth-поверхность сервиса: токены выдает
// внешний провайдер, здесь их можно только отозвать.
type AuthHandler struct {
	jwtManager *auth.JWTManager
	redis      *redis.Client
}

func NewAuthHandler(jwtMgr *auth.JWTManager, rdb *redis.Client) *AuthHandler {
	return &AuthHandler{jwtManager: jwtMgr, redis: rdb}
}

// Logout ставит токен в черный список в Redis до истечения
func (h *AuthHandler) Logout(c *gin.Context) {
	rawToken, err := auth.ExtractTokenFromHeader(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exp, err := h.jwtManager.Expiry(rawToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	ttl := time.Until(exp)
	err = h.redis.Set(c.Request.Context(), "blacklist:"+rawToken, 1, ttl).Err()
	if err != nil {
		logrus.WithError(err).Error("Failed to blacklist token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}

	c.Status(http.StatusOK)
}
