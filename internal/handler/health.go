package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker - зависимость, чьё состояние попадает в /health
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthCheck возвращает статус здоровья сервиса.
// redis может быть nil, если приложение работает без Redis.
func HealthCheck(redis HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "disabled"
		if redis != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			status = "up"
			if err := redis.HealthCheck(ctx); err != nil {
				status = "down"
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "currency-converter-live",
			"version": "v3.0.0",
			"redis":   status,
		})
	}
}
