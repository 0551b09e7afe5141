package handler

import (
	"context"
	"net/http"
	"time"

	"printmonitor/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// estadoSonda is implemented by probes that sit behind a breaker.
type estadoSonda interface {
	Estado() infra.EstadoDisjuntor
}

// Health reports postgres, redis and probe status.
// Redis is optional: without a client it reports "disabled" and stays healthy.
// An open probe breaker is reported but does not fail the check.
func Health(db *gorm.DB, rdb *redis.Client, sonda infra.Sonda) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		body := gin.H{"db": "connected", "redis": "disabled", "sonda": "native"}
		status := http.StatusOK

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			body["db"] = "error"
			status = http.StatusServiceUnavailable
		}
		if rdb != nil {
			body["redis"] = "connected"
			if rdb.Ping(ctx).Err() != nil {
				body["redis"] = "error"
				status = http.StatusServiceUnavailable
			}
		}
		if s, ok := sonda.(estadoSonda); ok {
			body["sonda"] = s.Estado().String()
		}

		body["ok"] = status == http.StatusOK
		c.JSON(status, body)
	}
}
