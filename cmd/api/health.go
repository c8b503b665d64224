package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"accessrating-backend/internal/infrastructure/database"
)

// pinger is satisfied by the postgres and redis clients.
type pinger interface {
	HealthCheck(ctx context.Context) error
}

// poolReporter is satisfied by the postgres client.
type poolReporter interface {
	Stats() (*database.PoolStats, error)
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
// The database is required; redis only degrades the report.
func healthCheckHandler(db, redis pinger, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   version,
		}

		dbStatus := check(c.Request.Context(), db)
		redisStatus := check(c.Request.Context(), redis)
		if dbStatus != "ok" || redisStatus != "ok" {
			health["status"] = "degraded"
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}
		if r, ok := db.(poolReporter); ok && dbStatus == "ok" {
			if stats, err := r.Stats(); err == nil {
				health["database_pool"] = stats
			}
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}

func check(ctx context.Context, p pinger) string {
	if p == nil {
		return "disconnected"
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := p.HealthCheck(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}
