package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtnghia/syllabus-backend/config"
)

// GET /health
func HealthCheck(c *gin.Context) {
	status := "ok"
	dbStatus := "ok"

	sqlDB, err := config.DB.DB()
	if err != nil {
		status, dbStatus = "degraded", "unreachable"
	} else if err := sqlDB.Ping(); err != nil {
		status, dbStatus = "degraded", "unreachable"
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"database":  dbStatus,
		"timestamp": time.Now().UTC(),
	})
}
