package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HealthHandler struct {
	ping func() error
	log  *zap.Logger
}

func NewHealthHandler(ping func() error, log *zap.Logger) *HealthHandler {
	return &HealthHandler{ping: ping, log: log}
}

func (h *HealthHandler) Get(c *gin.Context) {
	if err := h.ping(); err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
}
