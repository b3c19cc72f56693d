package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HealthController struct {
	// Ping checks the backing store. Nil means there is nothing to check.
	Ping   func() error
	Logger *zap.SugaredLogger
}

func (h HealthController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h HealthController) Ready(c *gin.Context) {
	if h.Ping != nil {
		if err := h.Ping(); err != nil {
			h.Logger.Errorw("Store is not reachable", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
