// Package api exposes the status snapshot and metrics over HTTP. It is a
// read-only surface; the engine itself never serves requests.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/finbotd/finbot/internal/config"
	"github.com/finbotd/finbot/internal/status"
)

func NewServer(cfg config.ServerConfig, snap *status.Snapshot, logger *zap.Logger) *http.Server {
	gin.SetMode(ginMode(cfg.Mode))
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	router.GET("/healthz", func(c *gin.Context) {
		view := snap.View()
		code := http.StatusOK
		if !view.DatabaseOnline {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, view)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Debug("HTTP Request",
			zap.String("client_ip", c.ClientIP()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func ginMode(mode string) string {
	if mode == "release" {
		return gin.ReleaseMode
	}
	return gin.DebugMode
}
