// Package main provides the subsidy chatbot server entry point.
package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jgrants-tools/subsidy-chatbot-go/internal/chat"
	"github.com/jgrants-tools/subsidy-chatbot-go/internal/mcp"
)

// setupRoutes configures all HTTP routes
func setupRoutes(router *gin.Engine, chatHandler *chat.Handler, toolClient *mcp.Client, registry *prometheus.Registry) {
	// Root endpoint - redirect to the repository
	rootHandler := func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "https://github.com/jgrants-tools/subsidy-chatbot-go")
	}
	router.GET("/", rootHandler)
	router.HEAD("/", rootHandler)

	// Liveness probe - only checks that the process is serving, never
	// touches dependencies
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness probe - verifies the tool server answers a ping
	readyHandler := func(c *gin.Context) {
		checkCtx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if err := toolClient.Ping(checkCtx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": "tool server unreachable",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"tool_server": "connected",
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// Chat API
	api := router.Group("/api")
	{
		api.POST("/chat", chatHandler.HandleChat)
		api.GET("/debug", chatHandler.HandleDebug)
	}

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
}
