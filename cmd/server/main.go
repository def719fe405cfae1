// Package main provides the subsidy chatbot server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jgrants-tools/subsidy-chatbot-go/internal/chat"
	"github.com/jgrants-tools/subsidy-chatbot-go/internal/config"
	"github.com/jgrants-tools/subsidy-chatbot-go/internal/genai"
	"github.com/jgrants-tools/subsidy-chatbot-go/internal/logger"
	"github.com/jgrants-tools/subsidy-chatbot-go/internal/mcp"
	"github.com/jgrants-tools/subsidy-chatbot-go/internal/metrics"
	"github.com/jgrants-tools/subsidy-chatbot-go/internal/sentry"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewWithOptions(cfg.LogLevel, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})
	log.WithField("version", version).Info("Starting subsidy chatbot server")

	// Initialize error tracking (disabled without a token)
	if err := sentry.Initialize(sentry.Config{
		Token:       cfg.SentryToken,
		Host:        cfg.SentryHost,
		Environment: cfg.Environment,
		Release:     version,
	}); err != nil {
		log.WithError(err).Fatal("Failed to initialize error tracking")
	}
	if sentry.IsEnabled() {
		log.Info("Error tracking enabled")
	}

	// Create Prometheus registry with runtime collectors
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())

	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Create tool server client
	toolClient := mcp.NewClient(cfg.MCPServerURL, cfg.HTTPTimeout, m, log)
	log.WithField("endpoint", cfg.MCPServerURL).Info("Tool server client created")

	// Create completion client (optional - requires OpenAI API key)
	var llm chat.Completer
	if llmClient := genai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, m, log); llmClient.Enabled() {
		llm = llmClient
		log.WithField("model", cfg.OpenAIModel).Info("LLM classification and rewrite enabled")
	} else {
		log.Info("OpenAI API key not configured, using rule-based classification")
	}

	chatHandler := chat.NewHandler(toolClient, llm, cfg, m, log)

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(securityHeadersMiddleware())
	router.Use(requestIDMiddleware())
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(loggingMiddleware(log))

	setupRoutes(router, chatHandler, toolClient, registry)

	// Write timeout leaves headroom over the outbound call timeouts so a
	// slow completion round-trip still produces a response.
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.HTTPTimeout*2 + 10*time.Second,
		IdleTimeout:  90 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	sentry.Flush(2 * time.Second)
	log.Info("Server stopped")
}
