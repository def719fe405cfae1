// Package chat implements the chat orchestration endpoint: classify the
// user message, invoke the matching tool, format the result, and optionally
// rewrite it through the completion API.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jgrants-tools/subsidy-chatbot-go/internal/config"
	"github.com/jgrants-tools/subsidy-chatbot-go/internal/ctxutil"
	domerrors "github.com/jgrants-tools/subsidy-chatbot-go/internal/errors"
	"github.com/jgrants-tools/subsidy-chatbot-go/internal/intent"
	"github.com/jgrants-tools/subsidy-chatbot-go/internal/logger"
	"github.com/jgrants-tools/subsidy-chatbot-go/internal/metrics"
	"github.com/jgrants-tools/subsidy-chatbot-go/internal/sentry"
	"github.com/jgrants-tools/subsidy-chatbot-go/internal/subsidy"
)

// User-facing error strings. Internal causes never reach the caller.
const (
	errMessageRequired = "メッセージが必要です"
	errServerError     = "サーバーエラーが発生しました"
	serverErrorReply   = "申し訳ございません。エラーが発生しました。MCPサーバーが起動しているか確認してください。"
)

// ToolInvoker invokes a named tool on the tool server.
type ToolInvoker interface {
	Call(ctx context.Context, tool string, arguments map[string]any) (json.RawMessage, error)
}

// Completer is the optional LLM path: intent classification and final
// answer rewriting. A nil Completer means the rule-based path is used and
// the rewrite step is skipped.
type Completer interface {
	ClassifyIntent(ctx context.Context, message string) (intent.Result, error)
	Rewrite(ctx context.Context, userMessage, formatted string) (string, error)
}

// Handler serves the chat and debug endpoints.
type Handler struct {
	tools   ToolInvoker
	llm     Completer
	cfg     *config.Config
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewHandler creates the chat handler. llm may be nil.
func NewHandler(tools ToolInvoker, llm Completer, cfg *config.Config, m *metrics.Metrics, log *logger.Logger) *Handler {
	return &Handler{
		tools:   tools,
		llm:     llm,
		cfg:     cfg,
		metrics: m,
		logger:  log.WithModule("chat"),
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

// parseRequest validates the request body. Both a malformed body and an
// empty message classify as ErrInvalidInput.
func parseRequest(c *gin.Context) (chatRequest, error) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, fmt.Errorf("%w: %v", domerrors.ErrInvalidInput, err)
	}
	if req.Message == "" {
		return req, fmt.Errorf("%w: message is empty", domerrors.ErrInvalidInput)
	}
	return req, nil
}

// HandleChat runs the full pipeline for one user message. The steps are
// strictly sequential; every failure after input validation collapses into
// the same generic 500 reply, with the cause recorded only in logs.
func (h *Handler) HandleChat(c *gin.Context) {
	ctx := c.Request.Context()
	requestID, _ := ctxutil.GetRequestID(ctx)
	log := h.logger.WithRequestID(requestID)
	start := time.Now()

	req, err := parseRequest(c)
	if err != nil {
		log.WithError(err).Warn("Rejected chat request")
		h.metrics.RecordChatRequest("none", "invalid_input", time.Since(start).Seconds())
		h.metrics.RecordHTTPError(c.FullPath(), "400")
		c.JSON(http.StatusBadRequest, gin.H{"error": errMessageRequired})
		return
	}

	result, err := h.classify(ctx, req.Message)
	if err != nil {
		h.serverError(c, log, "none", start, fmt.Errorf("classify intent: %w", err))
		return
	}
	log = log.WithField("intent", string(result.Intent))

	raw, err := h.tools.Call(ctx, toolForIntent(result.Intent), result.Params)
	if err != nil {
		h.serverError(c, log, string(result.Intent), start, err)
		return
	}

	formatted, err := formatResult(result.Intent, raw)
	if err != nil {
		h.serverError(c, log, string(result.Intent), start, fmt.Errorf("decode tool result: %w", err))
		return
	}

	if h.llm != nil {
		formatted, err = h.llm.Rewrite(ctx, req.Message, formatted)
		if err != nil {
			h.serverError(c, log, string(result.Intent), start, err)
			return
		}
	}

	h.metrics.RecordChatRequest(string(result.Intent), "success", time.Since(start).Seconds())
	log.WithField("duration_ms", time.Since(start).Milliseconds()).Info("Chat request completed")

	c.JSON(http.StatusOK, gin.H{
		"response": formatted,
		"raw":      raw,
	})
}

// classify picks the LLM path when available, the rule-based path otherwise.
func (h *Handler) classify(ctx context.Context, message string) (intent.Result, error) {
	if h.llm != nil {
		return h.llm.ClassifyIntent(ctx, message)
	}
	return intent.Classify(message), nil
}

func toolForIntent(i intent.Intent) string {
	switch i {
	case intent.IntentGetDetail:
		return subsidy.ToolDetail
	case intent.IntentGetStatistics:
		return subsidy.ToolStatistics
	default:
		return subsidy.ToolSearch
	}
}

// formatResult decodes the tool payload into the shape the intent implies
// and renders it.
func formatResult(i intent.Intent, raw json.RawMessage) (string, error) {
	switch i {
	case intent.IntentGetDetail:
		var d subsidy.Detail
		if err := json.Unmarshal(raw, &d); err != nil {
			return "", err
		}
		return subsidy.FormatDetail(&d), nil

	case intent.IntentGetStatistics:
		var s subsidy.Statistics
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return subsidy.FormatStatistics(&s), nil

	default:
		var r subsidy.SearchResult
		if err := json.Unmarshal(raw, &r); err != nil {
			return "", err
		}
		return subsidy.FormatSearch(&r), nil
	}
}

// serverError logs the cause and replies with the fixed apology text.
func (h *Handler) serverError(c *gin.Context, log *logger.Logger, intentLabel string, start time.Time, err error) {
	log.WithError(err).Error("Chat request failed")
	sentry.CaptureException(c.Request.Context(), err)

	h.metrics.RecordChatRequest(intentLabel, "error", time.Since(start).Seconds())
	h.metrics.RecordHTTPError(c.FullPath(), "500")

	c.JSON(http.StatusInternalServerError, gin.H{
		"error":    errServerError,
		"response": serverErrorReply,
	})
}

// HandleDebug reports the effective environment configuration. Credentials
// are truncated to a short preview.
func (h *Handler) HandleDebug(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
		"hasOpenAIKey":     h.cfg.HasOpenAIKey(),
		"openaiKeyPreview": keyPreview(h.cfg.OpenAIAPIKey),
		"mcpServerUrl":     h.cfg.MCPServerURL,
		"environment":      h.cfg.Environment,
		"message":          "Debug endpoint for checking environment variables",
	})
}

func keyPreview(key string) string {
	if key == "" {
		return "NOT SET"
	}
	if len(key) > 10 {
		key = key[:10]
	}
	return key + "..."
}
