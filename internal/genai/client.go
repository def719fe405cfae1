// Package genai integrates the hosted completion API used for intent
// classification and answer rewriting. The whole package is optional: the
// constructor returns a nil client when no API key is configured, and the
// orchestrator substitutes the rule-based classifier in that case.
package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	domerrors "github.com/jgrants-tools/subsidy-chatbot-go/internal/errors"
	"github.com/jgrants-tools/subsidy-chatbot-go/internal/intent"
	"github.com/jgrants-tools/subsidy-chatbot-go/internal/logger"
	"github.com/jgrants-tools/subsidy-chatbot-go/internal/metrics"
)

// Sampling parameters, fixed per operation.
const (
	classifyTemperature = 0.1
	classifyMaxTokens   = 256
	rewriteTemperature  = 0.7
	rewriteMaxTokens    = 1024
)

// Client calls the completion API with a fixed model.
type Client struct {
	client  openai.Client
	model   string
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// New creates a completion client.
// Returns nil if apiKey is empty (the LLM path is disabled).
func New(apiKey, model string, m *metrics.Metrics, log *logger.Logger) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		metrics: m,
		logger:  log,
	}
}

// Enabled reports whether the LLM path is available.
// Safe to call on a nil receiver.
func (c *Client) Enabled() bool {
	return c != nil
}

// classification is the reply shape the classify prompt asks for.
type classification struct {
	Action    string `json:"action"`
	Keyword   string `json:"keyword"`
	SubsidyID string `json:"subsidy_id"`
}

// ClassifyIntent asks the model to classify the user message.
// A reply that fails to parse, or names an unusable action, degrades to the
// default search intent with the raw message as keyword; only an API
// failure is reported as an error.
func (c *Client) ClassifyIntent(ctx context.Context, message string) (intent.Result, error) {
	reply, err := c.complete(ctx, "classify", []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(ClassifySystemPrompt),
		openai.UserMessage(message),
	}, classifyTemperature, classifyMaxTokens)
	if err != nil {
		return intent.Result{}, err
	}

	return parseClassification(reply, message), nil
}

// parseClassification maps a model reply onto an intent result.
// It is total: anything unusable falls back to a search with the raw
// message as keyword.
func parseClassification(reply, message string) intent.Result {
	var parsed classification
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &parsed); err != nil {
		return intent.Result{Intent: intent.IntentSearch, Params: intent.SearchParams(message)}
	}

	switch parsed.Action {
	case "detail":
		if parsed.SubsidyID != "" {
			return intent.Result{
				Intent: intent.IntentGetDetail,
				Params: map[string]any{"subsidy_id": parsed.SubsidyID},
			}
		}
	case "statistics":
		return intent.Result{Intent: intent.IntentGetStatistics, Params: intent.StatisticsParams(parsed.Keyword)}
	case "search":
		keyword := parsed.Keyword
		if keyword == "" {
			keyword = message
		}
		return intent.Result{Intent: intent.IntentSearch, Params: intent.SearchParams(keyword)}
	}

	return intent.Result{Intent: intent.IntentSearch, Params: intent.SearchParams(message)}
}

// stripCodeFence removes a surrounding markdown code fence if the model
// ignored the bare-JSON instruction.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Rewrite turns the templated tool output into conversational prose.
// The prompt instructs the model to keep the emoji status markers verbatim.
func (c *Client) Rewrite(ctx context.Context, userMessage, formatted string) (string, error) {
	prompt := fmt.Sprintf("ユーザーの質問: %s\n\n検索結果:\n%s", userMessage, formatted)

	return c.complete(ctx, "rewrite", []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(RewriteSystemPrompt),
		openai.UserMessage(prompt),
	}, rewriteTemperature, rewriteMaxTokens)
}

// complete performs one chat completion call and returns the first
// candidate's text. All failures, including an empty candidate list,
// collapse into a CompletionError for the given operation.
func (c *Client) complete(ctx context.Context, operation string, messages []openai.ChatCompletionMessageParamUnion, temperature float64, maxTokens int64) (string, error) {
	if c == nil {
		return "", domerrors.NewCompletionError(operation, fmt.Errorf("client not configured"))
	}

	log := c.logger.WithModule("genai").WithField("operation", operation)
	start := time.Now()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    messages,
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(maxTokens),
	})
	seconds := time.Since(start).Seconds()

	if err != nil {
		log.WithError(err).Error("Completion call failed")
		c.metrics.RecordLLMRequest(operation, "error", seconds)
		return "", domerrors.NewCompletionError(operation, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		log.Error("Completion returned no candidates")
		c.metrics.RecordLLMRequest(operation, "error", seconds)
		return "", domerrors.NewCompletionError(operation, fmt.Errorf("empty response from model"))
	}

	log.WithFields(map[string]any{
		"duration_ms":  time.Since(start).Milliseconds(),
		"total_tokens": resp.Usage.TotalTokens,
	}).Debug("Completion call finished")
	c.metrics.RecordLLMRequest(operation, "success", seconds)

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
