// Package mcp implements the HTTP client for the subsidy tool server.
// The server speaks a JSON-RPC shaped protocol: a single POST endpoint
// accepting tools/call envelopes and returning the tool result either as a
// JSON-encoded string inside a content array or as a raw object.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domerrors "github.com/jgrants-tools/subsidy-chatbot-go/internal/errors"
	"github.com/jgrants-tools/subsidy-chatbot-go/internal/logger"
	"github.com/jgrants-tools/subsidy-chatbot-go/internal/metrics"
	"github.com/jgrants-tools/subsidy-chatbot-go/internal/subsidy"
)

// Client invokes tools on the configured tool server.
// It performs exactly one request per call: no retries, no streaming.
type Client struct {
	httpClient *http.Client
	endpoint   string
	metrics    *metrics.Metrics
	logger     *logger.Logger
}

// NewClient creates a tool server client for the given base URL.
// The timeout applies to each individual invocation.
func NewClient(baseURL string, timeout time.Duration, m *metrics.Metrics, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		endpoint: strings.TrimSuffix(baseURL, "/") + "/mcp",
		metrics:  m,
		logger:   log,
	}
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      int64     `json:"id"`
}

type rpcParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type rpcEnvelope struct {
	Result json.RawMessage `json:"result"`
}

type contentEnvelope struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// toolFailure is the error shape tools report inside an otherwise
// successful envelope (e.g. a keyword shorter than two characters).
type toolFailure struct {
	Error string `json:"error"`
}

// Call invokes the named tool and returns its normalized result payload.
// Transport failures, non-2xx statuses, malformed envelopes, and
// tool-reported errors all collapse into a ToolError; the orchestrator
// does not distinguish between them.
func (c *Client) Call(ctx context.Context, tool string, arguments map[string]any) (json.RawMessage, error) {
	log := c.logger.WithModule("mcp").WithField("tool", tool)
	start := time.Now()

	payload, err := c.call(ctx, tool, arguments)
	seconds := time.Since(start).Seconds()

	if err != nil {
		log.WithError(err).Error("Tool invocation failed")
		c.metrics.RecordToolCall(tool, "error", seconds)
		return nil, err
	}

	log.WithField("duration_ms", time.Since(start).Milliseconds()).Debug("Tool invocation completed")
	c.metrics.RecordToolCall(tool, "success", seconds)
	return payload, nil
}

func (c *Client) call(ctx context.Context, tool string, arguments map[string]any) (json.RawMessage, error) {
	if arguments == nil {
		arguments = map[string]any{}
	}

	// The id only needs to be unique within this single synchronous
	// request/response pair; it is not a correlation primitive.
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  "tools/call",
		Params:  rpcParams{Name: tool, Arguments: arguments},
		ID:      time.Now().UnixMilli(),
	})
	if err != nil {
		return nil, domerrors.NewToolError(tool, 0, fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, domerrors.NewToolError(tool, 0, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domerrors.NewToolError(tool, 0, fmt.Errorf("request failed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a bounded amount so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, domerrors.NewToolError(tool, resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
	}

	var envelope rpcEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, domerrors.NewToolError(tool, resp.StatusCode, fmt.Errorf("decode envelope: %w", err))
	}
	if len(envelope.Result) == 0 {
		return nil, domerrors.NewToolError(tool, resp.StatusCode, fmt.Errorf("envelope has no result"))
	}

	payload := unwrapResult(envelope.Result)

	// Tools report their own failures inside a successful envelope.
	var failure toolFailure
	if err := json.Unmarshal(payload, &failure); err == nil && failure.Error != "" {
		return nil, domerrors.NewToolError(tool, 0, fmt.Errorf("tool error: %s", failure.Error))
	}

	return payload, nil
}

// unwrapResult normalizes the two envelope shapes the server emits:
// {result: {content: [{text: "<json>"}]}} and {result: <object>}.
// Non-JSON content text (e.g. the ping tool's bare "pong") is re-encoded
// as a JSON string.
func unwrapResult(result json.RawMessage) json.RawMessage {
	var content contentEnvelope
	if err := json.Unmarshal(result, &content); err == nil && len(content.Content) > 0 && content.Content[0].Text != "" {
		text := content.Content[0].Text
		if json.Valid([]byte(text)) {
			return json.RawMessage(text)
		}
		quoted, err := json.Marshal(text)
		if err == nil {
			return quoted
		}
	}
	return result
}

// Ping checks tool server reachability via the ping tool.
// Used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Call(ctx, subsidy.ToolPing, nil)
	return err
}
