package mcp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domerrors "github.com/jgrants-tools/subsidy-chatbot-go/internal/errors"
	"github.com/jgrants-tools/subsidy-chatbot-go/internal/logger"
	"github.com/jgrants-tools/subsidy-chatbot-go/internal/metrics"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient(baseURL, 5*time.Second, metrics.New(nil), logger.NewWithWriter("error", io.Discard))
}

func TestCall_ContentTextEnvelope(t *testing.T) {
	var captured rpcRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/mcp", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"content":[{"type":"text","text":"{\"total_count\":3}"}]}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	payload, err := client.Call(context.Background(), "search_subsidies", map[string]any{"keyword": "IT", "limit": 15})

	require.NoError(t, err)
	assert.JSONEq(t, `{"total_count":3}`, string(payload))

	assert.Equal(t, "2.0", captured.JSONRPC)
	assert.Equal(t, "tools/call", captured.Method)
	assert.Equal(t, "search_subsidies", captured.Params.Name)
	assert.Equal(t, "IT", captured.Params.Arguments["keyword"])
	assert.NotZero(t, captured.ID)
}

func TestCall_RawResultEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"total_count":7,"results":[]}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	payload, err := client.Call(context.Background(), "search_subsidies", nil)

	require.NoError(t, err)
	assert.JSONEq(t, `{"total_count":7,"results":[]}`, string(payload))
}

func TestCall_NonJSONContentText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"content":[{"type":"text","text":"pong"}]}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	payload, err := client.Call(context.Background(), "ping", nil)

	require.NoError(t, err)
	assert.Equal(t, `"pong"`, string(payload))
}

func TestCall_ToolReportedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"content":[{"type":"text","text":"{\"error\":\"キーワードは2文字以上必要です\"}"}]}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Call(context.Background(), "search_subsidies", map[string]any{"keyword": "x"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domerrors.ErrToolInvocation)
	assert.Contains(t, err.Error(), "キーワードは2文字以上必要です")
}

func TestCall_HTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Call(context.Background(), "get_subsidy_detail", map[string]any{"subsidy_id": "abcdefgh12345678XY"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domerrors.ErrToolInvocation)

	var toolErr *domerrors.ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, http.StatusInternalServerError, toolErr.StatusCode)
	assert.Equal(t, "get_subsidy_detail", toolErr.Tool)
}

func TestCall_MalformedEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>nope</html>"},
		{"missing result", `{"jsonrpc":"2.0","id":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)
			_, err := client.Call(context.Background(), "search_subsidies", nil)
			assert.ErrorIs(t, err, domerrors.ErrToolInvocation)
		})
	}
}

func TestCall_ServerUnreachable(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")
	_, err := client.Call(context.Background(), "search_subsidies", nil)
	assert.ErrorIs(t, err, domerrors.ErrToolInvocation)
}

func TestCall_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(t, server.URL)
	_, err := client.Call(ctx, "search_subsidies", nil)
	assert.ErrorIs(t, err, domerrors.ErrToolInvocation)
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ping", req.Params.Name)

		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"content":[{"type":"text","text":"pong"}]}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	assert.NoError(t, client.Ping(context.Background()))
}

func TestUnwrapResult(t *testing.T) {
	tests := []struct {
		name   string
		result string
		want   string
	}{
		{"json string content", `{"content":[{"text":"{\"a\":1}"}]}`, `{"a":1}`},
		{"plain text content", `{"content":[{"text":"pong"}]}`, `"pong"`},
		{"raw object", `{"total_count":1}`, `{"total_count":1}`},
		{"empty content array", `{"content":[]}`, `{"content":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := unwrapResult(json.RawMessage(tt.result))
			assert.Equal(t, tt.want, string(got))
		})
	}
}
