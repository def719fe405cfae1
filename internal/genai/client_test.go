package genai

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgrants-tools/subsidy-chatbot-go/internal/intent"
	"github.com/jgrants-tools/subsidy-chatbot-go/internal/logger"
	"github.com/jgrants-tools/subsidy-chatbot-go/internal/metrics"
)

func TestNew_DisabledWithoutKey(t *testing.T) {
	client := New("", "gpt-4o-mini", metrics.New(nil), logger.NewWithWriter("error", io.Discard))

	assert.Nil(t, client)
	assert.False(t, client.Enabled())
}

func TestNew_EnabledWithKey(t *testing.T) {
	client := New("sk-test", "gpt-4o-mini", metrics.New(nil), logger.NewWithWriter("error", io.Discard))

	require.NotNil(t, client)
	assert.True(t, client.Enabled())
}

func TestParseClassification(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		message string
		want    intent.Intent
	}{
		{"search action", `{"action":"search","keyword":"IT"}`, "ITの補助金", intent.IntentSearch},
		{"detail action", `{"action":"detail","subsidy_id":"abcdefgh12345678XY"}`, "詳細", intent.IntentGetDetail},
		{"statistics action", `{"action":"statistics","keyword":"製造業"}`, "統計", intent.IntentGetStatistics},
		{"fenced json", "```json\n{\"action\":\"statistics\",\"keyword\":\"事業\"}\n```", "統計", intent.IntentGetStatistics},
		// Degraded-accuracy fallbacks, never errors.
		{"not json", "検索したいようです", "補助金", intent.IntentSearch},
		{"unknown action", `{"action":"chat"}`, "こんにちは", intent.IntentSearch},
		{"detail without id", `{"action":"detail"}`, "詳細を教えて", intent.IntentSearch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseClassification(tt.reply, tt.message)
			assert.Equal(t, tt.want, got.Intent)
		})
	}
}

func TestParseClassification_SearchKeyword(t *testing.T) {
	got := parseClassification(`{"action":"search","keyword":"スタートアップ"}`, "起業支援は？")
	assert.Equal(t, "スタートアップ", got.Params["keyword"])

	// Missing keyword falls back to the raw message.
	got = parseClassification(`{"action":"search"}`, "起業支援は？")
	assert.Equal(t, "起業支援は？", got.Params["keyword"])

	// Unparsable replies also carry the raw message as keyword.
	got = parseClassification("no json here", "起業支援は？")
	assert.Equal(t, "起業支援は？", got.Params["keyword"])
}

func TestParseClassification_DetailParams(t *testing.T) {
	got := parseClassification(`{"action":"detail","subsidy_id":"AbCdEfGh12345678Xy"}`, "詳細")

	require.Equal(t, intent.IntentGetDetail, got.Intent)
	assert.Equal(t, "AbCdEfGh12345678Xy", got.Params["subsidy_id"])
	assert.Len(t, got.Params, 1)
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, stripCodeFence(tt.in))
	}
}
