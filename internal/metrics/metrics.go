// Package metrics defines Prometheus instrumentation for the chat pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Chat pipeline metrics
	ChatRequestsTotal   *prometheus.CounterVec
	ChatDurationSeconds *prometheus.HistogramVec

	// Tool server metrics
	ToolCallsTotal      *prometheus.CounterVec
	ToolDurationSeconds *prometheus.HistogramVec

	// Completion API metrics
	LLMRequestsTotal   *prometheus.CounterVec
	LLMDurationSeconds *prometheus.HistogramVec

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered.
// A nil registry creates unregistered metrics; the typed pointer must not
// reach promauto as a non-nil interface, or registration would dereference
// the nil registry.
func New(registry *prometheus.Registry) *Metrics {
	var reg prometheus.Registerer
	if registry != nil {
		reg = registry
	}
	factory := promauto.With(reg)

	return &Metrics{
		ChatRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jgrants_chat_requests_total",
				Help: "Total number of chat requests by intent and status",
			},
			[]string{"intent", "status"}, // status: success, error, invalid_input
		),

		ChatDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jgrants_chat_duration_seconds",
				Help:    "End-to-end chat request duration in seconds by intent",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"intent"},
		),

		ToolCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jgrants_tool_calls_total",
				Help: "Total number of tool server calls by tool and status",
			},
			[]string{"tool", "status"}, // status: success, error
		),

		ToolDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jgrants_tool_duration_seconds",
				Help:    "Tool server call duration in seconds by tool",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"tool"},
		),

		LLMRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jgrants_llm_requests_total",
				Help: "Total number of completion API calls by operation and status",
			},
			[]string{"operation", "status"}, // operation: classify, rewrite
		),

		LLMDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jgrants_llm_duration_seconds",
				Help:    "Completion API call duration in seconds by operation",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"operation"},
		),

		HTTPErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jgrants_http_errors_total",
				Help: "Total number of HTTP error responses by path and code",
			},
			[]string{"path", "code"},
		),
	}
}

// RecordChatRequest records a completed chat request.
func (m *Metrics) RecordChatRequest(intent, status string, seconds float64) {
	if m == nil {
		return
	}
	m.ChatRequestsTotal.WithLabelValues(intent, status).Inc()
	m.ChatDurationSeconds.WithLabelValues(intent).Observe(seconds)
}

// RecordToolCall records a tool server invocation.
func (m *Metrics) RecordToolCall(tool, status string, seconds float64) {
	if m == nil {
		return
	}
	m.ToolCallsTotal.WithLabelValues(tool, status).Inc()
	m.ToolDurationSeconds.WithLabelValues(tool).Observe(seconds)
}

// RecordLLMRequest records a completion API call.
func (m *Metrics) RecordLLMRequest(operation, status string, seconds float64) {
	if m == nil {
		return
	}
	m.LLMRequestsTotal.WithLabelValues(operation, status).Inc()
	m.LLMDurationSeconds.WithLabelValues(operation).Observe(seconds)
}

// RecordHTTPError records an HTTP error response.
func (m *Metrics) RecordHTTPError(path, code string) {
	if m == nil {
		return
	}
	m.HTTPErrorsTotal.WithLabelValues(path, code).Inc()
}
