// Package config defines environment variable keys for configuration.
package config

//nolint:gosec // Environment variable keys are not credentials.
const (
	// Tool server
	EnvMCPServerURL = "JGRANTS_MCP_SERVER_URL"

	// Completion API (optional - empty key disables the LLM path)
	EnvOpenAIAPIKey = "JGRANTS_OPENAI_API_KEY"
	EnvOpenAIModel  = "JGRANTS_OPENAI_MODEL"

	// Server
	EnvPort            = "JGRANTS_PORT"
	EnvLogLevel        = "JGRANTS_LOG_LEVEL"
	EnvEnvironment     = "JGRANTS_ENVIRONMENT"
	EnvShutdownTimeout = "JGRANTS_SHUTDOWN_TIMEOUT"
	EnvHTTPTimeout     = "JGRANTS_HTTP_TIMEOUT"

	// Observability (optional)
	EnvBetterStackToken    = "JGRANTS_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "JGRANTS_BETTERSTACK_ENDPOINT"
	EnvSentryToken         = "JGRANTS_SENTRY_TOKEN"
	EnvSentryHost          = "JGRANTS_SENTRY_HOST"
)
