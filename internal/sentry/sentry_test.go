package sentry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize_EmptyTokenDisables(t *testing.T) {
	require.NoError(t, Initialize(Config{Token: ""}))
	assert.False(t, IsEnabled())
}

func TestInitialize_TokenWithoutHost(t *testing.T) {
	assert.Error(t, Initialize(Config{Token: "test-token"}))
}

func TestInitialize_ValidConfig(t *testing.T) {
	// Sentry uses global state, so no t.Parallel here.
	err := Initialize(Config{
		Token:       "test-token",
		Host:        "errors.betterstack.com",
		Environment: "test",
		Release:     "test",
	})

	require.NoError(t, err)
	assert.True(t, IsEnabled())

	Flush(time.Second)
}

func TestFlush_NoPendingEvents(t *testing.T) {
	assert.True(t, Flush(100*time.Millisecond))
}
