package tools

import (
	"context"
	"errors"
	"testing"
	"time"

	"magpie/internal/agent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClock_UTC(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := &Clock{now: func() time.Time { return fixed }}

	got, err := c.Execute(context.Background(), `{"timezone":""}`)
	require.NoError(t, err)
	assert.Equal(t, fixed.Format(time.RFC1123), got)
}

func TestClock_NamedZone(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := &Clock{now: func() time.Time { return fixed }}

	got, err := c.Execute(context.Background(), `{"timezone":"America/New_York"}`)
	require.NoError(t, err)
	assert.Contains(t, got, "08:00")
}

func TestClock_BadZone(t *testing.T) {
	c := NewClock()
	_, err := c.Execute(context.Background(), `{"timezone":"Mars/Olympus"}`)
	require.Error(t, err)

	var ae *agent.ArgumentError
	assert.True(t, errors.As(err, &ae))
}
