package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeb_SearchWithoutAPIKey(t *testing.T) {
	w := NewWeb("")

	// The turn loop absorbs tool errors into the conversation; an
	// unconfigured search must surface as an error, not a panic.
	out, err := w.Execute(context.Background(), `{"action":"search","query":"weather"}`)
	require.Error(t, err)
	assert.Empty(t, out)
	assert.Contains(t, err.Error(), "not configured")
}

func TestWeb_UnknownAction(t *testing.T) {
	w := NewWeb("")

	_, err := w.Execute(context.Background(), `{"action":"teleport"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action")
}
