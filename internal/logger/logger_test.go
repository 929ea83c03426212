package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_SharedInstance(t *testing.T) {
	first := Get()
	second := Get()

	require.NotNil(t, first)
	assert.Same(t, first, second, "every caller logs through the same instance")
}

func TestGet_SupportsChainedCalls(t *testing.T) {
	// Level methods hang off *Logger; the accessor must hand out a pointer so
	// call sites can chain directly off Get().
	Get().Debug().Str("check", "chain").Msg("")
}
