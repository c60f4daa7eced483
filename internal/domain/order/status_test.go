package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "processing", "completed", "cancelled"} {
		parsed, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, parsed.String())
		assert.True(t, parsed.Valid())
	}
}

func TestParseStatus_Unknown(t *testing.T) {
	for _, s := range []string{"", "shipped", "PENDING", "done"} {
		_, err := ParseStatus(s)
		assert.ErrorIs(t, err, ErrInvalidStatus, "status %q", s)
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}
