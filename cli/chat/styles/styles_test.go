package styles

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", Truncate("short", 10))
	require.Equal(t, "a long ...", Truncate("a long title that overflows", 10))
	// Multi-byte titles are cut on rune boundaries.
	require.Equal(t, "አዲስ ም...", Truncate("አዲስ ምክክር ነው ይህ", 8))
}
