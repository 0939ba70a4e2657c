package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNavigation(t *testing.T) {
	h := New(filepath.Join(t.TempDir(), "history"))
	h.Add("first")
	h.Add("second")

	entry, ok := h.Previous("draft")
	require.True(t, ok)
	require.Equal(t, "second", entry)

	entry, ok = h.Previous("draft")
	require.True(t, ok)
	require.Equal(t, "first", entry)

	// At the oldest entry already.
	entry, ok = h.Previous("draft")
	require.False(t, ok)
	require.Equal(t, "first", entry)

	entry, ok = h.Next()
	require.True(t, ok)
	require.Equal(t, "second", entry)

	// Past the newest entry: the saved draft comes back.
	entry, ok = h.Next()
	require.True(t, ok)
	require.Equal(t, "draft", entry)
}

func TestPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history")

	h := New(path)
	h.Add("multi\nline entry")
	h.Add("plain entry")

	reloaded := New(path)
	entry, ok := reloaded.Previous("")
	require.True(t, ok)
	require.Equal(t, "plain entry", entry)
	entry, ok = reloaded.Previous("")
	require.True(t, ok)
	require.Equal(t, "multi\nline entry", entry)
}

func TestSkipsBlanksAndDuplicates(t *testing.T) {
	h := New(filepath.Join(t.TempDir(), "history"))
	h.Add("   ")
	h.Add("only")
	h.Add("only")

	entry, ok := h.Previous("")
	require.True(t, ok)
	require.Equal(t, "only", entry)
	_, ok = h.Previous("")
	require.False(t, ok)
}
