package attachment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestFromFileClassifiesImages(t *testing.T) {
	path := writeFile(t, "evidence.png", []byte{0x89, 'P', 'N', 'G'})

	att, err := FromFile(path)
	require.NoError(t, err)
	require.Equal(t, KindImage, att.Kind)
	require.Equal(t, "image/png", att.MediaType)
	require.Equal(t, "evidence.png", att.Name)
}

func TestFromFileClassifiesDocuments(t *testing.T) {
	path := writeFile(t, "contract.pdf", []byte("%PDF-1.7 lorem"))

	att, err := FromFile(path)
	require.NoError(t, err)
	require.Equal(t, KindFile, att.Kind)
	require.Equal(t, "application/pdf", att.MediaType)
}

func TestFromFileMissingFile(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.ErrorIs(t, err, ErrFileRead)
}

func TestRoundTrip(t *testing.T) {
	payload := []byte{0x00, 0x01, 0xFF, 'a', 'b', 0x7F, 0x80}
	path := writeFile(t, "blob.bin", payload)

	att, err := FromFile(path)
	require.NoError(t, err)

	decoded, err := att.Decode()
	require.NoError(t, err)
	require.Equal(t, payload, decoded)
}

func TestFromAudio(t *testing.T) {
	att := FromAudio("clip.webm", "audio/webm", []byte("opus-ish"))
	require.Equal(t, KindAudio, att.Kind)

	decoded, err := att.Decode()
	require.NoError(t, err)
	require.Equal(t, []byte("opus-ish"), decoded)
}
