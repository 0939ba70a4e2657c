package configuration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseWritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	config, err := Parse(path)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000", config.APIHost)
	require.Equal(t, 60, config.RequestTimeout)
	require.Equal(t, "en", config.Language)
	require.Equal(t, "en-US", config.Speech.Locales["en"])
	require.Equal(t, "am-ET", config.Speech.Locales["am"])

	// The default file now exists on disk.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestParseReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	existing := Config{
		APIHost:         "https://counsel.example.com",
		RequestTimeout:  15,
		Language:        "am",
		CredentialsFile: filepath.Join(t.TempDir(), "creds.json"),
		Chat:            &ChatConfig{HistoryFile: filepath.Join(t.TempDir(), "history")},
		Speech:          &SpeechConfig{Command: "transcribe", Locales: map[string]string{"am": "am-ET"}},
	}
	bytes, err := json.Marshal(existing)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, bytes, 0644))

	config, err := Parse(path)
	require.NoError(t, err)
	require.Equal(t, "https://counsel.example.com", config.APIHost)
	require.Equal(t, "am", config.Language)
	require.Equal(t, "transcribe", config.Speech.Command)
}

func TestParseFillsMissingSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api_host":"http://h","credentials_file":"/tmp/c"}`), 0644))

	config, err := Parse(path)
	require.NoError(t, err)
	require.NotNil(t, config.Chat)
	require.NotNil(t, config.Speech)
}
