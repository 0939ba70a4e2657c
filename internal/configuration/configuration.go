package configuration

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/addislaw/counsel/internal/file"
)

var defaultConfig = Config{
	APIHost:         "http://localhost:8000",
	RequestTimeout:  60,
	Language:        "en",
	CredentialsFile: "~/.config/counsel/credentials.json",

	Chat: &ChatConfig{
		HistoryFile: "~/.config/counsel/history",
	},

	Speech: &SpeechConfig{
		Locales: map[string]string{
			"en": "en-US",
			"am": "am-ET",
		},
	},
}

// Config holds configuration for the counsel tool.
type Config struct {
	APIHost         string `json:"api_host"`
	RequestTimeout  int    `json:"request_timeout"`
	Language        string `json:"language"`
	CredentialsFile string `json:"credentials_file"`

	Chat   *ChatConfig   `json:"chat"`
	Speech *SpeechConfig `json:"speech"`
}

// ChatConfig holds configuration for counsel chat.
type ChatConfig struct {
	// The file where we persist input history across runs.
	HistoryFile string `json:"history_file"`
}

// SpeechConfig holds configuration for voice input.
type SpeechConfig struct {
	// External transcriber command. Voice input is disabled when empty.
	Command string `json:"command"`
	// Recognition locale per language tag.
	Locales map[string]string `json:"locales"`
}

// Parse a configuration file.
func Parse(path string) (*Config, error) {
	path, err := file.ExpandPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "expanding path")
	}

	if err := initializeIfNotPresent(path); err != nil {
		return nil, errors.Wrap(err, "initializing configuration")
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	config := &Config{}
	if err = json.Unmarshal(bytes, config); err != nil {
		return nil, errors.Wrap(err, "unmarshaling into config")
	}
	if config.Chat == nil {
		config.Chat = defaultConfig.Chat
	}
	if config.Speech == nil {
		config.Speech = defaultConfig.Speech
	}

	expandedCredentialsFile, err := file.ExpandPath(config.CredentialsFile)
	if err != nil {
		return nil, errors.Wrap(err, "expanding credentials file path")
	}
	config.CredentialsFile = expandedCredentialsFile

	expandedHistoryFile, err := file.ExpandPath(config.Chat.HistoryFile)
	if err != nil {
		return nil, errors.Wrap(err, "expanding history file path")
	}
	config.Chat.HistoryFile = expandedHistoryFile
	return config, nil
}

// save a configuration file.
func (c *Config) save(path string) error {
	bytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	err = os.WriteFile(path, bytes, 0644)
	if err != nil {
		return errors.Wrap(err, "writing file")
	}

	return nil
}

// initializeIfNotPresent initializes a config if it does not exist.
func initializeIfNotPresent(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	// Create the directories.
	dir, _ := filepath.Split(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating folders")
	}

	if err := defaultConfig.save(path); err != nil {
		return errors.Wrap(err, "saving default config")
	}
	return nil
}
