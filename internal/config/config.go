// Package config loads the immutable daemon configuration and resolves the
// streaming API key.
package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	configFileName = "config.json"
	configDirName  = "voxtype"
	metricsSubDir  = "metrics"
)

// Config holds every tunable the daemon reads. It is built once at startup
// and treated as immutable afterwards.
type Config struct {
	Hotkey                string `json:"hotkey"`
	InputMethod           string `json:"input_method"` // auto, xdotool, ydotool, wtype
	SoundFeedback         bool   `json:"sound_feedback"`
	DebounceMS            int    `json:"debounce_ms"`
	ProcessingDeadlineSec int    `json:"processing_deadline_sec"`
	PollTimeoutMS         int    `json:"poll_timeout_ms"`
	HealthIntervalSec     int    `json:"health_interval_sec"`
	MaxUtteranceSec       int    `json:"max_utterance_sec"`
	AssemblyAIKey         string `json:"assemblyai_key,omitempty"`
}

// DefaultConfig returns the shipped defaults.
func DefaultConfig() *Config {
	return &Config{
		Hotkey:                "<ctrl>+<alt>+space",
		InputMethod:           "auto",
		SoundFeedback:         true,
		DebounceMS:            300,
		ProcessingDeadlineSec: 120,
		PollTimeoutMS:         1000,
		HealthIntervalSec:     30,
		MaxUtteranceSec:       60,
	}
}

func (c *Config) Debounce() time.Duration { return time.Duration(c.DebounceMS) * time.Millisecond }

func (c *Config) ProcessingDeadline() time.Duration {
	return time.Duration(c.ProcessingDeadlineSec) * time.Second
}

func (c *Config) PollTimeout() time.Duration { return time.Duration(c.PollTimeoutMS) * time.Millisecond }

func (c *Config) HealthInterval() time.Duration { return time.Duration(c.HealthIntervalSec) * time.Second }

func (c *Config) MaxUtterance() time.Duration { return time.Duration(c.MaxUtteranceSec) * time.Second }

func getConfigDir() (string, error) {
	usr, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(usr.HomeDir, ".config", configDirName), nil
}

func getConfigPath() (string, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFileName), nil
}

// GetConfigPath returns the full path to the config file (exported for CLI commands).
func GetConfigPath() (string, error) {
	return getConfigPath()
}

// LoadConfig returns the defaults overlaid with whatever the config file
// sets. A missing file yields plain defaults.
func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return loadFrom(configPath)
}

func loadFrom(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, err
	}
	// Unmarshalling over the defaults keeps every field the file omits.
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing %s: %v", path, err)
	}
	return config, nil
}

// SaveConfig writes the configuration with user-only permissions (it may
// contain the API key).
func SaveConfig(config *Config) error {
	configDir, err := getConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0600)
}

// SaveDefault writes the default config file on first run so users have
// something to edit.
func SaveDefault() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}
	if err := SaveConfig(DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("📝 Created config file: %s\n", configPath)
	return nil
}

func promptForAPIKey() (string, error) {
	fmt.Println("🔑 AssemblyAI API key not found.")
	fmt.Println("📋 To get your free API key:")
	fmt.Println("   1. Visit: https://www.assemblyai.com/")
	fmt.Println("   2. Sign up and copy the key from the dashboard")
	fmt.Println()
	fmt.Print("🔐 Please enter your AssemblyAI API key: ")

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return "", fmt.Errorf("failed to read input")
	}
	apiKey := strings.TrimSpace(scanner.Text())
	if apiKey == "" {
		return "", fmt.Errorf("API key cannot be empty")
	}
	return apiKey, nil
}

// GetAPIKey resolves the API key: environment, .env file, config file, then
// an interactive prompt (saved for next time).
func GetAPIKey() (string, error) {
	if apiKey := os.Getenv("ASSEMBLYAI_API_KEY"); apiKey != "" {
		return apiKey, nil
	}

	if err := godotenv.Load(); err == nil {
		if apiKey := os.Getenv("ASSEMBLYAI_API_KEY"); apiKey != "" {
			return apiKey, nil
		}
	}

	config, err := LoadConfig()
	if err == nil && config.AssemblyAIKey != "" {
		return config.AssemblyAIKey, nil
	}

	apiKey, err := promptForAPIKey()
	if err != nil {
		return "", err
	}

	if config == nil {
		config = DefaultConfig()
	}
	config.AssemblyAIKey = apiKey
	if err := SaveConfig(config); err != nil {
		fmt.Printf("⚠️  Warning: Failed to save API key: %v\n", err)
		fmt.Println("💡 You'll need to enter it again next time")
	} else {
		configPath, _ := getConfigPath()
		fmt.Printf("✅ API key saved to %s\n", configPath)
	}
	return apiKey, nil
}

// GetMetricsDir returns the directory usage metrics are stored under.
func GetMetricsDir() (string, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, metricsSubDir), nil
}
