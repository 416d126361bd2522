package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Camera contains configuration for the live video source.
type Camera struct {
	// Device is the local capture device node watched for hotplug events.
	Device string `toml:"device"`
	// SnapshotURL is the HTTP endpoint that serves current still frames.
	SnapshotURL    string `toml:"snapshot_url"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Analysis contains configuration for the remote pose-analysis service.
type Analysis struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxAttempts    int    `toml:"max_attempts"`
}

// Capture contains the session timing configuration. All values are
// wall-clock seconds; fractional values are allowed.
type Capture struct {
	SampleInterval float64 `toml:"sample_interval"`
	PrepDelay      float64 `toml:"prep_delay"`
	CaptureDwell   float64 `toml:"capture_dwell"`
	ConfirmDwell   float64 `toml:"confirm_dwell"`
}

// Advisor contains configuration for the local advisory pose guide.
type Advisor struct {
	Enabled      bool   `toml:"enabled"`
	TemplatePath string `toml:"template_path"`
}

// Profile contains the location of the user profile file.
type Profile struct {
	Path string `toml:"path"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Session        bool   `toml:"session"`
	Poses          bool   `toml:"poses"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for bodywise.
//
// Configuration sections by subsystem:
//   - Paths: data and log directories
//   - Camera: capture device and snapshot endpoint
//   - Analysis: remote pose-analysis service connection and retry cap
//   - Capture: session sampling cadence and phase dwell timings
//   - Advisor: local advisory pose guide
//   - Profile: user profile file location
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Camera        Camera        `toml:"camera"`
	Analysis      Analysis      `toml:"analysis"`
	Capture       Capture       `toml:"capture"`
	Advisor       Advisor       `toml:"advisor"`
	Profile       Profile       `toml:"profile"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/bodywise/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("bodywise.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for session operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SampleInterval returns the sampling cadence as a duration.
func (c *Config) SampleInterval() time.Duration {
	return secondsToDuration(c.Capture.SampleInterval)
}

// PrepDelay returns the pose preparation delay as a duration.
func (c *Config) PrepDelay() time.Duration {
	return secondsToDuration(c.Capture.PrepDelay)
}

// CaptureDwell returns the capture flash dwell as a duration.
func (c *Config) CaptureDwell() time.Duration {
	return secondsToDuration(c.Capture.CaptureDwell)
}

// ConfirmDwell returns the confirmation dwell as a duration.
func (c *Config) ConfirmDwell() time.Duration {
	return secondsToDuration(c.Capture.ConfirmDwell)
}

func secondsToDuration(seconds float64) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
