package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateCapture(); err != nil {
		return err
	}
	if err := c.validateCamera(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/bodywise/config.toml"
		}
		return fmt.Errorf("analysis.api_key is required. Set BODYWISE_ANALYSIS_API_KEY env var or edit %s (create with 'bodywise config init')", defaultPath)
	}
	if c.Analysis.MaxAttempts < 1 {
		return errors.New("analysis.max_attempts must be at least 1")
	}
	return nil
}

func (c *Config) validateCapture() error {
	if err := ensurePositiveSeconds(map[string]float64{
		"capture.sample_interval": c.Capture.SampleInterval,
		"capture.prep_delay":      c.Capture.PrepDelay,
		"capture.capture_dwell":   c.Capture.CaptureDwell,
		"capture.confirm_dwell":   c.Capture.ConfirmDwell,
	}); err != nil {
		return err
	}
	if c.Capture.SampleInterval < c.Capture.CaptureDwell {
		return errors.New("capture.sample_interval must not be shorter than capture.capture_dwell")
	}
	return nil
}

func (c *Config) validateCamera() error {
	if c.Camera.Device == "" && c.Camera.SnapshotURL == "" {
		return errors.New("camera.device or camera.snapshot_url must be set")
	}
	if c.Camera.RequestTimeout <= 0 {
		return errors.New("camera.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

func ensurePositiveSeconds(values map[string]float64) error {
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive (seconds)", name)
		}
	}
	return nil
}
