package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeAnalysis(); err != nil {
		return err
	}
	c.normalizeCamera()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Profile.Path) == "" {
		c.Profile.Path = defaultProfilePath
	}
	if c.Profile.Path, err = expandPath(c.Profile.Path); err != nil {
		return fmt.Errorf("profile.path: %w", err)
	}
	if strings.TrimSpace(c.Advisor.TemplatePath) != "" {
		if c.Advisor.TemplatePath, err = expandPath(c.Advisor.TemplatePath); err != nil {
			return fmt.Errorf("advisor.template_path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeAnalysis() error {
	if c.Analysis.APIKey == "" {
		if value, ok := os.LookupEnv("BODYWISE_ANALYSIS_API_KEY"); ok {
			c.Analysis.APIKey = strings.TrimSpace(value)
		}
	}
	c.Analysis.BaseURL = strings.TrimRight(strings.TrimSpace(c.Analysis.BaseURL), "/")
	if c.Analysis.BaseURL == "" {
		c.Analysis.BaseURL = defaultAnalysisBaseURL
	}
	if c.Analysis.TimeoutSeconds <= 0 {
		c.Analysis.TimeoutSeconds = defaultAnalysisTimeoutSeconds
	}
	if c.Analysis.MaxAttempts <= 0 {
		c.Analysis.MaxAttempts = defaultAnalysisMaxAttempts
	}
	return nil
}

func (c *Config) normalizeCamera() {
	c.Camera.Device = strings.TrimSpace(c.Camera.Device)
	if c.Camera.Device == "" {
		c.Camera.Device = defaultCameraDevice
	}
	c.Camera.SnapshotURL = strings.TrimSpace(c.Camera.SnapshotURL)
	if c.Camera.RequestTimeout <= 0 {
		c.Camera.RequestTimeout = defaultCameraRequestTimeout
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
