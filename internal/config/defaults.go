package config

const (
	defaultDataDir                = "~/.local/share/bodywise"
	defaultLogDir                 = "~/.local/share/bodywise/logs"
	defaultCameraDevice           = "/dev/video0"
	defaultCameraRequestTimeout   = 5
	defaultAnalysisBaseURL        = "https://api.bodywise.fit"
	defaultAnalysisTimeoutSeconds = 30
	defaultAnalysisMaxAttempts    = 3
	defaultSampleInterval         = 3.2
	defaultPrepDelay              = 3.0
	defaultCaptureDwell           = 1.5
	defaultConfirmDwell           = 1.0
	defaultProfilePath            = "~/.config/bodywise/profile.toml"
	defaultNotifyRequestTimeout   = 10
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Camera: Camera{
			Device:         defaultCameraDevice,
			RequestTimeout: defaultCameraRequestTimeout,
		},
		Analysis: Analysis{
			BaseURL:        defaultAnalysisBaseURL,
			TimeoutSeconds: defaultAnalysisTimeoutSeconds,
			MaxAttempts:    defaultAnalysisMaxAttempts,
		},
		Capture: Capture{
			SampleInterval: defaultSampleInterval,
			PrepDelay:      defaultPrepDelay,
			CaptureDwell:   defaultCaptureDwell,
			ConfirmDwell:   defaultConfirmDwell,
		},
		Advisor: Advisor{
			Enabled: true,
		},
		Profile: Profile{
			Path: defaultProfilePath,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Session:        true,
			Poses:          true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
