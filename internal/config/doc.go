// Package config loads, normalizes, and validates the bodywise TOML
// configuration. Load resolves ~/.config/bodywise/config.toml first, then a
// bodywise.toml in the working directory, and falls back to defaults when
// neither exists.
package config
