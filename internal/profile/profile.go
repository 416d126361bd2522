package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"bodywise/internal/services"
)

// Profile carries the measurements body-composition analysis needs.
type Profile struct {
	Name     string  `toml:"name"`
	HeightCM float64 `toml:"height_cm"`
	WeightKG float64 `toml:"weight_kg"`
	Age      int     `toml:"age"`
	Sex      string  `toml:"sex"`
}

// Complete reports whether every required numeric field is present. The
// session refuses to leave idle while any of these is missing.
func (p Profile) Complete() bool {
	return p.HeightCM > 0 && p.WeightKG > 0 && p.Age > 0
}

// MissingFields lists the required fields that are absent, for prerequisite
// feedback.
func (p Profile) MissingFields() []string {
	var missing []string
	if p.HeightCM <= 0 {
		missing = append(missing, "height_cm")
	}
	if p.WeightKG <= 0 {
		missing = append(missing, "weight_kg")
	}
	if p.Age <= 0 {
		missing = append(missing, "age")
	}
	return missing
}

// Provider loads the current profile.
type Provider interface {
	Load() (Profile, error)
}

// FileProvider reads and writes the profile TOML file.
type FileProvider struct {
	path string
}

// NewFileProvider constructs a provider for the given path.
func NewFileProvider(path string) (*FileProvider, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "profile", "open", "path required", nil)
	}
	return &FileProvider{path: path}, nil
}

// Path returns the backing file path.
func (p *FileProvider) Path() string {
	return p.path
}

// Load reads the profile. A missing file yields an empty (incomplete)
// profile rather than an error so prerequisite checks can report the
// missing fields.
func (p *FileProvider) Load() (Profile, error) {
	var prof Profile
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return prof, nil
		}
		return prof, fmt.Errorf("read profile: %w", err)
	}
	if err := toml.Unmarshal(data, &prof); err != nil {
		return Profile{}, services.Wrap(services.ErrValidation, "profile", "load", "parse profile", err)
	}
	prof.Sex = strings.ToLower(strings.TrimSpace(prof.Sex))
	return prof, nil
}

// Save writes the profile atomically.
func (p *FileProvider) Save(prof Profile) error {
	if dir := filepath.Dir(p.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create profile directory: %w", err)
		}
	}
	data, err := toml.Marshal(prof)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		return fmt.Errorf("replace profile: %w", err)
	}
	return nil
}
