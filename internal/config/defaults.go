package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// UserConfig represents the optional per-user sightsync configuration file.
type UserConfig struct {
	Defaults DefaultsConfig `toml:"defaults"`
}

// DefaultsConfig holds persistent defaults that a job file may override.
type DefaultsConfig struct {
	FFmpeg  *string `toml:"ffmpeg"`
	Workers *int    `toml:"workers"`
	Verify  *bool   `toml:"verify"`
	Log     *string `toml:"log"`
}

// UserPath returns the resolved path to the user config file.
func UserPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "sightsync", "config.toml")
}

// LoadUser reads the user config file from the XDG path. Returns a zero
// UserConfig (no error) if the file does not exist.
func LoadUser() (UserConfig, error) {
	path := UserPath()
	if path == "" {
		return UserConfig{}, nil
	}

	var cfg UserConfig
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return UserConfig{}, nil
		}
		return UserConfig{}, err
	}
	return cfg, nil
}

// Apply copies every set default onto c.
func (d DefaultsConfig) Apply(c *Config) {
	if d.FFmpeg != nil {
		c.FFmpeg = *d.FFmpeg
	}
	if d.Workers != nil {
		c.Workers = *d.Workers
	}
	if d.Verify != nil {
		c.Verify = *d.Verify
	}
}
