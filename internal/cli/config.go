package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user defaults read from the optional config file at
// ~/.config/molpic/config.toml (or $XDG_CONFIG_HOME/molpic/config.toml).
// Zero values mean "not set"; command-line flags always win.
type Config struct {
	// Default canvas size for single images.
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`

	// Default cell size for grid figures.
	PanelWidth  float64 `toml:"panel_width"`
	PanelHeight float64 `toml:"panel_height"`

	// Default output format for batch runs (png or svg).
	Format string `toml:"format"`

	// Alternate lookup service endpoints (tests, mirrors).
	PubChemBaseURL string `toml:"pubchem_base_url"`
	CactusBaseURL  string `toml:"cactus_base_url"`
}

// LoadConfig reads the user's config file. A missing file yields a zero
// Config and no error; a malformed file is reported.
func LoadConfig() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Config{}, nil
	}
	return loadConfigFile(path)
}

func loadConfigFile(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// configPath returns the config file location using the XDG convention.
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
