package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultFileName is the CSV file written on save.
const DefaultFileName = "AcousticSignalData.csv"

// HotkeyConfig holds the global toggle key.
type HotkeyConfig struct {
	Key    string `toml:"key"`
	Device string `toml:"device"`
}

// AudioConfig holds chime settings.
type AudioConfig struct {
	ChimeEnabled    bool   `toml:"chime_enabled"`
	ChimeStart      string `toml:"chime_start"`
	ChimeStop       string `toml:"chime_stop"`
	ChimeSampleRate int    `toml:"chime_sample_rate"`
}

// OutputConfig says where the CSV file is written.
type OutputConfig struct {
	Dir      string `toml:"dir"`
	FileName string `toml:"file_name"`
}

// PermissionConfig controls the microphone check done before capture.
type PermissionConfig struct {
	RequireMic bool `toml:"require_mic"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// CustomTheme is a user-defined TUI palette.
type CustomTheme struct {
	Name       string `toml:"name"`
	Primary    string `toml:"primary"`
	Secondary  string `toml:"secondary"`
	Accent     string `toml:"accent"`
	Error      string `toml:"error"`
	Success    string `toml:"success"`
	Warning    string `toml:"warning"`
	Background string `toml:"background"`
	Text       string `toml:"text"`
	Dimmed     string `toml:"dimmed"`
	Separator  string `toml:"separator"`
}

// Config is the top-level configuration.
type Config struct {
	Theme        string           `toml:"theme"`
	Hotkey       HotkeyConfig     `toml:"hotkey"`
	Audio        AudioConfig      `toml:"audio"`
	Output       OutputConfig     `toml:"output"`
	Permission   PermissionConfig `toml:"permission"`
	Log          LogConfig        `toml:"log"`
	CustomThemes []CustomTheme    `toml:"custom_theme"`
}

// Default returns a Config populated with all default values.
func Default() *Config {
	return &Config{
		Theme: "synthwave",
		Hotkey: HotkeyConfig{
			Key: defaultHotkeyKey,
		},
		Audio: AudioConfig{
			ChimeEnabled:    true,
			ChimeSampleRate: 44100,
		},
		Output: OutputConfig{
			Dir:      DefaultDataDir(),
			FileName: DefaultFileName,
		},
		Permission: PermissionConfig{
			RequireMic: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Destination returns the full path of the CSV file.
func (c *Config) Destination() string {
	dir := c.Output.Dir
	if dir == "" {
		dir = DefaultDataDir()
	}
	name := c.Output.FileName
	if name == "" {
		name = DefaultFileName
	}
	return filepath.Join(dir, name)
}

// DefaultPath returns the default config file path (~/.config/sigcap/config.toml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "sigcap", "config.toml")
}

// DefaultDataDir returns the application-private data directory
// (~/.local/share/sigcap).
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "sigcap")
}

// Save writes the config as TOML to path, creating parent directories if
// needed. The data goes to a temporary file that is renamed into place, so
// a crash mid-write leaves the old config intact.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".sigcap-config-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

// Load reads the TOML config from path. A missing file yields the
// defaults without error.
func Load(path string) (*Config, error) {
	cfg := Default()

	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
