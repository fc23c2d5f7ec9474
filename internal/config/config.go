package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"
	"github.com/xolan/tsheet/internal/osutil"
	"github.com/xolan/tsheet/internal/storage"
	"github.com/xolan/tsheet/internal/timeutil"
	"golang.org/x/text/language"
)

const (
	// AppName is the application name used for config directory
	AppName = "tsheet"
	// ConfigFile is the name of the TOML configuration file
	ConfigFile = "config.toml"

	maxDebounceMS = 5000
	maxPickerStep = 240
)

// Config represents the application configuration
type Config struct {
	// DataDir is where day records are stored. Empty means the default
	// directory below the user config dir.
	DataDir string `toml:"data_dir"`
	// Backend selects the storage backend: "diskv" or "sqlite".
	Backend string `toml:"backend"`
	// DebounceMS is the quiet period before rows are resorted after nudges.
	DebounceMS int `toml:"debounce_ms"`
	// Theme is a bubbletint theme ID. Empty uses the built-in default.
	Theme string `toml:"theme"`
	// PickerStart, PickerEnd and PickerStep bound the start-time picker.
	PickerStart string `toml:"picker_start"`
	PickerEnd   string `toml:"picker_end"`
	PickerStep  int    `toml:"picker_step"`
	// QuickProjects are bound to the digit keys in the day view.
	QuickProjects []string `toml:"quick_projects"`
	// QuickComments are appended as "[tag]" to the focused comment.
	QuickComments []string `toml:"quick_comments"`
	// ExportDir is where CSV exports are written. Empty means the working directory.
	ExportDir string `toml:"export_dir"`
	// LogFile receives diagnostics. Empty means stderr.
	LogFile string `toml:"log_file"`
	// Locale orders project names (BCP 47 tag, e.g. "fr" or "en-US").
	Locale string `toml:"locale"`
}

// DefaultConfig returns a Config with the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Backend:     storage.BackendDiskv,
		DebounceMS:  400,
		PickerStart: "07:00",
		PickerEnd:   "21:00",
		PickerStep:  15,
		Locale:      "und",
	}
}

// GetConfigPath returns the path to the config file.
// Uses os.UserConfigDir() for cross-platform XDG-compliant config directory.
// Creates the config directory if it doesn't exist.
func GetConfigPath() (string, error) {
	appDir, err := osutil.EnsureAppDir(AppName)
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, ConfigFile), nil
}

// Load reads, normalizes and validates the config file at path.
// Fields missing from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault loads path, or returns the defaults when it does not exist.
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := DefaultConfig()
			cfg.Normalize()
			return cfg, nil
		}
		return Config{}, err
	}
	return Load(path)
}

// Normalize trims and lowercases enumerated fields and expands "~" in paths.
func (c *Config) Normalize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.Theme = strings.TrimSpace(c.Theme)
	c.PickerStart = strings.TrimSpace(c.PickerStart)
	c.PickerEnd = strings.TrimSpace(c.PickerEnd)
	c.Locale = strings.TrimSpace(c.Locale)
	c.DataDir = expand(c.DataDir)
	c.ExportDir = expand(c.ExportDir)
	c.LogFile = expand(c.LogFile)

	c.QuickProjects = compact(c.QuickProjects)
	c.QuickComments = compact(c.QuickComments)
}

// Validate checks every field and returns the first problem found.
func (c *Config) Validate() error {
	if c.Backend != "" && !slices.Contains(storage.Backends(), c.Backend) {
		return fmt.Errorf("invalid backend %q: must be one of %s", c.Backend, strings.Join(storage.Backends(), ", "))
	}
	if c.DebounceMS < 0 || c.DebounceMS > maxDebounceMS {
		return fmt.Errorf("invalid debounce_ms %d: must be between 0 and %d", c.DebounceMS, maxDebounceMS)
	}

	from, ok := timeutil.ParseTime(c.PickerStart)
	if !ok {
		return fmt.Errorf("invalid picker_start %q: expected HH:MM", c.PickerStart)
	}
	to, ok := timeutil.ParseTime(c.PickerEnd)
	if !ok {
		return fmt.Errorf("invalid picker_end %q: expected HH:MM", c.PickerEnd)
	}
	if to < from {
		return fmt.Errorf("invalid picker range: picker_end %s is before picker_start %s", c.PickerEnd, c.PickerStart)
	}
	if c.PickerStep <= 0 || c.PickerStep > maxPickerStep {
		return fmt.Errorf("invalid picker_step %d: must be between 1 and %d", c.PickerStep, maxPickerStep)
	}

	if c.Locale != "" {
		if _, err := language.Parse(c.Locale); err != nil {
			return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
		}
	}
	return nil
}

// DebounceDelay returns the resort debounce window. Zero selects the
// scheduler default.
func (c Config) DebounceDelay() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// PickerTimes lists the start times offered by the picker.
func (c Config) PickerTimes() []string {
	from, _ := timeutil.ParseTime(c.PickerStart)
	to, _ := timeutil.ParseTime(c.PickerEnd)
	return timeutil.QuarterTimes(from, to, c.PickerStep)
}

// LocaleTag returns the collation locale, falling back to the root locale.
func (c Config) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und
	}
	return tag
}

// DataPath returns the storage directory.
func (c Config) DataPath() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	return storage.GetDataDir()
}

// GenerateSampleConfig returns a commented config file documenting every option.
func GenerateSampleConfig() string {
	return `# tsheet configuration file
# Uncomment and edit the options you want to change.

# Storage directory. Defaults to <user config dir>/tsheet/data.
# data_dir = "~/timesheets"

# Storage backend: "diskv" (one file per day) or "sqlite" (single database file).
# backend = "diskv"

# Milliseconds to wait after the last +/- press before rows are resorted.
# debounce_ms = 400

# bubbletint theme ID, e.g. "dracula", "nord" or "gruvbox_dark".
# theme = ""

# Range and step of the start-time picker.
# picker_start = "07:00"
# picker_end = "21:00"
# picker_step = 15

# Projects bound to the 1-9 keys and comment tags bound to alt+1-9.
# quick_projects = ["Acme", "Internal"]
# quick_comments = ["meeting", "review", "support"]

# Directory for CSV exports. Defaults to the working directory.
# export_dir = "~/Documents"

# Write diagnostics to a file instead of stderr.
# log_file = "~/.local/state/tsheet.log"

# Locale used to sort project names (BCP 47), e.g. "fr", "de", "en-US".
# locale = "und"
`
}

func expand(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if expanded, err := homedir.Expand(path); err == nil {
		return expanded
	}
	return path
}

func compact(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
