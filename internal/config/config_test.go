package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/xolan/tsheet/internal/osutil"
	"golang.org/x/text/language"
)

// Helper to create a temporary config file
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}
	return tmpFile
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Backend != "diskv" {
		t.Errorf("DefaultConfig().Backend = %q, expected %q", cfg.Backend, "diskv")
	}
	if cfg.DebounceMS != 400 {
		t.Errorf("DefaultConfig().DebounceMS = %d, expected 400", cfg.DebounceMS)
	}
	if cfg.PickerStart != "07:00" || cfg.PickerEnd != "21:00" || cfg.PickerStep != 15 {
		t.Errorf("DefaultConfig() picker = %s-%s/%d", cfg.PickerStart, cfg.PickerEnd, cfg.PickerStep)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig() does not validate: %v", err)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	tmpFile := createTempConfigFile(t, `data_dir = "/srv/tsheet"
backend = " SQLite "
debounce_ms = 250
theme = "dracula"
picker_start = "8:00"
picker_end = "18:30"
picker_step = 30
quick_projects = ["Acme", " ", "Internal "]
quick_comments = ["meeting"]
export_dir = "/tmp/out"
locale = "fr"`)

	cfg, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.DataDir != "/srv/tsheet" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Backend != "sqlite" {
		t.Errorf("Backend = %q, expected %q", cfg.Backend, "sqlite")
	}
	if cfg.DebounceMS != 250 || cfg.DebounceDelay().Milliseconds() != 250 {
		t.Errorf("DebounceMS = %d", cfg.DebounceMS)
	}
	if cfg.Theme != "dracula" {
		t.Errorf("Theme = %q", cfg.Theme)
	}
	if strings.Join(cfg.QuickProjects, ",") != "Acme,Internal" {
		t.Errorf("QuickProjects = %v", cfg.QuickProjects)
	}
	if cfg.LocaleTag() != language.French {
		t.Errorf("LocaleTag() = %v", cfg.LocaleTag())
	}
	times := cfg.PickerTimes()
	if len(times) != 22 || times[0] != "08:00" || times[len(times)-1] != "18:30" {
		t.Errorf("PickerTimes() = %v", times)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does_not_exist.toml"))
	if err == nil {
		t.Error("Load() should return error for non-existent file")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unclosed string", `backend = "diskv`},
		{"wrong type", `debounce_ms = "fast"`},
		{"garbage", `this is not toml`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(createTempConfigFile(t, tt.content))
			if err == nil {
				t.Fatal("Load() should return error for invalid TOML")
			}
			if !strings.Contains(err.Error(), "failed to parse config file") {
				t.Errorf("error = %q, expected parse error", err.Error())
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name           string
		content        string
		errorSubstring string
	}{
		{"backend", `backend = "redis"`, "invalid backend"},
		{"negative debounce", `debounce_ms = -1`, "invalid debounce_ms"},
		{"huge debounce", `debounce_ms = 60000`, "invalid debounce_ms"},
		{"picker start", `picker_start = "7am"`, "invalid picker_start"},
		{"picker end", `picker_end = "25:00"`, "invalid picker_end"},
		{"picker range", "picker_start = \"18:00\"\npicker_end = \"08:00\"", "invalid picker range"},
		{"picker step", `picker_step = 0`, "invalid picker_step"},
		{"locale", `locale = "not a locale!"`, "invalid locale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(createTempConfigFile(t, tt.content))
			if err == nil {
				t.Fatalf("Load() should fail for %s", tt.content)
			}
			if !strings.Contains(err.Error(), tt.errorSubstring) {
				t.Errorf("error = %q, expected to contain %q", err.Error(), tt.errorSubstring)
			}
		})
	}
}

func TestLoad_PartialConfig(t *testing.T) {
	cfg, err := Load(createTempConfigFile(t, `theme = "nord"`))
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	def := DefaultConfig()
	if cfg.Backend != def.Backend || cfg.DebounceMS != def.DebounceMS || cfg.PickerStep != def.PickerStep {
		t.Errorf("missing fields should keep defaults, got %+v", cfg)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(createTempConfigFile(t, ""))
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Backend != "diskv" {
		t.Errorf("Backend = %q", cfg.Backend)
	}
}

func TestLoad_ExpandsHome(t *testing.T) {
	home, err := homedir.Dir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	cfg, err := Load(createTempConfigFile(t, `data_dir = "~/ts"`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != filepath.Join(home, "ts") {
		t.Errorf("DataDir = %q, expected %q", cfg.DataDir, filepath.Join(home, "ts"))
	}
	if path, _ := cfg.DataPath(); path != cfg.DataDir {
		t.Errorf("DataPath() = %q", path)
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() returned unexpected error: %v", err)
	}
	if cfg.DebounceMS != 400 {
		t.Errorf("DebounceMS = %d, expected default", cfg.DebounceMS)
	}
}

func TestLoadOrDefault_ExistingInvalidFile(t *testing.T) {
	_, err := LoadOrDefault(createTempConfigFile(t, `backend = "nope"`))
	if err == nil || !strings.Contains(err.Error(), "invalid backend") {
		t.Errorf("LoadOrDefault() error = %v, expected invalid backend", err)
	}
}

func TestLoadOrDefault_StatError(t *testing.T) {
	parentDir := filepath.Join(t.TempDir(), "parent")
	if err := os.Mkdir(parentDir, 0755); err != nil {
		t.Fatalf("Failed to create parent directory: %v", err)
	}
	if err := os.Chmod(parentDir, 0000); err != nil {
		t.Skipf("Cannot change directory permissions: %v", err)
	}
	defer func() { _ = os.Chmod(parentDir, 0755) }()

	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	if _, err := LoadOrDefault(filepath.Join(parentDir, "config.toml")); err == nil {
		t.Error("LoadOrDefault() should return error when os.Stat fails")
	}
}

func TestNormalize(t *testing.T) {
	cfg := Config{Backend: "  DISKV ", PickerStart: " 07:00 ", QuickComments: []string{"", " a "}}
	cfg.Normalize()
	if cfg.Backend != "diskv" {
		t.Errorf("Backend = %q", cfg.Backend)
	}
	if cfg.PickerStart != "07:00" {
		t.Errorf("PickerStart = %q", cfg.PickerStart)
	}
	if len(cfg.QuickComments) != 1 || cfg.QuickComments[0] != "a" {
		t.Errorf("QuickComments = %v", cfg.QuickComments)
	}
}

func TestGenerateSampleConfig(t *testing.T) {
	content := GenerateSampleConfig()

	for _, expected := range []string{
		"# tsheet configuration file",
		"# data_dir",
		"# backend",
		"# debounce_ms",
		"# theme",
		"# picker_start",
		"# quick_projects",
		"# export_dir",
		"# log_file",
		"# locale",
	} {
		if !strings.Contains(content, expected) {
			t.Errorf("GenerateSampleConfig() missing expected content: %q", expected)
		}
	}

	// the sample is fully commented out and must load as defaults
	cfg, err := Load(createTempConfigFile(t, content))
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if cfg.DebounceMS != DefaultConfig().DebounceMS {
		t.Error("sample config changed a default")
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	defer osutil.ResetProvider()
	osutil.SetProvider(&mockPathProvider{
		userConfigDirFn: func() (string, error) { return tmpDir, nil },
		mkdirAllFn:      os.MkdirAll,
	})

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned unexpected error: %v", err)
	}
	if path != filepath.Join(tmpDir, AppName, ConfigFile) {
		t.Errorf("GetConfigPath() = %q", path)
	}
	if info, err := os.Stat(filepath.Dir(path)); err != nil || !info.IsDir() {
		t.Errorf("GetConfigPath() parent directory not created: %v", err)
	}
}

func TestGetConfigPath_UserConfigDirError(t *testing.T) {
	defer osutil.ResetProvider()
	osutil.SetProvider(&mockPathProvider{
		userConfigDirFn: func() (string, error) { return "", os.ErrPermission },
	})

	if _, err := GetConfigPath(); err == nil {
		t.Error("GetConfigPath() should return error when UserConfigDir fails")
	}
}

func TestGetConfigPath_MkdirAllError(t *testing.T) {
	tmpDir := t.TempDir()
	defer osutil.ResetProvider()
	osutil.SetProvider(&mockPathProvider{
		userConfigDirFn: func() (string, error) { return tmpDir, nil },
		mkdirAllFn:      func(string, os.FileMode) error { return os.ErrPermission },
	})

	if _, err := GetConfigPath(); err == nil {
		t.Error("GetConfigPath() should return error when MkdirAll fails")
	}
}

// mockPathProvider is a test helper for mocking osutil.PathProvider
type mockPathProvider struct {
	userConfigDirFn func() (string, error)
	mkdirAllFn      func(path string, perm os.FileMode) error
}

func (m *mockPathProvider) UserConfigDir() (string, error) {
	if m.userConfigDirFn != nil {
		return m.userConfigDirFn()
	}
	return "", nil
}

func (m *mockPathProvider) MkdirAll(path string, perm os.FileMode) error {
	if m.mkdirAllFn != nil {
		return m.mkdirAllFn(path, perm)
	}
	return nil
}
