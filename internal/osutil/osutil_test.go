package osutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// MockPathProvider is a mock implementation for testing.
type MockPathProvider struct {
	UserConfigDirFn func() (string, error)
	MkdirAllFn      func(path string, perm os.FileMode) error
}

func (m *MockPathProvider) UserConfigDir() (string, error) {
	if m.UserConfigDirFn != nil {
		return m.UserConfigDirFn()
	}
	return "", nil
}

func (m *MockPathProvider) MkdirAll(path string, perm os.FileMode) error {
	if m.MkdirAllFn != nil {
		return m.MkdirAllFn(path, perm)
	}
	return nil
}

func useProvider(t *testing.T, p PathProvider) {
	t.Helper()
	SetProvider(p)
	t.Cleanup(ResetProvider)
}

func TestDefaultPathProvider_MkdirAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "test", "nested", "dir")

	if err := (DefaultPathProvider{}).MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll returned error: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("MkdirAll did not create %s: %v", dir, err)
	}
}

func TestResetProvider(t *testing.T) {
	SetProvider(&MockPathProvider{})
	ResetProvider()

	if _, ok := Provider.(DefaultPathProvider); !ok {
		t.Error("ResetProvider did not reset to DefaultPathProvider")
	}
}

func TestAppDir(t *testing.T) {
	var created bool
	useProvider(t, &MockPathProvider{
		UserConfigDirFn: func() (string, error) { return "/home/u/.config", nil },
		MkdirAllFn: func(string, os.FileMode) error {
			created = true
			return nil
		},
	})

	tests := []struct {
		name     string
		elem     []string
		expected string
	}{
		{"app only", nil, filepath.Join("/home/u/.config", "tsheet")},
		{"nested", []string{"data"}, filepath.Join("/home/u/.config", "tsheet", "data")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AppDir("tsheet", tt.elem...)
			if err != nil {
				t.Fatalf("AppDir() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("AppDir() = %q, expected %q", got, tt.expected)
			}
		})
	}
	if created {
		t.Error("AppDir must not create directories")
	}
}

func TestEnsureAppDir(t *testing.T) {
	base := t.TempDir()
	useProvider(t, &MockPathProvider{
		UserConfigDirFn: func() (string, error) { return base, nil },
		MkdirAllFn:      os.MkdirAll,
	})

	dir, err := EnsureAppDir("tsheet")
	if err != nil {
		t.Fatalf("EnsureAppDir() error = %v", err)
	}
	if dir != filepath.Join(base, "tsheet") {
		t.Errorf("EnsureAppDir() = %q", dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("directory not created: %v", err)
	}
}

func TestEnsureAppDir_Errors(t *testing.T) {
	errDenied := errors.New("permission denied")

	tests := []struct {
		name     string
		provider *MockPathProvider
	}{
		{"config dir", &MockPathProvider{
			UserConfigDirFn: func() (string, error) { return "", errDenied },
		}},
		{"mkdir", &MockPathProvider{
			UserConfigDirFn: func() (string, error) { return "/ro", nil },
			MkdirAllFn:      func(string, os.FileMode) error { return errDenied },
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useProvider(t, tt.provider)

			_, err := EnsureAppDir("tsheet")
			if !errors.Is(err, errDenied) {
				t.Errorf("EnsureAppDir() error = %v, expected it to wrap %v", err, errDenied)
			}
		})
	}
}
