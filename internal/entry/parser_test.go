package entry

import (
	"strings"
	"testing"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"hours", "2h", 120},
		{"minutes", "45m", 45},
		{"combined", "1h30m", 90},
		{"surrounding space", " 30m ", 30},
		{"max hours", "24h", 1440},
		{"max minutes", "1440m", 1440},
		{"overflowing minutes", "1h90m", 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if err != nil {
				t.Fatalf("ParseDuration(%q) returned unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseDuration(%q) = %d, expected %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseDuration_Invalid(t *testing.T) {
	tests := []struct {
		input    string
		contains string
	}{
		{"", "invalid time format"},
		{"abc", "invalid time format"},
		{"2", "invalid time format"},
		{"m30", "invalid time format"},
		{"30m1h", "invalid time format"},
		{"0h", "cannot be zero"},
		{"0h0m", "cannot be zero"},
		{"25h", "exceeds maximum"},
		{"1441m", "exceeds maximum"},
		{"25h0m", "exceeds maximum"},
		{"153722867280912931h", "exceeds maximum"},
		{"1h99999999999999999m", "exceeds maximum"},
		{"99999999999999999999h", "invalid time format"},
		{"1h99999999999999999999m", "invalid time format"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseDuration(tt.input)
			if err == nil {
				t.Fatalf("ParseDuration(%q) expected error", tt.input)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("ParseDuration(%q) error = %q, expected to contain %q", tt.input, err.Error(), tt.contains)
			}
		})
	}
}

func TestParseQuickInput(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		expectedProject string
		expectedComment string
	}{
		{"empty", "   ", "", ""},
		{"token first", "@acme fix login", "acme", "fix login"},
		{"token last", "fix   login @acme", "acme", "fix login"},
		{"last token wins", "@one review @two", "two", "review"},
		{"accented token", "@café inventaire", "café", "inventaire"},
		{"first word", "Acme fix login", "Acme", "fix login"},
		{"project only", "Acme", "Acme", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project, comment := ParseQuickInput(tt.input)
			if project != tt.expectedProject {
				t.Errorf("project = %q, expected %q", project, tt.expectedProject)
			}
			if comment != tt.expectedComment {
				t.Errorf("comment = %q, expected %q", comment, tt.expectedComment)
			}
		})
	}
}
