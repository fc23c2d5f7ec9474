package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xolan/tsheet/internal/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display or manage configuration settings",
	Long: `Display the current effective configuration settings for tsheet.

Shows the configuration file location, whether it exists, and all current settings.
Configuration values are merged from the config file with sensible defaults.

By default, tsheet works without any configuration file.

Examples:
  tsheet config                Show all current settings
  tsheet config init           Write a commented sample config file
  tsheet config path           Print the config file location

Configuration file location:
  ~/.config/tsheet/config.toml          Linux
  ~/Library/Application Support/tsheet  macOS
  %AppData%\tsheet\config.toml          Windows`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		showConfig()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a sample config file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		initConfig()
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printConfigPath()
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// showConfig displays the current effective configuration
func showConfig() {
	services, ok := openServices()
	if !ok {
		return
	}
	defer closeServices(services)

	cfg := services.Config.Get()
	configPath := services.Config.GetPath()

	_, _ = fmt.Fprintln(deps.Stdout, "Configuration for tsheet")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 60))
	_, _ = fmt.Fprintln(deps.Stdout)

	_, _ = fmt.Fprintf(deps.Stdout, "Config file:     %s\n", configPath)
	if services.Config.Exists() {
		_, _ = fmt.Fprintln(deps.Stdout, "Status:          File exists (using custom configuration)")
	} else {
		_, _ = fmt.Fprintln(deps.Stdout, "Status:          No config file (using defaults)")
	}
	_, _ = fmt.Fprintln(deps.Stdout)

	dataDir, err := cfg.DataPath()
	if err != nil {
		dataDir = fmt.Sprintf("(unavailable: %v)", err)
	}

	_, _ = fmt.Fprintln(deps.Stdout, "Current Settings:")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 60))
	_, _ = fmt.Fprintf(deps.Stdout, "Backend:         %s\n", cfg.Backend)
	_, _ = fmt.Fprintf(deps.Stdout, "Data dir:        %s\n", dataDir)
	_, _ = fmt.Fprintf(deps.Stdout, "Export dir:      %s\n", orDefault(cfg.ExportDir, "(working directory)"))
	_, _ = fmt.Fprintf(deps.Stdout, "Debounce:        %dms\n", cfg.DebounceMS)
	_, _ = fmt.Fprintf(deps.Stdout, "Picker:          %s to %s every %dm\n", cfg.PickerStart, cfg.PickerEnd, cfg.PickerStep)
	_, _ = fmt.Fprintf(deps.Stdout, "Quick projects:  %s\n", formatSlots(cfg.QuickProjects, ""))
	_, _ = fmt.Fprintf(deps.Stdout, "Quick comments:  %s\n", formatSlots(cfg.QuickComments, "alt+"))
	_, _ = fmt.Fprintf(deps.Stdout, "Theme:           %s\n", orDefault(cfg.Theme, "(default)"))
	_, _ = fmt.Fprintf(deps.Stdout, "Locale:          %s\n", cfg.Locale)
	_, _ = fmt.Fprintf(deps.Stdout, "Log file:        %s\n", orDefault(cfg.LogFile, "(stderr)"))
	_, _ = fmt.Fprintln(deps.Stdout)

	// Display helpful information if using defaults
	if !services.Config.Exists() {
		_, _ = fmt.Fprintln(deps.Stdout, "Tip: Run 'tsheet config init' to create a commented config file.")
		_, _ = fmt.Fprintln(deps.Stdout)
	}
}

func initConfig() {
	services, ok := openServices()
	if !ok {
		return
	}
	defer closeServices(services)

	if err := services.Config.Init(); err != nil {
		fail("Failed to create config file", err, "Edit the existing file or remove it first")
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Created %s\n", services.Config.GetPath())
}

// printConfigPath does not load the file, so it works on a broken config.
func printConfigPath() {
	configPath, err := config.GetConfigPath()
	if err != nil {
		fail("Failed to determine config file location", err, "Check that your home directory is accessible")
		return
	}
	_, _ = fmt.Fprintln(deps.Stdout, configPath)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func formatSlots(values []string, prefix string) string {
	if len(values) == 0 {
		return "(none)"
	}
	parts := make([]string, 0, len(values))
	for i, v := range values {
		if i >= 9 {
			break
		}
		parts = append(parts, fmt.Sprintf("%s%d=%s", prefix, i+1, v))
	}
	return strings.Join(parts, "  ")
}
