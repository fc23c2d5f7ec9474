package cmd

import (
	"github.com/spf13/cobra"
	"github.com/xolan/tsheet/internal/tui"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	Long: `Launch the interactive timesheet editor. Running tsheet without a
command does the same when stdout is a terminal.

Views available:
  - Day: Edit the entries of a day
  - Summary: Time per project, copy comments to the clipboard
  - Projects: Add, rename and remove projects
  - Settings: Current configuration and theme

Keyboard shortcuts:
  - Tab/Shift+Tab or F1-F4: Switch views
  - j/k: Move between entries, h/l: previous/next day
  - a: Add entry, b: Pause, p/c: Edit project/comment, s: Start picker
  - +/-: Nudge start, 1-9: Quick projects, alt+1-9: Quick comments
  - ?: Show help
  - q: Quit`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runTUI()
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// runTUI initializes and runs the TUI application
func runTUI() {
	services, ok := openServices()
	if !ok {
		return
	}
	defer closeServices(services)

	date, ok := selectedDate(services)
	if !ok {
		return
	}

	if err := tui.Run(services, date); err != nil {
		fail("Failed to run the terminal UI", err, "Use 'tsheet list' when no terminal is available")
		return
	}
}
