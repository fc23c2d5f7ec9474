package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xolan/tsheet/internal/cli"
	"github.com/xolan/tsheet/internal/entry"
	"github.com/xolan/tsheet/internal/service"
	"github.com/xolan/tsheet/internal/sheet"
	"github.com/xolan/tsheet/internal/timeutil"
)

var (
	addStartFlag    string
	addDurationFlag string
	pauseStartFlag  string
)

const startHint = "Use HH:MM on a 24-hour clock, e.g. 09:30"

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add [project] [comment...]",
	Short: "Add an entry to the day",
	Long: `Add an entry to the selected day.

The project is the last @project token, or the first word when there is
none. Everything else is the comment. On today the entry starts now unless
--start is given; on other days it stays unscheduled.

A start already taken by another entry moves on by 15 minutes until it is free.
--duration sets a fixed duration, used only while the entry has no start.

Examples:
  tsheet add @acme fix login
  tsheet add acme code review --start 09:30
  tsheet add -d yesterday @acme release notes --start 16:00
  tsheet add -d 2024-01-15 @acme migration --duration 1h30m`,
	Run: func(cmd *cobra.Command, args []string) {
		addEntry(args)
	},
}

// pauseCmd represents the pause command
var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Add a pause",
	Long: `Add a pause entry. Pauses split the day but are left out of project
totals and exports.

Examples:
  tsheet pause
  tsheet pause --start 12:30`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		addPause()
	},
}

func init() {
	addCmd.Flags().StringVarP(&addStartFlag, "start", "s", "", "start time (HH:MM)")
	addCmd.Flags().StringVar(&addDurationFlag, "duration", "", "duration of an unscheduled entry (e.g., 2h, 30m)")
	pauseCmd.Flags().StringVarP(&pauseStartFlag, "start", "s", "", "start time (HH:MM)")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(pauseCmd)
}

// parseStart validates an HH:MM flag and returns it zero-padded.
func parseStart(value string) (string, bool) {
	m, ok := timeutil.ParseTime(strings.TrimSpace(value))
	if !ok {
		fail(fmt.Sprintf("Invalid start '%s'", value), sheet.ErrInvalidStart, startHint)
		return "", false
	}
	return timeutil.FormatTime(m), true
}

// addEntry parses the arguments and adds a new entry
func addEntry(args []string) {
	project, comment := entry.ParseQuickInput(strings.Join(args, " "))
	p := sheet.Prefill{Project: project, Comment: comment}

	if addStartFlag != "" {
		start, ok := parseStart(addStartFlag)
		if !ok {
			return
		}
		p.Start = start
	}
	if addDurationFlag != "" {
		minutes, err := entry.ParseDuration(addDurationFlag)
		if err != nil {
			fail(fmt.Sprintf("Invalid duration '%s'", addDurationFlag), err, "Use format like '2h' (hours) or '30m' (minutes), max 24h")
			return
		}
		p.Minutes = minutes
	}

	withDay(func(_ *service.Services, ed *sheet.Editor) {
		id := ed.AddEntry(p)
		e, _ := ed.Get(id)
		_, _ = fmt.Fprintf(deps.Stdout, "Added: %s\n", cli.FormatEntry(e))
		if p.Start != "" && e.Start != p.Start {
			_, _ = fmt.Fprintf(deps.Stdout, "Note: %s was taken, the entry starts at %s\n", p.Start, e.Start)
		}
	})
}

func addPause() {
	p := sheet.Prefill{Project: entry.PauseLabel, Comment: entry.PauseLabel}
	if pauseStartFlag != "" {
		start, ok := parseStart(pauseStartFlag)
		if !ok {
			return
		}
		p.Start = start
	}

	withDay(func(_ *service.Services, ed *sheet.Editor) {
		id := ed.AddEntry(p)
		e, _ := ed.Get(id)
		_, _ = fmt.Fprintf(deps.Stdout, "Added: %s\n", cli.FormatEntry(e))
	})
}
