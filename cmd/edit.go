package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xolan/tsheet/internal/cli"
	"github.com/xolan/tsheet/internal/service"
	"github.com/xolan/tsheet/internal/sheet"
)

var (
	editProjectFlag string
	editCommentFlag string
	editStartFlag   string
	nudgeTimesFlag  int
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit <index>",
	Short: "Edit an existing entry",
	Long: `Edit the project, comment or start of an existing entry.

Usage:
  tsheet edit <index> --project acme          Update the project
  tsheet edit <index> --comment 'new text'    Update the comment
  tsheet edit <index> --start 10:15           Move the start

The index refers to the entry number shown by 'tsheet list' (starting from 1).
At least one flag (--project, --comment or --start) is required.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		editEntry(cmd, args[0])
	},
}

// nudgeCmd represents the nudge command
var nudgeCmd = &cobra.Command{
	Use:   "nudge <index> up|down",
	Short: "Move an entry's start later or earlier",
	Long: `Move the start of an entry the way the +/- keys of the editor do: the
first nudge snaps to the 5-minute grid, the second to the quarter hour and
further nudges move by 15 minutes. An entry without a start is nudged from
the current time. The row is resorted once all nudges are applied.

Examples:
  tsheet nudge 1 up
  tsheet nudge 2 down --times 3`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"up", "down"},
	Run: func(cmd *cobra.Command, args []string) {
		nudgeEntry(args[0], args[1])
	},
}

func init() {
	editCmd.Flags().StringVarP(&editProjectFlag, "project", "p", "", "new project for the entry")
	editCmd.Flags().StringVarP(&editCommentFlag, "comment", "c", "", "new comment for the entry")
	editCmd.Flags().StringVarP(&editStartFlag, "start", "s", "", "new start time (HH:MM)")
	_ = editCmd.RegisterFlagCompletionFunc("project", completeProjects)

	nudgeCmd.Flags().IntVarP(&nudgeTimesFlag, "times", "n", 1, "number of nudges")

	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(nudgeCmd)
}

// editEntry applies the changed flags to one entry
func editEntry(cmd *cobra.Command, indexStr string) {
	setProject := cmd.Flags().Changed("project")
	setComment := cmd.Flags().Changed("comment")
	setStart := cmd.Flags().Changed("start")
	if !setProject && !setComment && !setStart {
		fail("Nothing to change", nil, "Pass --project, --comment or --start")
		return
	}

	n, ok := parseIndex(indexStr)
	if !ok {
		return
	}

	start := ""
	if setStart {
		if start, ok = parseStart(editStartFlag); !ok {
			return
		}
	}

	withDay(func(_ *service.Services, ed *sheet.Editor) {
		id, ok := entryAt(ed, n)
		if !ok {
			return
		}

		if setProject {
			if err := ed.CommitProject(id, editProjectFlag); err != nil {
				fail("Failed to update project", err, "")
				return
			}
		}
		if setComment {
			if err := ed.TypeComment(id, strings.TrimSpace(editCommentFlag)); err != nil {
				fail("Failed to update comment", err, "")
				return
			}
		}
		if setStart {
			if err := ed.SetStart(id, start); err != nil {
				fail(fmt.Sprintf("Invalid start '%s'", editStartFlag), err, startHint)
				return
			}
		}

		e, _ := ed.Get(id)
		_, _ = fmt.Fprintf(deps.Stdout, "Updated: %s\n", cli.FormatEntry(e))
	})
}

var errDirection = errors.New("direction must be 'up' or 'down'")

// nudgeEntry adjusts the start of one entry the way the +/- keys do
func nudgeEntry(indexStr, direction string) {
	var delta int
	switch strings.ToLower(direction) {
	case "up", "+":
		delta = 1
	case "down", "-":
		delta = -1
	default:
		fail(fmt.Sprintf("Invalid direction '%s'", direction), errDirection, "")
		return
	}
	if nudgeTimesFlag < 1 {
		fail(fmt.Sprintf("Invalid --times %d", nudgeTimesFlag), nil, "Use a count of 1 or more")
		return
	}

	n, ok := parseIndex(indexStr)
	if !ok {
		return
	}

	withDay(func(_ *service.Services, ed *sheet.Editor) {
		id, ok := entryAt(ed, n)
		if !ok {
			return
		}
		before, _ := ed.Get(id)
		for i := 0; i < nudgeTimesFlag; i++ {
			if err := ed.AdjustStart(id, delta); err != nil {
				fail("Failed to move the start", err, "")
				return
			}
		}
		ed.Flush()

		after, _ := ed.Get(id)
		_, _ = fmt.Fprintf(deps.Stdout, "Moved: %s -> %s (now #%d)\n",
			cli.FormatStart(before), cli.FormatEntry(after), ed.Snapshot().Index(id)+1)
	})
}
