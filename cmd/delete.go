package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xolan/tsheet/internal/cli"
	"github.com/xolan/tsheet/internal/entry"
	"github.com/xolan/tsheet/internal/service"
	"github.com/xolan/tsheet/internal/sheet"
)

var yesFlag bool

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:     "delete <index>",
	Aliases: []string{"rm"},
	Short:   "Delete an entry by index",
	Long: `Delete an entry of the selected day by its index number.
The index corresponds to the position shown by 'tsheet list'.
A confirmation prompt will be shown unless --yes is specified.

Example:
  tsheet delete 3
  tsheet delete 3 --yes
  tsheet delete 1 -d yesterday`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deleteEntry(args[0])
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "skip confirmation prompt")

	rootCmd.AddCommand(deleteCmd)
}

// deleteEntry handles the deletion of an entry
func deleteEntry(indexStr string) {
	n, ok := parseIndex(indexStr)
	if !ok {
		return
	}

	withDay(func(_ *service.Services, ed *sheet.Editor) {
		id, ok := entryAt(ed, n)
		if !ok {
			return
		}
		e, _ := ed.Get(id)

		showEntryForDeletion(e, ed.Snapshot())

		// Prompt for confirmation unless --yes flag is set
		if !yesFlag {
			if !promptConfirmation() {
				_, _ = fmt.Fprintln(deps.Stdout, "Deletion cancelled")
				return
			}
		}

		ed.Remove(id)
		_, _ = fmt.Fprintf(deps.Stdout, "Deleted: %s\n", cli.FormatEntry(e))
	})
}

// showEntryForDeletion displays the entry that is about to be deleted
func showEntryForDeletion(e entry.Entry, snap sheet.Snapshot) {
	minutes := 0
	if i := snap.Index(e.ID); i >= 0 {
		minutes = snap.Rows[i].Minutes
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Entry to delete:\n")
	_, _ = fmt.Fprintf(deps.Stdout, "  %s  %s (%s)\n", snap.Date, cli.FormatEntry(e), cli.FormatDuration(minutes))
}

// promptConfirmation asks the user to confirm deletion
// Returns true if user confirms with 'y' or 'Y', false otherwise
func promptConfirmation() bool {
	_, _ = fmt.Fprint(deps.Stdout, "Delete this entry? [y/N]: ")

	scanner := bufio.NewScanner(deps.Stdin)
	if !scanner.Scan() {
		return false
	}

	response := strings.TrimSpace(scanner.Text())
	return response == "y" || response == "Y"
}
