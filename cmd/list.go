package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xolan/tsheet/internal/cli"
	"github.com/xolan/tsheet/internal/entry"
	"github.com/xolan/tsheet/internal/filter"
	"github.com/xolan/tsheet/internal/service"
	"github.com/xolan/tsheet/internal/sheet"
	"github.com/xolan/tsheet/internal/timeutil"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the entries of a day",
	Long: `List the entries of the selected day, latest start first.

The numbers in the first column are the indexes used by edit, nudge and delete.
Filtered listings keep those numbers.

Examples:
  tsheet list
  tsheet list -d yesterday
  tsheet list -d 2024-01-15
  tsheet list --project acme
  tsheet list --search deploy`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		listDay()
	},
}

var (
	listProjectFlag string
	listSearchFlag  string
)

func init() {
	listCmd.Flags().StringVarP(&listProjectFlag, "project", "p", "", "only entries of this project ('No project' for blank)")
	listCmd.Flags().StringVarP(&listSearchFlag, "search", "s", "", "only entries whose comment contains this text")
	_ = listCmd.RegisterFlagCompletionFunc("project", completeProjects)

	rootCmd.AddCommand(listCmd)
}

// listDay prints the selected day without opening an editor, so listing
// never writes to storage.
func listDay() {
	services, ok := openServices()
	if !ok {
		return
	}
	defer closeServices(services)

	date, ok := selectedDate(services)
	if !ok {
		return
	}
	printDay(services, date)
}

func printDay(services *service.Services, date string) {
	p := cli.NewPrinter(deps.Stdout)
	p.Title(cli.DayHeading(date, services.Clock.Now()))

	ed := services.OpenDay(date, service.OpenOptions{FlushOnly: true})
	defer ed.CancelPending()
	snap := ed.Snapshot()
	if len(snap.Rows) == 0 {
		p.None("No entries for " + date)
		_, _ = fmt.Fprintln(deps.Stdout)
		_, _ = fmt.Fprintln(deps.Stdout, "Hint: Add one with 'tsheet add @project comment'")
		return
	}

	f := filter.NewFilter(listSearchFlag, listProjectFlag)
	if !f.IsEmpty() {
		matched := filter.FilterEntries(entriesOf(snap), f)
		if len(matched) == 0 {
			p.None(fmt.Sprintf("No matching entries among %d", len(snap.Rows)))
			return
		}
		p.DayMatching(snap, f.Matches)
		_, _ = fmt.Fprintln(deps.Stdout)
		_, _ = fmt.Fprintf(deps.Stdout, "Matched: %d of %d, %s\n", len(matched), len(snap.Rows), cli.FormatDuration(matchedMinutes(snap, f)))
		return
	}

	p.Day(snap)
	_, _ = fmt.Fprintln(deps.Stdout)

	sum := services.Summary(date)
	_, _ = fmt.Fprintf(deps.Stdout, "Total: %s (%s), %d %s", cli.FormatDuration(snap.Total),
		timeutil.FormatMinutes(snap.Total), sum.Entries, cli.Pluralize("entry", sum.Entries))
	if sum.Pauses > 0 {
		_, _ = fmt.Fprintf(deps.Stdout, ", %d %s", sum.Pauses, cli.Pluralize("pause", sum.Pauses))
	}
	_, _ = fmt.Fprintln(deps.Stdout)
}

func entriesOf(snap sheet.Snapshot) []entry.Entry {
	out := make([]entry.Entry, len(snap.Rows))
	for i, r := range snap.Rows {
		out[i] = r.Entry
	}
	return out
}

func matchedMinutes(snap sheet.Snapshot, f *filter.Filter) int {
	total := 0
	for _, r := range snap.Rows {
		if !r.Pause && f.Matches(r.Entry) {
			total += r.Minutes
		}
	}
	return total
}
