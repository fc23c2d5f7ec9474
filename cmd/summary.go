package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xolan/tsheet/internal/cli"
	"github.com/xolan/tsheet/internal/sheet"
	"github.com/xolan/tsheet/internal/timeutil"
)

var (
	summaryYearFlag bool
	copyFlag        bool
)

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show time per project",
	Long: `Show the time spent per project on the selected day, or over the
whole year of that day with --year. Pauses are not counted.

Examples:
  tsheet summary
  tsheet summary -d yesterday
  tsheet summary --year`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		showSummary()
	},
}

// commentsCmd represents the comments command
var commentsCmd = &cobra.Command{
	Use:   "comments <project>",
	Short: "List the comments logged for a project",
	Long: `List the comments logged for a project on the selected day, latest
first. Use "No project" for entries without a project.

With --copy the comments are also put on the clipboard, one per line, ready
to paste into a time tracking system.

Examples:
  tsheet comments acme
  tsheet comments acme --copy`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeProjects,
	Run: func(cmd *cobra.Command, args []string) {
		showComments(args[0])
	},
}

func init() {
	summaryCmd.Flags().BoolVarP(&summaryYearFlag, "year", "y", false, "summarize the whole year")
	commentsCmd.Flags().BoolVar(&copyFlag, "copy", false, "copy the comments to the clipboard")

	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(commentsCmd)
}

func showSummary() {
	services, ok := openServices()
	if !ok {
		return
	}
	defer closeServices(services)

	date, ok := selectedDate(services)
	if !ok {
		return
	}
	p := cli.NewPrinter(deps.Stdout)

	if !summaryYearFlag {
		sum := services.Summary(date)
		p.Title("Summary for " + cli.DayHeading(date, services.Clock.Now()))
		if len(sum.Totals) == 0 {
			p.None("No project time on " + date)
			return
		}
		p.Totals(sum.Totals, sum.Total)
		return
	}

	t, _ := time.ParseInLocation(timeutil.DateLayout, date, time.Local)
	year, err := services.Year(context.Background(), t.Year())
	if err != nil {
		fail(fmt.Sprintf("Failed to summarize %d", t.Year()), err, "Run 'tsheet validate' to check storage health")
		return
	}
	p.Title(fmt.Sprintf("Summary for %d (%d %s)", year.Year, year.Days, cli.Pluralize("day", year.Days)))
	if len(year.Totals) == 0 {
		p.None(fmt.Sprintf("No project time in %d", year.Year))
		return
	}
	p.Totals(year.Totals, year.Total)
}

func showComments(project string) {
	services, ok := openServices()
	if !ok {
		return
	}
	defer closeServices(services)

	date, ok := selectedDate(services)
	if !ok {
		return
	}

	label := sheet.ProjectLabel(project)
	comments := services.ProjectComments(date, label)
	if len(comments) == 0 {
		_, _ = fmt.Fprintf(deps.Stdout, "No comments for %s on %s\n", label, date)
		return
	}

	for _, c := range comments {
		_, _ = fmt.Fprintln(deps.Stdout, c)
	}

	if copyFlag {
		if err := deps.Clipboard(strings.Join(comments, "\n")); err != nil {
			fail("Failed to copy to the clipboard", err, "Install xclip, xsel or wl-clipboard on Linux")
			return
		}
		_, _ = fmt.Fprintf(deps.Stderr, "Copied %d %s to the clipboard\n", len(comments), cli.Pluralize("comment", len(comments)))
	}
}
