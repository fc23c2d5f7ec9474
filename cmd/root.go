package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xolan/tsheet/internal/cli"
	"github.com/xolan/tsheet/internal/service"
	"github.com/xolan/tsheet/internal/sheet"
)

var (
	dateFlag  string
	debugFlag bool
)

const dateHint = "Use YYYY-MM-DD, DD/MM/YYYY, today, yesterday or tomorrow"

var rootCmd = &cobra.Command{
	Use:   "tsheet",
	Short: "A daily timesheet editor",
	Long: `tsheet keeps a timesheet per day. Every entry has a start time, a project
and a comment; its duration runs until the next entry starts.

Usage:
  tsheet                                  Open the editor (or list today when piped)
  tsheet add @acme fix login              Add an entry starting now
  tsheet add acme review --start 09:30    Add an entry with a start time
  tsheet pause                            Add a pause starting now
  tsheet list -d yesterday                List yesterday's entries
  tsheet edit <n> --comment 'text'        Edit an entry
  tsheet nudge <n> up                     Move an entry's start later
  tsheet delete <n>                       Delete an entry (with confirmation)
  tsheet summary [--year]                 Show time per project
  tsheet export csv [--year]              Write a CSV export

Dates: YYYY-MM-DD, DD/MM/YYYY, today, yesterday, tomorrow
Times: HH:MM (24-hour clock)`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if deps.IsTerminal() {
			runTUI()
			return
		}
		listDay()
	},
}

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check storage health",
	Long:  `Read every stored record and report the ones that cannot be decoded.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		validateStorage()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dateFlag, "date", "d", "", "day to work on (default today)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")

	rootCmd.AddCommand(validateCmd)
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	buildVersion, buildCommit, buildDate = v, c, d
	rootCmd.Version = v
	rootCmd.SetVersionTemplate(
		"tsheet version {{.Version}}\n" +
			"commit: " + c + "\n" +
			"built: " + d + "\n",
	)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// fail reports an error in the Error/Details/Hint layout and exits.
// Callers must return right after, since Exit is replaced in tests.
func fail(msg string, err error, hint string) {
	_, _ = fmt.Fprintf(deps.Stderr, "Error: %s\n", msg)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
	}
	if hint != "" {
		_, _ = fmt.Fprintf(deps.Stderr, "Hint: %s\n", hint)
	}
	deps.Exit(1)
}

// openServices initializes storage and configuration.
func openServices() (*service.Services, bool) {
	services, err := deps.Services(service.Options{Debug: debugFlag})
	if err != nil {
		fail("Failed to initialize tsheet", err, "Check the config file shown by 'tsheet config path'")
		return nil, false
	}
	return services, true
}

func closeServices(services *service.Services) {
	if err := services.Close(); err != nil {
		services.Logger.Warn("close storage", "err", err)
	}
}

// selectedDate resolves the --date flag.
func selectedDate(services *service.Services) (string, bool) {
	date, err := services.ResolveDate(dateFlag)
	if err != nil {
		fail(fmt.Sprintf("Invalid date '%s'", dateFlag), err, dateHint)
		return "", false
	}
	return date, true
}

// withDay opens an editor on the selected day, runs fn and flushes any
// deferred resort before the services are closed.
func withDay(fn func(services *service.Services, ed *sheet.Editor)) {
	services, ok := openServices()
	if !ok {
		return
	}
	defer closeServices(services)

	date, ok := selectedDate(services)
	if !ok {
		return
	}

	ed := services.OpenDay(date, service.OpenOptions{FlushOnly: true})
	defer ed.CancelPending()
	fn(services, ed)
	ed.Flush()

	if err := ed.LastSaveError(); err != nil {
		fail("Failed to save "+date, err, "Check that the data directory is writable ('tsheet validate')")
	}
}

// parseIndex parses a 1-based entry number from the list output.
func parseIndex(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		fail(fmt.Sprintf("Invalid index '%s'. Index must be a number", s), nil, "Run 'tsheet list' to see entry numbers")
		return 0, false
	}
	return n, true
}

// entryAt resolves a 1-based entry number against the editor's order.
func entryAt(ed *sheet.Editor, n int) (string, bool) {
	id, err := service.EntryAt(ed, n)
	if err != nil {
		fail(fmt.Sprintf("No entry %d on %s", n, ed.Date()), err, "Run 'tsheet list' to see entry numbers")
		return "", false
	}
	return id, true
}

// validateStorage reports the health of the stored records.
func validateStorage() {
	services, ok := openServices()
	if !ok {
		return
	}
	defer closeServices(services)

	health, err := services.Repo.Health(context.Background())
	if err != nil {
		fail("Failed to validate storage", err, "")
		return
	}

	cfg := services.Config.Get()
	dir, _ := cfg.DataPath()
	_, _ = fmt.Fprintf(deps.Stdout, "Storage: %s (%s)\n", dir, cfg.Backend)
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))

	_, _ = fmt.Fprintf(deps.Stdout, "Total records:   %d\n", health.TotalRecords)
	_, _ = fmt.Fprintf(deps.Stdout, "Valid records:   %d\n", health.ValidRecords)
	_, _ = fmt.Fprintf(deps.Stdout, "Corrupt records: %d\n", health.CorruptRecords)

	if len(health.Warnings) > 0 {
		_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
		_, _ = fmt.Fprintln(deps.Stdout, "Corrupt records:")
		for _, warning := range health.Warnings {
			_, _ = fmt.Fprintln(deps.Stdout, cli.FormatCorruptionWarning(warning))
		}
	}

	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
	if health.CorruptRecords == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "Status: ✓ Storage is healthy")
	} else {
		_, _ = fmt.Fprintf(deps.Stderr, "Status: ⚠ Storage has %d corrupt %s\n",
			health.CorruptRecords, cli.Pluralize("record", health.CorruptRecords))
	}
}
