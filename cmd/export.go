package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xolan/tsheet/internal/service"
)

var (
	exportYearFlag   int
	exportOutputFlag string
)

// exportCmd represents the export parent command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export timesheets",
	Long: `Export timesheets for billing or for import into other tools.

Available formats:
  csv     One row per entry followed by per-project totals`,
}

// exportCSVCmd represents the export csv command
var exportCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Export a day or a year as CSV",
	Long: `Export the selected day, or a whole year with --year, as CSV.

Rows are in chronological order with unscheduled entries last.
Per-project totals follow the rows.

The file is written below export_dir as timesheet_YYYY-MM-DD.csv (or
timesheet_YYYY.csv) unless --output names another file. Use --output - to
write to stdout.

Examples:
  tsheet export csv
  tsheet export csv -d yesterday
  tsheet export csv --year 2024
  tsheet export csv --output - > today.csv`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exportCSV(cmd)
	},
}

func init() {
	exportCSVCmd.Flags().IntVar(&exportYearFlag, "year", 0, "export a whole year instead of a day")
	exportCSVCmd.Flags().StringVarP(&exportOutputFlag, "output", "o", "", "output file, '-' for stdout")

	exportCmd.AddCommand(exportCSVCmd)
	rootCmd.AddCommand(exportCmd)
}

func exportCSV(cmd *cobra.Command) {
	services, ok := openServices()
	if !ok {
		return
	}
	defer closeServices(services)

	date, ok := selectedDate(services)
	if !ok {
		return
	}

	year := 0
	if cmd.Flags().Changed("year") {
		year = exportYearFlag
		if year < 1 || year > 9999 {
			fail(fmt.Sprintf("Invalid year %d", exportYearFlag), nil, "Use a four-digit year, e.g. --year 2024")
			return
		}
	}

	if exportOutputFlag == "-" {
		if err := writeCSV(services, date, year); err != nil {
			fail("Failed to export", err, "")
		}
		return
	}

	var path string
	var err error
	if year > 0 {
		path, err = services.ExportYear(context.Background(), year, exportOutputFlag)
	} else {
		path, err = services.ExportDay(date, exportOutputFlag)
	}
	if err != nil {
		fail("Failed to export", err, "Check that export_dir is writable ('tsheet config')")
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Exported to %s\n", path)
}

func writeCSV(services *service.Services, date string, year int) error {
	if year > 0 {
		return services.WriteYearCSV(context.Background(), deps.Stdout, year)
	}
	return services.WriteDayCSV(deps.Stdout, date)
}
