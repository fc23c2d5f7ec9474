package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	goversion "go.hein.dev/go-version"
)

// Build information, set by SetVersionInfo.
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

var (
	versionShort  bool
	versionOutput string
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the tsheet version",
	Example: `
tsheet version
tsheet version --short
tsheet version -o yaml
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printVersion()
	},
}

func init() {
	versionCmd.Flags().BoolVarP(&versionShort, "short", "s", false, "Print just the version number.")
	versionCmd.Flags().StringVarP(&versionOutput, "output", "o", "json", "Output format. One of 'yaml' or 'json'.")

	rootCmd.AddCommand(versionCmd)
}

func printVersion() {
	resp := goversion.FuncWithOutput(versionShort, buildVersion, buildCommit, buildDate, versionOutput)
	_, _ = fmt.Fprint(deps.Stdout, resp)
}
