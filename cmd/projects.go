package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xolan/tsheet/internal/cli"
	"github.com/xolan/tsheet/internal/registry"
	"github.com/xolan/tsheet/internal/service"
)

// projectsCmd represents the projects command
var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage the project list",
	Long: `Manage the list of known projects offered as suggestions.

Projects are added automatically when an entry's project is committed.
Renaming or removing a project only changes the suggestions; existing
entries keep the name they were logged with.

Examples:
  tsheet projects
  tsheet projects add acme
  tsheet projects rename acme "Acme Corp"
  tsheet projects rm acme`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		listProjects()
	},
}

var projectsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a project",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		changeProjects(func(r *registry.Registry) (string, error) {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return "", registry.ErrEmptyName
			}
			return "Added " + name, r.EnsureProject(name)
		})
	},
}

var projectsRenameCmd = &cobra.Command{
	Use:               "rename <old> <new>",
	Short:             "Rename a project",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeProjects,
	Run: func(cmd *cobra.Command, args []string) {
		changeProjects(func(r *registry.Registry) (string, error) {
			return fmt.Sprintf("Renamed %s to %s", args[0], args[1]), r.Rename(args[0], args[1])
		})
	},
}

var projectsRemoveCmd = &cobra.Command{
	Use:               "rm <name>",
	Aliases:           []string{"remove"},
	Short:             "Remove a project from the suggestions",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeProjects,
	Run: func(cmd *cobra.Command, args []string) {
		changeProjects(func(r *registry.Registry) (string, error) {
			return "Removed " + args[0], r.Remove(args[0])
		})
	},
}

func init() {
	projectsCmd.AddCommand(projectsAddCmd)
	projectsCmd.AddCommand(projectsRenameCmd)
	projectsCmd.AddCommand(projectsRemoveCmd)
	rootCmd.AddCommand(projectsCmd)
}

func listProjects() {
	services, ok := openServices()
	if !ok {
		return
	}
	defer closeServices(services)

	projects := services.Projects.List()
	p := cli.NewPrinter(deps.Stdout)
	p.Title(fmt.Sprintf("Projects (%d)", len(projects)))
	if len(projects) == 0 {
		p.None("No projects yet")
		return
	}
	for _, name := range projects {
		_, _ = fmt.Fprintln(deps.Stdout, "  "+name)
	}
}

// changeProjects applies one registry change and reports it.
func changeProjects(change func(r *registry.Registry) (string, error)) {
	services, ok := openServices()
	if !ok {
		return
	}
	defer closeServices(services)

	msg, err := change(services.Projects)
	if err != nil {
		fail("Failed to update projects", err, "Run 'tsheet projects' to see the current list")
		return
	}
	_, _ = fmt.Fprintln(deps.Stdout, msg)
}

// completeProjects completes project names from the registry.
func completeProjects(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	services, err := deps.Services(service.Options{})
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer closeServices(services)
	return services.Projects.List(), cobra.ShellCompDirectiveNoFileComp
}
