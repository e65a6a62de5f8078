package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/azkctl/azkctl/internal/display"
)

func newListCmd() *cobra.Command {
	var (
		files  bool
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the project's jobs or registered files",
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := loadProject(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case files && pretty:
				display.PrintFilesTable(out, project)
			case files:
				paths := make([]string, 0, len(project.Files()))
				for path := range project.Files() {
					paths = append(paths, path)
				}
				sort.Strings(paths)
				for _, path := range paths {
					cmd.Println(path)
				}
			case pretty:
				display.PrintJobsTable(out, project)
			default:
				for _, name := range project.JobNames() {
					cmd.Println(name)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&files, "files", false, "List registered files instead of jobs.")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Render a table instead of plain lines.")

	return cmd
}
