package cli

import (
	"github.com/spf13/cobra"
)

func newBuildCmd() *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "build PATH",
		Short: "Build the project archive",
		Long:  "Build the project's deployable zip archive at PATH: one <name>.job entry per job plus every registered file at its archive path.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := loadProject(cmd)
			if err != nil {
				return err
			}
			if err := project.Build(cmd.Context(), args[0], overwrite); err != nil {
				return err
			}
			cmd.Printf("project %s built at %s\n", project.Name, args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing archive at PATH.")

	return cmd
}
