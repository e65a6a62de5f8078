package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azkctl/azkctl/internal/display"
	"github.com/azkctl/azkctl/internal/model"
)

func newViewCmd() *cobra.Command {
	var effective bool

	cmd := &cobra.Command{
		Use:   "view JOB",
		Short: "Show a job's options",
		Long:  "Show a job's options as they will be serialized. With --effective, project-global properties are folded in at their precedence level.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := loadProject(cmd)
			if err != nil {
				return err
			}
			job, ok := project.Job(args[0])
			if !ok {
				return fmt.Errorf("missing job %q in project %q", args[0], project.Name)
			}

			options := job.BuildOptions()
			if effective {
				options = model.ResolveProperties(options, nil, nil, project.Properties)
			}
			display.PrintOptions(cmd.OutOrStdout(), options)
			return nil
		},
	}

	cmd.Flags().BoolVar(&effective, "effective", false, "Resolve project-global properties into the output.")

	return cmd
}
