package cli

import (
	"github.com/spf13/cobra"

	"github.com/azkctl/azkctl/internal/azkaban"
)

func newRunCmd() *cobra.Command {
	var (
		jobs        []string
		properties  []string
		skipRunning bool
	)

	cmd := &cobra.Command{
		Use:   "run FLOW [URL]",
		Short: "Launch a workflow execution",
		Long:  "Launch an execution of FLOW on the server. --job restricts the run to a subset of the flow's jobs; --property supplies runtime flow parameters.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := loadProject(cmd)
			if err != nil {
				return err
			}
			props, err := parseProperties(properties)
			if err != nil {
				return err
			}

			session, err := openSession(cmd, optionalArg(args, 1))
			if err != nil {
				return err
			}
			defer session.Close()

			res, err := session.ExecuteFlow(cmd.Context(), project.Name, args[0], azkaban.ExecuteOptions{
				Jobs:        jobs,
				Properties:  props,
				SkipRunning: skipRunning,
			})
			if err != nil {
				return err
			}
			cmd.Printf("flow %s started (execution id: %s)\n", args[0], res.ExecID)
			cmd.Printf("details at %s\n", session.ExecutionURL(res.ExecID.String()))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&jobs, "job", nil, "Run only this job (repeatable); the rest of the flow is disabled.")
	cmd.Flags().StringArrayVar(&properties, "property", nil, "Runtime property as key=value (repeatable).")
	cmd.Flags().BoolVar(&skipRunning, "skip-running", false, "Skip the submission when the flow is already running.")
	addSessionFlags(cmd)

	return cmd
}
