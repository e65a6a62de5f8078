package cli

import (
	"github.com/spf13/cobra"

	"github.com/azkctl/azkctl/internal/display"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status EXECID [URL]",
		Short: "Show the status of an execution",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openSession(cmd, optionalArg(args, 1))
			if err != nil {
				return err
			}
			defer session.Close()

			res, err := session.ExecutionStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			display.PrintExecutionStatus(cmd.OutOrStdout(), res)
			return nil
		},
	}

	addSessionFlags(cmd)

	return cmd
}

func newLogsCmd() *cobra.Command {
	var (
		offset int64
		length int64
	)

	cmd := &cobra.Command{
		Use:   "logs EXECID JOB [URL]",
		Short: "Fetch a job's logs for an execution",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openSession(cmd, optionalArg(args, 2))
			if err != nil {
				return err
			}
			defer session.Close()

			res, err := session.JobLogs(cmd.Context(), args[0], args[1], offset, length)
			if err != nil {
				return err
			}
			cmd.Print(res.Data)
			return nil
		},
	}

	cmd.Flags().Int64Var(&offset, "offset", 0, "Byte offset into the server-side log buffer.")
	cmd.Flags().Int64Var(&length, "length", 50*1024*1024, "Maximum number of log bytes to fetch.")
	addSessionFlags(cmd)

	return cmd
}
