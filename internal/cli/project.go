package cli

import (
	"github.com/spf13/cobra"
)

func newCreateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create NAME [URL]",
		Short: "Create a project on the server",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openSession(cmd, optionalArg(args, 1))
			if err != nil {
				return err
			}
			defer session.Close()

			if _, err := session.CreateProject(cmd.Context(), args[0], description); err != nil {
				return err
			}
			cmd.Printf("project %s created\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Project description shown in the server UI.")
	addSessionFlags(cmd)

	return cmd
}

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete NAME [URL]",
		Short: "Delete a project and all its flows from the server",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openSession(cmd, optionalArg(args, 1))
			if err != nil {
				return err
			}
			defer session.Close()

			if err := session.DeleteProject(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Printf("project %s deleted\n", args[0])
			return nil
		},
	}

	addSessionFlags(cmd)

	return cmd
}
