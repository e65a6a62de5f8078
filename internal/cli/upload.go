package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/azkctl/azkctl/internal/model"
)

func newUploadCmd() *cobra.Command {
	var zipPath string

	cmd := &cobra.Command{
		Use:   "upload [URL]",
		Short: "Build and upload the project archive",
		Long:  "Upload the project archive to the server. Without --zip the archive is built into a temporary file first. The project must already exist server-side.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := loadProject(cmd)
			if err != nil {
				return err
			}
			if err := checkJobTypes(project); err != nil {
				return err
			}

			archive := zipPath
			if archive == "" {
				tmp, err := os.CreateTemp("", project.Name+"-*.zip")
				if err != nil {
					return err
				}
				tmp.Close()
				defer os.Remove(tmp.Name())
				archive = tmp.Name()
				if err := project.Build(cmd.Context(), archive, true); err != nil {
					return err
				}
			} else if !filepath.IsAbs(archive) {
				if archive, err = filepath.Abs(archive); err != nil {
					return err
				}
			}

			session, err := openSession(cmd, optionalArg(args, 0))
			if err != nil {
				return err
			}
			defer session.Close()

			res, err := session.UploadProject(cmd.Context(), project.Name, archive)
			if err != nil {
				return err
			}
			cmd.Printf("project %s uploaded (id: %s, version: %s)\n", project.Name, res.ProjectID, res.Version)
			return nil
		},
	}

	cmd.Flags().StringVar(&zipPath, "zip", "", "Upload an existing archive instead of building one.")
	addSessionFlags(cmd)

	return cmd
}

// checkJobTypes rejects an upload whose jobs the server is guaranteed to
// refuse: every job needs a type option.
func checkJobTypes(project *model.Project) error {
	for _, name := range project.JobNames() {
		job, _ := project.Job(name)
		if job.Type() == "" {
			return fmt.Errorf("job %q has no %q option, the server will reject it", name, model.OptionType)
		}
	}
	return nil
}
