package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/azkctl/azkctl/internal/azkaban"
	"github.com/azkctl/azkctl/internal/manifest"
	"github.com/azkctl/azkctl/internal/model"
	"github.com/azkctl/azkctl/internal/rcfile"
)

// passwordEnv lets scripted callers supply the password without a terminal.
const passwordEnv = "AZKABAN_PASSWORD"

// addSessionFlags registers the flags shared by every command that talks to
// the server.
func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("alias", "a", "", "Credential-file alias to resolve the server and cached token from.")
	cmd.Flags().StringP("user", "u", "", "Username (defaults to the alias entry, then the current user).")
}

// loadProject loads the manifest at --project-path and selects one project.
func loadProject(cmd *cobra.Command) (*model.Project, error) {
	path, _ := cmd.Flags().GetString("project-path")
	name, _ := cmd.Flags().GetString("project")

	projects, err := manifest.Load(cmd.Context(), path)
	if err != nil {
		return nil, err
	}
	return manifest.Select(projects, name)
}

// openSession resolves credentials from the alias/url/user flags and logs
// in if needed.
func openSession(cmd *cobra.Command, argURL string) (*azkaban.Session, error) {
	alias, _ := cmd.Flags().GetString("alias")
	user, _ := cmd.Flags().GetString("user")
	rcPath, _ := cmd.Flags().GetString("rcfile")
	insecure, _ := cmd.Flags().GetBool("insecure")

	if rcPath == "" {
		var err error
		rcPath, err = rcfile.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	opts := azkaban.SessionOptions{
		Alias:    alias,
		URL:      argURL,
		User:     user,
		Password: os.Getenv(passwordEnv),
		Store:    rcfile.NewStore(rcPath),
	}
	if insecure {
		opts.ClientOptions = append(opts.ClientOptions, azkaban.WithInsecureTLS())
	}
	return azkaban.OpenSession(cmd.Context(), opts)
}
