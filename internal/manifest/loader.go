package manifest

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/azkctl/azkctl/internal/ctxlog"
	"github.com/azkctl/azkctl/internal/fsutil"
	"github.com/azkctl/azkctl/internal/model"
)

// Load finds and parses all .hcl manifest files at path (a file or a
// directory) and returns the projects defined in them, sorted by name.
func Load(ctx context.Context, path string) ([]*model.Project, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("loading project manifests", "path", path)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find manifest files in %s: %w", path, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl manifest files found in %s", path)
	}

	parser := hclparse.NewParser()
	byName := map[string]*model.Project{}
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", file, diags)
		}

		var parsedFile hclManifestFile
		diags = gohcl.DecodeBody(hclFile.Body, nil, &parsedFile)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode manifest %s: %w", file, diags)
		}

		for _, parsedProject := range parsedFile.Projects {
			project, ok := byName[parsedProject.Name]
			if !ok {
				project = model.NewProject(parsedProject.Name)
				byName[parsedProject.Name] = project
			}
			if err := decodeProjectInto(project, parsedProject, file); err != nil {
				return nil, err
			}
		}
	}

	projects := make([]*model.Project, 0, len(byName))
	for _, project := range byName {
		projects = append(projects, project)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })

	logger.Debug("manifests loaded", "files", len(files), "projects", len(projects))
	return projects, nil
}

// Select picks one project out of a loaded set. With an empty name the set
// must contain exactly one project.
func Select(projects []*model.Project, name string) (*model.Project, error) {
	if name == "" {
		if len(projects) == 1 {
			return projects[0], nil
		}
		names := make([]string, len(projects))
		for i, p := range projects {
			names[i] = p.Name
		}
		return nil, fmt.Errorf("manifest defines %d projects %v, pick one with --project", len(projects), names)
	}
	for _, project := range projects {
		if project.Name == name {
			return project, nil
		}
	}
	return nil, fmt.Errorf("project %q not found in manifest", name)
}
