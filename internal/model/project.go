package model

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/azkctl/azkctl/internal/ctxlog"
)

// Project aggregates named jobs, extra files and global properties, and
// builds the deployable archive out of them.
type Project struct {
	Name string

	// Properties apply to every job in the project (lowest precedence
	// layer, see ResolveProperties).
	Properties map[string]string

	jobs  map[string]*Job
	files map[string]string // absolute path -> archive path
}

// NewProject returns an empty project with the given name.
func NewProject(name string) *Project {
	return &Project{
		Name:       name,
		Properties: map[string]string{},
		jobs:       map[string]*Job{},
		files:      map[string]string{},
	}
}

// AddJob registers a job under a unique name.
func (p *Project) AddJob(name string, job *Job) error {
	if _, exists := p.jobs[name]; exists {
		return fmt.Errorf("duplicate job name %q", name)
	}
	p.jobs[name] = job
	return nil
}

// Job returns the named job and whether it exists.
func (p *Project) Job(name string) (*Job, bool) {
	job, ok := p.jobs[name]
	return job, ok
}

// JobNames returns all job names in sorted order.
func (p *Project) JobNames() []string {
	names := make([]string, 0, len(p.jobs))
	for name := range p.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddFile registers a file for inclusion in the archive. The path must be
// absolute so archive entries can never escape the archive root, and must
// exist on disk at registration time. Registering the same path twice is a
// no-op as long as the archive destination agrees.
func (p *Project) AddFile(path, archivePath string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("relative path not allowed %q", path)
	}
	if archivePath == "" {
		archivePath = defaultArchivePath(path)
	}
	if existing, ok := p.files[path]; ok {
		if existing != archivePath {
			return fmt.Errorf("inconsistent duplicate %q", path)
		}
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("missing file %q", path)
	}
	p.files[path] = archivePath
	return nil
}

// Files returns the registered files as a path -> archive path mapping.
func (p *Project) Files() map[string]string {
	files := make(map[string]string, len(p.files))
	for path, apath := range p.files {
		files[path] = apath
	}
	return files
}

// MergeInto copies all jobs and files into another project, re-validating
// job name uniqueness and file consistency. Global properties of the target
// win on conflict.
func (p *Project) MergeInto(other *Project) error {
	for name, job := range p.jobs {
		if err := other.AddJob(name, job); err != nil {
			return err
		}
	}
	for path, archivePath := range p.files {
		if err := other.AddFile(path, archivePath); err != nil {
			return err
		}
	}
	for k, v := range p.Properties {
		if _, ok := other.Properties[k]; !ok {
			other.Properties[k] = v
		}
	}
	return nil
}

// Build writes the project archive to path. It refuses to overwrite an
// existing file unless overwrite is set, and refuses to build a project with
// no jobs and no files.
func (p *Project) Build(ctx context.Context, path string, overwrite bool) error {
	logger := ctxlog.FromContext(ctx)

	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("path %q already exists", path)
	}
	if len(p.jobs)+len(p.files) == 0 {
		return fmt.Errorf("building empty project %q", p.Name)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create archive at %q: %w", path, err)
	}
	defer out.Close()

	writer := zip.NewWriter(out)
	for _, name := range p.JobNames() {
		entry, err := writer.Create(name + ".job")
		if err != nil {
			return err
		}
		if err := p.jobs[name].Write(entry); err != nil {
			return err
		}
	}
	for _, path := range p.sortedFilePaths() {
		if err := addFileEntry(writer, path, p.files[path]); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if info, err := os.Stat(path); err == nil {
		logger.Info("project archive built", "project", p.Name, "path", path, "size", info.Size())
	}
	return nil
}

func (p *Project) sortedFilePaths() []string {
	paths := make([]string, 0, len(p.files))
	for path := range p.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func addFileEntry(writer *zip.Writer, path, archivePath string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("missing file %q", path)
	}
	defer src.Close()

	entry, err := writer.Create(archivePath)
	if err != nil {
		return err
	}
	_, err = io.Copy(entry, src)
	return err
}

// defaultArchivePath mirrors the source path inside the archive, minus the
// leading separator.
func defaultArchivePath(path string) string {
	return strings.TrimPrefix(filepath.ToSlash(path), "/")
}
