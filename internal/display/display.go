// Package display renders tables and styled terminal output for the CLI.
package display

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/azkctl/azkctl/internal/azkaban"
	"github.com/azkctl/azkctl/internal/model"
)

var (
	succeededStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	runningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderStatus colors a server-side execution status for the terminal.
func RenderStatus(status string) string {
	switch strings.ToUpper(status) {
	case "SUCCEEDED":
		return succeededStyle.Render(status)
	case "FAILED", "KILLED", "CANCELLED":
		return failedStyle.Render(status)
	case "RUNNING", "QUEUED", "PREPARING":
		return runningStyle.Render(status)
	default:
		return mutedStyle.Render(status)
	}
}

// PrintJobsTable prints a project's jobs grouped by type, with their
// dependencies.
func PrintJobsTable(out io.Writer, project *model.Project) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "JOB\tTYPE\tDEPENDENCIES")

	names := project.JobNames()
	sort.SliceStable(names, func(i, j int) bool {
		a, _ := project.Job(names[i])
		b, _ := project.Job(names[j])
		if a.Type() != b.Type() {
			return a.Type() < b.Type()
		}
		return names[i] < names[j]
	})

	for _, name := range names {
		job, _ := project.Job(name)
		jobType := job.Type()
		if jobType == "" {
			jobType = "--"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, jobType, strings.Join(job.Dependencies, ","))
	}
	w.Flush()
}

// PrintFilesTable prints a project's registered files and their archive
// destinations.
func PrintFilesTable(out io.Writer, project *model.Project) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "PATH\tARCHIVE PATH")

	files := project.Files()
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		fmt.Fprintf(w, "%s\t%s\n", path, files[path])
	}
	w.Flush()
}

// PrintOptions prints a key=value mapping with sorted keys.
func PrintOptions(out io.Writer, options map[string]string) {
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "%s=%s\n", k, options[k])
	}
}

// PrintExecutionStatus prints an execution's overall status and its per-job
// breakdown.
func PrintExecutionStatus(out io.Writer, status *azkaban.StatusResponse) {
	fmt.Fprintf(out, "execution %s of flow %s: %s\n", status.ExecID, status.Flow, RenderStatus(status.Status))
	if len(status.Nodes) == 0 {
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "JOB\tSTATUS")
	for _, node := range status.Nodes {
		fmt.Fprintf(w, "%s\t%s\n", node.ID, RenderStatus(node.Status))
	}
	w.Flush()
}
