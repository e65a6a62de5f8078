package display

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azkctl/azkctl/internal/azkaban"
	"github.com/azkctl/azkctl/internal/model"
)

func TestPrintJobsTableGroupsByType(t *testing.T) {
	t.Parallel()

	project := model.NewProject("foo")
	require.NoError(t, project.AddJob("zeta", model.NewJob(map[string]string{"type": "command"})))
	require.NoError(t, project.AddJob("alpha", model.NewJob(map[string]string{"type": "pig"})))
	require.NoError(t, project.AddJob("beta", &model.Job{
		Options:      map[string]string{"type": "command"},
		Dependencies: []string{"zeta"},
	}))
	require.NoError(t, project.AddJob("typeless", model.NewJob(nil)))

	var buf bytes.Buffer
	PrintJobsTable(&buf, project)
	out := buf.String()

	assert.Contains(t, out, "JOB")
	// Untyped jobs render a placeholder type.
	assert.Contains(t, out, "--")
	assert.Contains(t, out, "zeta")

	// command-typed jobs come before pig-typed ones.
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("beta")), bytes.Index(buf.Bytes(), []byte("alpha")))
}

func TestPrintOptions(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintOptions(&buf, map[string]string{"type": "command", "command": "ls"})
	assert.Equal(t, "command=ls\ntype=command\n", buf.String())
}

func TestPrintExecutionStatus(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintExecutionStatus(&buf, &azkaban.StatusResponse{
		ExecID: "42",
		Flow:   "load",
		Status: "RUNNING",
		Nodes: []azkaban.NodeStatus{
			{ID: "extract", Status: "SUCCEEDED"},
			{ID: "load", Status: "RUNNING"},
		},
	})
	out := buf.String()
	assert.Contains(t, out, "execution 42 of flow load")
	assert.Contains(t, out, "extract")
	assert.Contains(t, out, "RUNNING")
}
