package model

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobWrite(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		job      *Job
		expected string
	}{
		{
			name:     "single option",
			job:      NewJob(map[string]string{"type": "command"}),
			expected: "type=command\n",
		},
		{
			name: "options sorted by key",
			job: NewJob(map[string]string{
				"type":    "command",
				"command": "ls",
			}),
			expected: "command=ls\ntype=command\n",
		},
		{
			name: "dependencies rendered as comma separated list",
			job: &Job{
				Options:      map[string]string{"type": "noop"},
				Dependencies: []string{"extract", "transform"},
			},
			expected: "dependencies=extract,transform\ntype=noop\n",
		},
		{
			name:     "empty job writes nothing",
			job:      NewJob(nil),
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			require.NoError(t, tc.job.Write(&buf))
			assert.Equal(t, tc.expected, buf.String())
		})
	}
}

func TestJobBuildOptionsDoesNotMutateJob(t *testing.T) {
	t.Parallel()

	job := &Job{
		Options:      map[string]string{"type": "command"},
		Dependencies: []string{"a"},
	}
	opts := job.BuildOptions()
	assert.Equal(t, "a", opts["dependencies"])
	_, ok := job.Options["dependencies"]
	assert.False(t, ok, "serialization must not leak into the option map")
}

func TestJobClone(t *testing.T) {
	t.Parallel()

	job := &Job{
		Options:      map[string]string{"type": "command"},
		Dependencies: []string{"a"},
	}
	clone := job.Clone()
	clone.SetOption("type", "noop")
	clone.Dependencies[0] = "b"

	assert.Equal(t, "command", job.Options["type"])
	assert.Equal(t, "a", job.Dependencies[0])
}

func TestJobType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "command", NewJob(map[string]string{"type": "command"}).Type())
	assert.Empty(t, NewJob(nil).Type())
}
