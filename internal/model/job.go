package model

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// OptionType is the option key the server requires on every job.
const OptionType = "type"

// optionDependencies is reserved: dependencies are modelled as a list and
// rendered into this key at serialization time.
const optionDependencies = "dependencies"

// Job is a single unit of work inside a project. Options are opaque to the
// client and interpreted server-side.
type Job struct {
	Options      map[string]string
	Dependencies []string
}

// NewJob returns a Job with the given options. A nil map is allowed.
func NewJob(options map[string]string) *Job {
	job := &Job{Options: map[string]string{}}
	for k, v := range options {
		job.Options[k] = v
	}
	return job
}

// SetOption sets a single option, overwriting any previous value.
func (j *Job) SetOption(key, value string) {
	if j.Options == nil {
		j.Options = map[string]string{}
	}
	j.Options[key] = value
}

// Option returns the value for key and whether it was set.
func (j *Job) Option(key string) (string, bool) {
	v, ok := j.Options[key]
	return v, ok
}

// Type returns the job's type option, or the empty string when unset.
func (j *Job) Type() string {
	return j.Options[OptionType]
}

// BuildOptions returns the full option mapping as it will be serialized,
// with dependencies rendered as a comma separated list.
func (j *Job) BuildOptions() map[string]string {
	opts := make(map[string]string, len(j.Options)+1)
	for k, v := range j.Options {
		opts[k] = v
	}
	if len(j.Dependencies) > 0 {
		opts[optionDependencies] = strings.Join(j.Dependencies, ",")
	}
	return opts
}

// Write serializes the job to the flat key=value text format understood by
// the server. Keys are sorted so output is deterministic.
func (j *Job) Write(w io.Writer) error {
	opts := j.BuildOptions()
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s=%s\n", k, opts[k]); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy of the job.
func (j *Job) Clone() *Job {
	clone := NewJob(j.Options)
	clone.Dependencies = append([]string(nil), j.Dependencies...)
	return clone
}
