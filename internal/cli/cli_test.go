package cli

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azkctl/azkctl/internal/testutil"
)

// runCLI executes the full command tree and returns stdout plus the error.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &testutil.SafeBuffer{}
	errW := &testutil.SafeBuffer{}
	err := Execute(args, out, errW)
	return out.String(), err
}

// writeProjectManifest writes a one-project manifest into a temp dir and
// returns the dir.
func writeProjectManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{"project.hcl": content})
	return dir
}

const reportsManifest = `
project "reports" {
  properties = { retention = "30d" }

  job "extract" {
    type    = "command"
    command = "ls"
  }

  job "load" {
    type         = "command"
    command      = "echo done"
    dependencies = ["extract"]
  }
}
`

func TestBuildCommand(t *testing.T) {
	t.Parallel()

	dir := writeProjectManifest(t, reportsManifest)
	dest := filepath.Join(t.TempDir(), "reports.zip")

	out, err := runCLI(t, "build", dest, "-p", dir, "-q")
	require.NoError(t, err)
	assert.Contains(t, out, "project reports built")

	reader, err := zip.OpenReader(dest)
	require.NoError(t, err)
	names := make([]string, len(reader.File))
	for i, f := range reader.File {
		names[i] = f.Name
	}
	require.NoError(t, reader.Close())
	assert.ElementsMatch(t, []string{"extract.job", "load.job"}, names)

	// A second build without --overwrite refuses to clobber the archive.
	_, err = runCLI(t, "build", dest, "-p", dir, "-q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = runCLI(t, "build", dest, "-p", dir, "-q", "--overwrite")
	require.NoError(t, err)
}

func TestBuildCommandMissingManifest(t *testing.T) {
	t.Parallel()

	_, err := runCLI(t, "build", "out.zip", "-p", t.TempDir(), "-q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .hcl manifest files")
}

func TestUploadCommand(t *testing.T) {
	t.Parallel()

	dir := writeProjectManifest(t, reportsManifest)
	fake := testutil.NewFakeServer(t)
	rcPath := testutil.WriteRCFile(t, "test", fake.URL, "etl", "cached-token")

	// First /manager call is the token probe (empty body = valid), the
	// second is the upload itself.
	fake.Respond("/manager", "")
	fake.Respond("/manager", `{"projectId": "12", "version": "3"}`)

	out, err := runCLI(t, "upload", "-p", dir, "-a", "test", "--rcfile", rcPath, "-q")
	require.NoError(t, err)
	assert.Contains(t, out, "project reports uploaded (id: 12, version: 3)")

	upload := fake.LastRequest(t)
	assert.Equal(t, "upload", upload.Form["ajax"])
	assert.Equal(t, "reports", upload.Form["project"])
	assert.Greater(t, upload.ArchiveSize, int64(0), "a built archive must be attached")
}

func TestUploadCommandRejectsJobWithoutType(t *testing.T) {
	t.Parallel()

	dir := writeProjectManifest(t, `
project "reports" {
  job "extract" {
    command = "ls"
  }
}
`)

	_, err := runCLI(t, "upload", "-p", dir, "-q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `job "extract" has no "type" option`)
}

func TestRunCommand(t *testing.T) {
	t.Parallel()

	dir := writeProjectManifest(t, reportsManifest)
	fake := testutil.NewFakeServer(t)
	rcPath := testutil.WriteRCFile(t, "test", fake.URL, "etl", "cached-token")
	fake.Respond("/executor", `{"execid": 42, "message": "Execution submitted successfully"}`)

	out, err := runCLI(t, "run", "load",
		"-p", dir, "-a", "test", "--rcfile", rcPath, "-q",
		"--property", "msg=hello", "--skip-running")
	require.NoError(t, err)
	assert.Contains(t, out, "flow load started (execution id: 42)")
	assert.Contains(t, out, "/executor?execid=42")

	req := fake.LastRequest(t)
	assert.Equal(t, "executeFlow", req.Form["ajax"])
	assert.Equal(t, "reports", req.Form["project"])
	assert.Equal(t, "hello", req.Form["flowOverride[msg]"])
	assert.Equal(t, "skip", req.Form["concurrentOption"])
}

func TestRunCommandInvalidProperty(t *testing.T) {
	t.Parallel()

	dir := writeProjectManifest(t, reportsManifest)
	_, err := runCLI(t, "run", "load", "-p", dir, "-q", "--property", "not-a-pair")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected key=value")
}

func TestCreateCommandWithEnvPassword(t *testing.T) {
	// t.Setenv forbids t.Parallel.
	t.Setenv(passwordEnv, "hunter2")

	fake := testutil.NewFakeServer(t)
	fake.Respond("/", `{"status": "success", "session.id": "tok"}`)
	fake.Respond("/manager", `{"status": "success"}`)

	dir := writeProjectManifest(t, reportsManifest)
	out, err := runCLI(t, "create", "reports", fake.URL,
		"-p", dir, "-u", "etl", "--rcfile", filepath.Join(t.TempDir(), "rc"), "-q",
		"--description", "Nightly reports.")
	require.NoError(t, err)
	assert.Contains(t, out, "project reports created")

	requests := fake.Requests()
	require.Len(t, requests, 2)
	assert.Equal(t, "login", requests[0].Form["action"])
	assert.Equal(t, "hunter2", requests[0].Form["password"])
	assert.Equal(t, "create", requests[1].Form["action"])
	assert.Equal(t, "Nightly reports.", requests[1].Form["description"])
}

func TestDeleteCommand(t *testing.T) {
	t.Parallel()

	fake := testutil.NewFakeServer(t)
	rcPath := testutil.WriteRCFile(t, "test", fake.URL, "etl", "cached-token")
	fake.Respond("/manager", "")
	fake.Respond("/manager", `{"status": "success"}`)

	dir := writeProjectManifest(t, reportsManifest)
	out, err := runCLI(t, "delete", "reports", "-p", dir, "-a", "test", "--rcfile", rcPath, "-q")
	require.NoError(t, err)
	assert.Contains(t, out, "project reports deleted")
}

func TestStatusCommand(t *testing.T) {
	t.Parallel()

	fake := testutil.NewFakeServer(t)
	rcPath := testutil.WriteRCFile(t, "test", fake.URL, "etl", "cached-token")
	fake.Respond("/executor", `{"execid": 42, "flow": "load", "status": "SUCCEEDED", "nodes": [{"id": "extract", "status": "SUCCEEDED"}]}`)

	dir := writeProjectManifest(t, reportsManifest)
	out, err := runCLI(t, "status", "42", "-p", dir, "-a", "test", "--rcfile", rcPath, "-q")
	require.NoError(t, err)
	assert.Contains(t, out, "execution 42 of flow load")
	assert.Contains(t, out, "SUCCEEDED")
	assert.Contains(t, out, "extract")
}

func TestLogsCommand(t *testing.T) {
	t.Parallel()

	fake := testutil.NewFakeServer(t)
	rcPath := testutil.WriteRCFile(t, "test", fake.URL, "etl", "cached-token")
	fake.Respond("/executor", `{"data": "Submitting job 'extract' to run.\n", "offset": 0, "length": 33}`)

	dir := writeProjectManifest(t, reportsManifest)
	out, err := runCLI(t, "logs", "42", "extract", "-p", dir, "-a", "test", "--rcfile", rcPath, "-q")
	require.NoError(t, err)
	assert.Contains(t, out, "Submitting job 'extract' to run.")
}

func TestViewCommand(t *testing.T) {
	t.Parallel()

	dir := writeProjectManifest(t, reportsManifest)

	out, err := runCLI(t, "view", "load", "-p", dir, "-q")
	require.NoError(t, err)
	assert.Contains(t, out, "command=echo done\n")
	assert.Contains(t, out, "dependencies=extract\n")
	assert.NotContains(t, out, "retention")

	// --effective folds the project-global properties in underneath.
	out, err = runCLI(t, "view", "load", "-p", dir, "-q", "--effective")
	require.NoError(t, err)
	assert.Contains(t, out, "retention=30d\n")

	_, err = runCLI(t, "view", "nope", "-p", dir, "-q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing job "nope"`)
}

func TestListCommand(t *testing.T) {
	t.Parallel()

	script := filepath.Join(t.TempDir(), "script.sh")
	require.NoError(t, os.WriteFile(script, []byte("echo hi"), 0o755))
	dir := writeProjectManifest(t, reportsManifest+`
project "reports" {
  file "`+script+`" {
    archive_path = "bin/script.sh"
  }
}
`)

	out, err := runCLI(t, "list", "-p", dir, "-q")
	require.NoError(t, err)
	assert.Equal(t, "extract\nload\n", out)

	out, err = runCLI(t, "list", "-p", dir, "-q", "--files")
	require.NoError(t, err)
	assert.Equal(t, script+"\n", out)

	out, err = runCLI(t, "list", "-p", dir, "-q", "--pretty")
	require.NoError(t, err)
	assert.Contains(t, out, "JOB")
	assert.Contains(t, out, "DEPENDENCIES")
	assert.Contains(t, out, "extract")
}

func TestInvalidLogFlags(t *testing.T) {
	t.Parallel()

	dir := writeProjectManifest(t, reportsManifest)

	_, err := runCLI(t, "list", "-p", dir, "--log-level", "loud")
	require.Error(t, err)
	exitErr, ok := err.(*ExitError)
	require.True(t, ok)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, "invalid log-level")

	_, err = runCLI(t, "list", "-p", dir, "--log-format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log-format")
}

func TestParseProperties(t *testing.T) {
	t.Parallel()

	props, err := parseProperties([]string{"a=1", "b=x=y"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "x=y"}, props)

	props, err = parseProperties(nil)
	require.NoError(t, err)
	assert.Nil(t, props)

	_, err = parseProperties([]string{"=v"})
	require.Error(t, err)
}
