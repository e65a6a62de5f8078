// Package testutil provides shared fixtures for tests: a fake orchestration
// server, a thread-safe log buffer and temp-dir manifest helpers.
package testutil

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Request is one recorded call against the fake server.
type Request struct {
	Path string
	Form map[string]string
	// ArchiveName and ArchiveSize describe the uploaded file part, when
	// the request was multipart.
	ArchiveName string
	ArchiveSize int64
}

// FakeServer is an in-process stand-in for the orchestration server. Tests
// queue canned JSON bodies per endpoint path and inspect the recorded
// requests afterwards.
type FakeServer struct {
	*httptest.Server

	mu        sync.Mutex
	requests  []Request
	responses map[string][]string
}

// NewFakeServer starts a fake server; it is shut down with the test.
func NewFakeServer(t *testing.T) *FakeServer {
	t.Helper()
	fake := &FakeServer{responses: map[string][]string{}}
	fake.Server = httptest.NewServer(http.HandlerFunc(fake.handle))
	t.Cleanup(fake.Server.Close)
	return fake
}

// Respond queues a response body for the given path. Bodies queue in FIFO
// order; when the queue for a path is empty the server answers an empty
// body (the probe contract for a live session token).
func (f *FakeServer) Respond(path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[path] = append(f.responses[path], body)
}

// Requests returns a copy of all recorded requests.
func (f *FakeServer) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

// LastRequest returns the most recent request, failing the test when none
// was made.
func (f *FakeServer) LastRequest(t *testing.T) Request {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests, "no requests recorded")
	return f.requests[len(f.requests)-1]
}

func (f *FakeServer) handle(w http.ResponseWriter, r *http.Request) {
	recorded := Request{Path: r.URL.Path, Form: map[string]string{}}

	contentType := r.Header.Get("Content-Type")
	if len(contentType) >= 19 && contentType[:19] == "multipart/form-data" {
		if err := r.ParseMultipartForm(32 << 20); err == nil {
			for key, values := range r.MultipartForm.Value {
				if len(values) > 0 {
					recorded.Form[key] = values[0]
				}
			}
			if files := r.MultipartForm.File["file"]; len(files) > 0 {
				recorded.ArchiveName = files[0].Filename
				recorded.ArchiveSize = files[0].Size
			}
		}
	} else if err := r.ParseForm(); err == nil {
		for key, values := range r.PostForm {
			if len(values) > 0 {
				recorded.Form[key] = values[0]
			}
		}
	}

	f.mu.Lock()
	f.requests = append(f.requests, recorded)
	var body string
	if queue := f.responses[r.URL.Path]; len(queue) > 0 {
		body = queue[0]
		f.responses[r.URL.Path] = queue[1:]
	}
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

// WriteFiles writes a relative-path -> content map under dir, creating
// intermediate directories.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// WriteRCFile writes a credential file with one alias section pointing at
// the given url, returning its path.
func WriteRCFile(t *testing.T, alias, url, user, sessionID string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".azkabanrc")
	content := "[" + alias + "]\nurl = " + url + "\nuser = " + user + "\nsession_id = " + sessionID + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
