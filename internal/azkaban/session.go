package azkaban

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/azkctl/azkctl/internal/ctxlog"
	"github.com/azkctl/azkctl/internal/rcfile"
)

const sessionIDParam = "session.id"

// PasswordPrompt asks the user for a password. Injected so tests and
// scripted callers can avoid the terminal.
type PasswordPrompt func(user string) (string, error)

// TerminalPrompt reads a password from the controlling terminal without
// echo.
func TerminalPrompt(username string) (string, error) {
	fmt.Fprintf(os.Stderr, "password for %s: ", username)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", Errorf("unable to read password: %v", err)
	}
	return string(password), nil
}

// SessionOptions configures credential resolution. Either Alias or URL must
// be set; Alias wins and enables token caching.
type SessionOptions struct {
	Alias    string
	URL      string
	User     string
	Password string // optional; prompted for when empty and needed

	Store  *rcfile.Store  // required when Alias is set
	Prompt PasswordPrompt // defaults to TerminalPrompt

	ClientOptions []ClientOption
}

// Session is an authenticated connection to one server: a validated URL, a
// username and a session token, plus the cache it re-saves tokens to.
type Session struct {
	URL  string
	User string
	ID   string

	client *Client
	store  *rcfile.Store
	alias  string
}

// OpenSession resolves credentials per the options: alias lookup (or direct
// URL), probe of any cached token, then password login when the token is
// missing or expired. A fresh token obtained under an alias is cached back
// to the store.
func OpenSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	logger := ctxlog.FromContext(ctx)

	var entry rcfile.Entry
	switch {
	case opts.Alias != "":
		if opts.Store == nil {
			return nil, Errorf("alias %q given but no credential store configured", opts.Alias)
		}
		var err error
		entry, err = opts.Store.Lookup(opts.Alias)
		if err != nil {
			return nil, &Error{Message: err.Error()}
		}
		if opts.URL != "" && opts.URL != entry.URL {
			logger.Warn("ignoring server url, alias takes precedence", "url", opts.URL, "alias", opts.Alias)
		}
	case opts.URL != "":
		entry = rcfile.Entry{URL: opts.URL}
	default:
		return nil, Errorf("either a server url or an alias must be specified")
	}

	client, err := NewClient(entry.URL, opts.ClientOptions...)
	if err != nil {
		return nil, err
	}

	session := &Session{
		URL:    client.BaseURL(),
		User:   firstNonEmpty(opts.User, entry.User),
		ID:     entry.SessionID,
		client: client,
		store:  opts.Store,
		alias:  opts.Alias,
	}

	valid := false
	if session.ID != "" {
		valid, err = session.probeToken(ctx)
		if err != nil {
			client.Close()
			return nil, err
		}
		logger.Debug("cached session token probed", "alias", opts.Alias, "valid", valid)
	}
	if valid && opts.Password == "" {
		return session, nil
	}

	if err := session.login(ctx, opts.Password, opts.Prompt); err != nil {
		client.Close()
		return nil, err
	}
	return session, nil
}

// Close releases the session's HTTP resources.
func (s *Session) Close() error {
	return s.client.Close()
}

// probeToken checks the cached token with a lightweight manager call. The
// server answers an empty body for a live token and an error payload
// otherwise, so body presence is the whole contract.
func (s *Session) probeToken(ctx context.Context) (bool, error) {
	body, err := s.client.postRaw(ctx, managerPath, map[string]string{
		sessionIDParam: s.ID,
	})
	if err != nil {
		return false, err
	}
	return len(strings.TrimSpace(string(body))) == 0, nil
}

// login exchanges username/password for a fresh session token and caches it
// under the alias when one was used.
func (s *Session) login(ctx context.Context, password string, prompt PasswordPrompt) error {
	logger := ctxlog.FromContext(ctx)

	if s.User == "" {
		if current, err := user.Current(); err == nil {
			s.User = current.Username
		}
	}
	if password == "" {
		if prompt == nil {
			prompt = TerminalPrompt
		}
		var err error
		password, err = prompt(s.User)
		if err != nil {
			return err
		}
	}

	var res LoginResponse
	err := s.client.postForm(ctx, "", map[string]string{
		"action":   "login",
		"username": s.User,
		"password": password,
	}, &res)
	if err != nil {
		return err
	}
	if res.SessionID == "" {
		return Errorf("login to %s succeeded but no session token was returned", s.URL)
	}
	s.ID = res.SessionID
	logger.Debug("logged in", "url", s.URL, "user", s.User)

	if s.alias != "" && s.store != nil {
		if err := s.store.SaveSession(s.alias, s.ID); err != nil {
			// A stale cache only costs a re-login next time.
			logger.Warn("unable to cache session token", "alias", s.alias, "err", err)
		}
	}
	return nil
}

// CreateProject registers a new project on the server.
func (s *Session) CreateProject(ctx context.Context, name, description string) (*CreateResponse, error) {
	ctxlog.FromContext(ctx).Debug("creating project", "project", name, "url", s.URL)
	var res CreateResponse
	err := s.client.postForm(ctx, managerPath, map[string]string{
		"action":       "create",
		sessionIDParam: s.ID,
		"name":         name,
		"description":  description,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteProject removes a project and all its flows from the server.
func (s *Session) DeleteProject(ctx context.Context, name string) error {
	ctxlog.FromContext(ctx).Debug("deleting project", "project", name, "url", s.URL)
	var res DeleteResponse
	return s.client.postForm(ctx, managerPath, map[string]string{
		"action":       "delete",
		sessionIDParam: s.ID,
		"project":      name,
	}, &res)
}

// UploadProject uploads a built archive for an existing project and returns
// the server-assigned project id and version.
func (s *Session) UploadProject(ctx context.Context, name, archivePath string) (*UploadResponse, error) {
	ctxlog.FromContext(ctx).Debug("uploading project archive", "project", name, "archive", archivePath, "url", s.URL)

	if _, err := os.Stat(archivePath); err != nil {
		return nil, Errorf("unable to find archive at %q", archivePath)
	}

	var res UploadResponse
	err := s.client.postMultipart(ctx, managerPath, map[string]string{
		"ajax":         "upload",
		sessionIDParam: s.ID,
		"project":      name,
	}, "file", archivePath, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// FlowJobs returns the names of all job nodes in a flow.
func (s *Session) FlowJobs(ctx context.Context, project, flow string) ([]string, error) {
	var res FlowJobsResponse
	err := s.client.postForm(ctx, executorPath, map[string]string{
		"ajax":         "fetchflowjobs",
		sessionIDParam: s.ID,
		"project":      project,
		"flow":         flow,
	}, &res)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(res.Nodes))
	for i, node := range res.Nodes {
		names[i] = node.ID
	}
	return names, nil
}

// ExecuteOptions tunes a single flow execution.
type ExecuteOptions struct {
	// Jobs restricts the run to a subset of the flow's jobs; every other
	// job is submitted disabled. Empty means run the whole flow.
	Jobs []string

	// Properties are runtime-supplied flow parameters.
	Properties map[string]string

	// SkipRunning asks the server to skip this submission when the same
	// flow is already running, instead of launching a concurrent one.
	SkipRunning bool
}

// ExecuteFlow launches a workflow execution and returns its execution id.
// When a job subset is requested, the flow's node list is fetched first and
// a reference to a job the flow does not contain fails before anything is
// submitted.
func (s *Session) ExecuteFlow(ctx context.Context, project, flow string, opts ExecuteOptions) (*ExecuteResponse, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("executing flow", "project", project, "flow", flow, "url", s.URL)

	form := map[string]string{
		"ajax":         "executeFlow",
		sessionIDParam: s.ID,
		"project":      project,
		"flow":         flow,
	}

	if len(opts.Jobs) > 0 {
		all, err := s.FlowJobs(ctx, project, flow)
		if err != nil {
			return nil, err
		}
		wanted := make(map[string]bool, len(opts.Jobs))
		for _, job := range opts.Jobs {
			wanted[job] = true
		}
		known := make(map[string]bool, len(all))
		var disabled []string
		for _, job := range all {
			known[job] = true
			if !wanted[job] {
				disabled = append(disabled, job)
			}
		}
		for _, job := range opts.Jobs {
			if !known[job] {
				return nil, Errorf("job %q is not part of flow %q", job, flow)
			}
		}
		encoded, err := json.Marshal(disabled)
		if err != nil {
			return nil, err
		}
		form["disabled"] = string(encoded)
	}

	for key, value := range opts.Properties {
		form["flowOverride["+key+"]"] = value
	}
	if opts.SkipRunning {
		form["concurrentOption"] = "skip"
	}

	var res ExecuteResponse
	if err := s.client.postForm(ctx, executorPath, form, &res); err != nil {
		return nil, err
	}
	logger.Debug("flow submitted", "execid", res.ExecID.String(), "message", res.Message)
	return &res, nil
}

// ExecutionStatus fetches the current status of an execution.
func (s *Session) ExecutionStatus(ctx context.Context, execID string) (*StatusResponse, error) {
	var res StatusResponse
	err := s.client.postForm(ctx, executorPath, map[string]string{
		"ajax":         "fetchexecflow",
		sessionIDParam: s.ID,
		"execid":       execID,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// JobLogs fetches one page of a job's logs within an execution.
func (s *Session) JobLogs(ctx context.Context, execID, job string, offset, length int64) (*LogsResponse, error) {
	var res LogsResponse
	err := s.client.postForm(ctx, executorPath, map[string]string{
		"ajax":         "fetchExecJobLogs",
		sessionIDParam: s.ID,
		"execid":       execID,
		"jobId":        job,
		"offset":       strconv.FormatInt(offset, 10),
		"length":       strconv.FormatInt(length, 10),
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ExecutionURL returns the human-facing details page for an execution.
func (s *Session) ExecutionURL(execID string) string {
	return fmt.Sprintf("%s/executor?execid=%s", s.URL, execID)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
