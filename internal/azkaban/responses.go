package azkaban

import (
	"strconv"
	"strings"
)

// ID is a server-side identifier. Some deployments return ids as JSON
// numbers and some as quoted strings, so both decode into the same type.
type ID string

// UnmarshalJSON accepts string and numeric JSON values.
func (id *ID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	if s == "null" {
		s = ""
	}
	*id = ID(s)
	return nil
}

func (id ID) String() string {
	return string(id)
}

// apiResponse is embedded in every response type to carry the server's
// error field.
type apiResponse struct {
	ErrorMessage string `json:"error"`
}

// apiErr converts a non-empty error field into a domain error.
func (r *apiResponse) apiErr() error {
	if r.ErrorMessage != "" {
		return &Error{Message: r.ErrorMessage}
	}
	return nil
}

// failer is satisfied by all response types via the embedded apiResponse.
type failer interface {
	apiErr() error
}

// LoginResponse is returned by the action=login call.
type LoginResponse struct {
	apiResponse
	SessionID string `json:"session.id"`
	Status    string `json:"status"`
}

// UploadResponse is returned by the ajax=upload call.
type UploadResponse struct {
	apiResponse
	ProjectID ID `json:"projectId"`
	Version   ID `json:"version"`
}

// CreateResponse is returned by the action=create call.
type CreateResponse struct {
	apiResponse
	Status string `json:"status"`
	Path   string `json:"path"`
}

// DeleteResponse is returned by the action=delete call.
type DeleteResponse struct {
	apiResponse
	Status string `json:"status"`
}

// ExecuteResponse is returned by ajax=executeFlow.
type ExecuteResponse struct {
	apiResponse
	ExecID  ID     `json:"execid"`
	Flow    string `json:"flow"`
	Project string `json:"project"`
	Message string `json:"message"`
}

// NodeStatus is the per-job status inside a StatusResponse.
type NodeStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// StatusResponse is returned by ajax=fetchexecflow.
type StatusResponse struct {
	apiResponse
	ExecID    ID           `json:"execid"`
	Flow      string       `json:"flow"`
	Project   string       `json:"project"`
	Status    string       `json:"status"`
	StartTime int64        `json:"startTime"`
	EndTime   int64        `json:"endTime"`
	Nodes     []NodeStatus `json:"nodes"`
}

// LogsResponse is returned by ajax=fetchExecJobLogs. Data holds the raw log
// lines; Offset and Length page through the server-side buffer.
type LogsResponse struct {
	apiResponse
	Data   string `json:"data"`
	Offset int64  `json:"offset"`
	Length int64  `json:"length"`
}

// FlowNode is one job node in a flow graph.
type FlowNode struct {
	ID   string   `json:"id"`
	Type string   `json:"type"`
	In   []string `json:"in"`
}

// FlowJobsResponse is returned by ajax=fetchflowjobs.
type FlowJobsResponse struct {
	apiResponse
	Project ID         `json:"projectId"`
	Flow    string     `json:"flowId"`
	Nodes   []FlowNode `json:"nodes"`
}
