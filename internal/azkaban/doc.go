// Package azkaban is a thin client for the workflow-orchestration server's
// HTTP API. Every remote operation is a single authenticated POST carrying a
// fixed action parameter; responses are JSON, and a response with an `error`
// field is surfaced to the caller as a domain *Error.
//
// The Session type owns credential resolution: it looks up the server URL,
// username and cached session token by alias in the local rc file, probes
// the token, and re-authenticates (prompting for a password) when the token
// has expired.
package azkaban
