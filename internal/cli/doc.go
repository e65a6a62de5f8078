// Package cli defines the azkctl command tree. It is responsible for
// translating flags into typed configuration, wiring the logger into the
// command context, and handling process-level concerns like exit codes.
package cli
