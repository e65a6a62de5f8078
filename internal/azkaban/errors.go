package azkaban

import "fmt"

// Error is the single user-facing failure type for all client operations:
// filesystem, network, malformed responses and server-reported errors all
// normalize to it.
type Error struct {
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Errorf builds a domain error from a format string.
func Errorf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}
