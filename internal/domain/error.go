package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotConnected    = errors.New("no resolved session")
	ErrEmptyMessage    = errors.New("message is empty")
)

// The closed set of failure kinds callers branch on. ConnectionError and
// RemoteCallError wrap a cause; ValidationError is terminal and fixable by
// the user without touching the remote side.

// ConnectionError is returned when no resolution strategy produced a usable
// session. RequiredKeys names the config keys a local setup needs.
type ConnectionError struct {
	Attempts     []string // strategy names tried, in order
	RequiredKeys []string
	Cause        error
}

func (e *ConnectionError) Error() string {
	msg := "connection failed"
	if len(e.Attempts) > 0 {
		msg += " (tried: " + strings.Join(e.Attempts, ", ") + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConnectionError) Unwrap() error { return e.Cause }

// ValidationError reports malformed user input detected before any remote
// call; the call is skipped.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RemoteCallError wraps a failed completion/search/transcription call.
// Hint carries the troubleshooting text surfaced next to the message.
type RemoteCallError struct {
	Provider  string // "cortex" | "openai" | "gemini"
	Operation string // "complete" | "search" | "transcribe"
	Hint      string
	Cause     error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Provider, e.Operation, e.Cause)
}

func (e *RemoteCallError) Unwrap() error { return e.Cause }

// IsRetryable reports whether the failure may succeed against another
// strategy or a straight retry. Validation failures never are.
func IsRetryable(err error) bool {
	var ve *ValidationError
	return err != nil && !errors.As(err, &ve)
}
