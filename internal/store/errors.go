package store

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when an operation references an identifier
// absent from the store.
var ErrSessionNotFound = errors.New("session not found")

// SessionInitError wraps a failure to construct the external tool client or
// agent for a new session. No store entry exists when it is returned.
type SessionInitError struct {
	Err error
}

func (e *SessionInitError) Error() string {
	return fmt.Sprintf("failed to create session: %v", e.Err)
}

func (e *SessionInitError) Unwrap() error { return e.Err }

// AgentInvocationError wraps a failure of the bound agent to produce a reply.
// The session survives for future attempts.
type AgentInvocationError struct {
	Err error
}

func (e *AgentInvocationError) Error() string {
	return fmt.Sprintf("agent invocation failed: %v", e.Err)
}

func (e *AgentInvocationError) Unwrap() error { return e.Err }

// ReleaseError wraps a failure to close a session's tool connections during
// deletion. The store entry is removed regardless.
type ReleaseError struct {
	Err error
}

func (e *ReleaseError) Error() string {
	return fmt.Sprintf("failed to close tool connections: %v", e.Err)
}

func (e *ReleaseError) Unwrap() error { return e.Err }
