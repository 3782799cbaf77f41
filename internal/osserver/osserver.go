// Package osserver models the OS-wide server object that owns device
// identity validation. The IPC core queries it when present and falls
// back to its configured default when it is not.
package osserver

import "sync/atomic"

// State describes the server lifecycle.
type State int32

const (
	StateUninitialized State = iota
	StateRunning
	StateDraining
)

// String returns the human-readable state label.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	default:
		return "uninitialized"
	}
}

// Config holds the server's live device identity.
type Config struct {
	LiveDevice string
}

// Server is the OS-server collaborator. It validates configured target
// identities against the live device.
type Server struct {
	liveDevice string
	state      atomic.Int32
}

// New creates a server for the given live device identity.
func New(cfg Config) *Server {
	s := &Server{liveDevice: cfg.LiveDevice}
	s.state.Store(int32(StateRunning))
	return s
}

// ValidateTarget reports whether the configured target identity matches
// the live device.
func (s *Server) ValidateTarget(device string) bool {
	return device == s.liveDevice
}

// State returns the current server state.
func (s *Server) State() State {
	return State(s.state.Load())
}

// SetState transitions the server lifecycle state.
func (s *Server) SetState(state State) {
	s.state.Store(int32(state))
}
