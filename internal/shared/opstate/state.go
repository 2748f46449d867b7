package opstate

import (
	"errors"
	"sync"
)

// DefaultMessage is used when an error carries no text.
const DefaultMessage = "An unexpected error occurred"

// State tracks the loading flag and the last error message of a service.
// Concurrent operations are not serialised: the last writer wins.
type State struct {
	mu      sync.RWMutex
	loading bool
	err     string
}

// Begin marks an operation as started and clears the previous error.
func (s *State) Begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}

func (s *State) End() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

// Fail stores the message of err and returns it.
func (s *State) Fail(err error) string {
	msg := Message(err)
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
	return msg
}

func (s *State) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Error returns the last error message, empty when none.
func (s *State) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *State) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

// Message extracts a user-facing message from err.
func Message(err error) string {
	if err == nil {
		return DefaultMessage
	}
	var userFacing interface{ UserMessage() string }
	if errors.As(err, &userFacing) {
		if msg := userFacing.UserMessage(); msg != "" {
			return msg
		}
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return DefaultMessage
}
