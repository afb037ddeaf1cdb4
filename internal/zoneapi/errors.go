package zoneapi

import (
	"errors"
	"fmt"
)

// RemoteError is a request the server answered with an error payload or a
// non-success status.
type RemoteError struct {
	Op      Operation
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("zoneapi: %s rejected (%d): %s", e.Op, e.Status, e.Message)
}

// TransportError is a request that could not complete, or whose response
// could not be decoded.
type TransportError struct {
	Op  Operation
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("zoneapi: %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerMessage returns the message a RemoteError carries, if err wraps one.
func ServerMessage(err error) (string, bool) {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.Message, true
	}
	return "", false
}
