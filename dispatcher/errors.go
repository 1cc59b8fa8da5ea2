package dispatcher

import (
	"errors"
	"fmt"
)

// protocol errors
var (
	ErrNotConnected     = errors.New("bluzelle is not connected")
	ErrUnknownMethod    = errors.New("unknown method")
	ErrMalformedRequest = errors.New("malformed request")
)

// ProtocolError is a request the dispatcher can not route
type ProtocolError struct {
	Method string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Method == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v %q", e.Err, e.Method)
}

// Unwrap returns the protocol error kind
func (e *ProtocolError) Unwrap() error {
	return e.Err
}
