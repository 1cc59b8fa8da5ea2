package bluzelle

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned before any network call when a
// precondition on the arguments does not hold
var ErrInvalidArgument = errors.New("invalid argument")

// ServerError is a transaction rejected by the chain
type ServerError struct {
	Code      uint32
	Codespace string
	RawLog    string
}

func (e *ServerError) Error() string {
	if e.Codespace != "" {
		return fmt.Sprintf("server error: codespace %v code %v: %v", e.Codespace, e.Code, e.RawLog)
	}
	return fmt.Sprintf("server error: code %v: %v", e.Code, e.RawLog)
}

func invalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %v", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
