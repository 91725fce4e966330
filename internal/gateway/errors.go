package gateway

import (
	"errors"
	"fmt"
)

// ErrNetwork marks transport-level failures: the gateway never answered.
var ErrNetwork = errors.New("gateway unreachable")

// ErrNotFound marks a 404 from the gateway.
var ErrNotFound = errors.New("not found")

// StatusError is a non-2xx gateway answer other than 404.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway returned status %d: %s", e.Status, e.Body)
}

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsNotFound reports whether err is a gateway 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
