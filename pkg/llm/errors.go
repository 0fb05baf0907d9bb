package llm

import (
	"context"
	"errors"
	"net"
)

// IsTimeout reports whether an error from a provider call was caused by
// a network or context deadline rather than a hard failure.
func IsTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
