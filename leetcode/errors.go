package leetcode

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrUserNotFound is returned when the platform has no user by that name.
var ErrUserNotFound = errors.New("user not found on leetcode")

// UpstreamError covers transport failures, non-200 responses and bodies that
// cannot be decoded. Callers on batch paths skip the item; interactive
// callers surface it.
type UpstreamError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("leetcode %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("leetcode %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsUpstream reports whether err came from a failed upstream call.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
