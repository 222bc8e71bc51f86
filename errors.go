package scopedcache

import (
	"errors"
	"fmt"
)

// ErrEnumerationUnsupported is returned by RemoveByPrefix when the backing
// store cannot list its keys. Only request-scoped stores enumerate;
// process-wide stores support single-key removal only.
var ErrEnumerationUnsupported = errors.New("scopedcache: store does not support key enumeration")

// CycleError reports that a lookup observed a key whose computation was
// staked but never finished: either the load function re-entered itself for
// the same key, or an earlier load for that key failed and left its
// in-progress marker behind for the rest of the store's scope.
type CycleError struct {
	Key string // canonical key that was observed in progress
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("scopedcache: cycle detected for key %q", e.Key)
}

// IsCycle reports whether err is (or wraps) a *CycleError.
func IsCycle(err error) bool {
	var ce *CycleError
	return errors.As(err, &ce)
}
