package location

import "errors"

var (
	// ErrNoFix means no position arrived within the wait timeout. It is the
	// only "no position" signal; a (0,0) Position is a real coordinate.
	ErrNoFix = errors.New("no position fix obtained")
)

// ErrNoPositionReported is returned when no position has been reported yet.
var ErrNoPositionReported = errors.New("no position has been reported yet")
