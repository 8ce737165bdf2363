package request

import "time"

// Clock supplies the current time. Injected so admission rules that depend
// on "now" (date validation, the rate-limit window) are deterministic in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }
