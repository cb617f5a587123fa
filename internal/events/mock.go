package events

import "time"

// MockResolve is emitted after a synthesized resolver completes.
type MockResolve struct {
	ObjectType string
	Field      string
	// Merged reports whether the field combined a real resolver's outcome
	// with the synthesized one.
	Merged   bool
	Err      error
	Duration time.Duration
}
