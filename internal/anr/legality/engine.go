package legality

import "time"

// Engine runs the date-sensitive evaluators against an injectable clock so
// rotation and format windows are deterministic under test.
type Engine struct {
	now func() time.Time
}

// Options configures an Engine.
type Options struct {
	// Now supplies the current moment. Defaults to time.Now.
	Now func() time.Time
}

// NewEngine creates an evaluation engine.
func NewEngine(opts Options) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}
