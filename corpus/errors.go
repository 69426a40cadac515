package corpus

import (
	"errors"
	"strconv"
)

// ErrInvalidConfig is returned when a BuildConfig fails its own validation
// (an extractor arity below 1 or a negative worker count) — it never
// results from the data being indexed.
var ErrInvalidConfig = errors.New("corpus: invalid build configuration")

// BuildFailure wraps a panic or error recovered from a worker goroutine
// during BuildParallel, so a single bad shard surfaces as an ordinary
// returned error rather than crashing the process.
type BuildFailure struct {
	Shard int
	Err   error
}

func (e *BuildFailure) Error() string {
	return "corpus: build failed in shard " + strconv.Itoa(e.Shard) + ": " + e.Err.Error()
}

func (e *BuildFailure) Unwrap() error { return e.Err }
