package nest

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// sink serializes diagnostic output from the orchestrator, the progress
// watcher and the sampling callbacks. The engine may invoke callbacks from
// several workers at once; a single mutex keeps interleaved lines intact.
type sink struct {
	mu sync.Mutex
	w  io.Writer
}

func newSink(w io.Writer) *sink {
	if w == nil {
		w = os.Stderr
	}

	return &sink{w: w}
}

func (s *sink) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintf(s.w, format, args...)
}
