package nest

import (
	"bufio"
	"os"
	"time"
)

// progressWatcher periodically reports the number of live and rejected
// points by counting rows in the engine's point files. Purely
// observational: the files may be missing or half-written while the
// engine runs, in which case the tick is skipped.
type progressWatcher struct {
	live     string
	rejected string
	interval time.Duration
	sink     *sink
	stop     chan struct{}
	done     chan struct{}
}

func newProgressWatcher(prefix string, interval time.Duration, s *sink) *progressWatcher {
	return &progressWatcher{
		live:     prefix + "phys_live.points",
		rejected: prefix + "ev.dat",
		interval: interval,
		sink:     s,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (w *progressWatcher) start() {
	go func() {
		defer close(w.done)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.stop:
				return
			case <-ticker.C:
				w.report()
			}
		}
	}()
}

func (w *progressWatcher) halt() {
	close(w.stop)
	<-w.done
}

func (w *progressWatcher) report() {
	live, err := countLines(w.live)
	if err != nil {
		return
	}

	rejected, err := countLines(w.rejected)
	if err != nil {
		return
	}

	w.sink.printf("nest: %d live points, %d rejected points\n", live, rejected)
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		n++
	}

	return n, scanner.Err()
}
