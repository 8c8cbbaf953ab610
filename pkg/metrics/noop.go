package metrics

// Noop discards every measurement. Used in tests and one-shot CLI runs where
// no scrape endpoint exists.
type Noop struct{}

// NewNoop creates a no-op recorder.
func NewNoop() *Noop { return &Noop{} }

func (*Noop) RecordFetch(string, string)    {}
func (*Noop) RecordCache(string)            {}
func (*Noop) RecordError(string)            {}
func (*Noop) RecordLatency(string, float64) {}
func (*Noop) RecordUniverseSize(int)        {}
func (*Noop) RecordScore(string, int)       {}
