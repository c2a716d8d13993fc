package metrics

// ResultLabel enumerates click outcomes for counters.
type ResultLabel string

const (
	ResultPlayed ResultLabel = "played"
	ResultFailed ResultLabel = "failed"
)

// Recorder defines observability hooks for the beat scheduler. Implementations may
// forward to Prometheus; NoopRecorder is the default when metrics are not configured.
type Recorder interface {
	IncClick(tone string, result ResultLabel)
	SetTempo(bpm int)
	SetRunning(running bool)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) IncClick(string, ResultLabel) {}
func (NoopRecorder) SetTempo(int)                 {}
func (NoopRecorder) SetRunning(bool)              {}
