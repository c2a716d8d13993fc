package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "metronome"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	clicks  *prom.CounterVec
	tempo   prom.Gauge
	running prom.Gauge
}

var _ Recorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder constructs the metrics and registers them on reg. A nil
// registry gets a fresh one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		clicks: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "clicks_total",
			Help:      "Clicks emitted by tone and outcome",
		}, []string{"tone", "result"}),
		tempo: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "tempo_bpm",
			Help:      "Current tempo in beats per minute",
		}),
		running: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "running",
			Help:      "1 while the beat schedule is running",
		}),
	}
	reg.MustRegister(pr.clicks, pr.tempo, pr.running)
	return pr
}

func (p *PrometheusRecorder) IncClick(tone string, result ResultLabel) {
	if p == nil || p.clicks == nil {
		return
	}
	p.clicks.WithLabelValues(tone, string(result)).Inc()
}

func (p *PrometheusRecorder) SetTempo(bpm int) {
	if p == nil || p.tempo == nil {
		return
	}
	p.tempo.Set(float64(bpm))
}

func (p *PrometheusRecorder) SetRunning(running bool) {
	if p == nil || p.running == nil {
		return
	}
	if running {
		p.running.Set(1)
		return
	}
	p.running.Set(0)
}
