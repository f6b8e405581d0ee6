package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pipelineRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recap_pipeline_runs_total",
		Help: "Total number of pipeline runs by outcome",
	}, []string{"outcome"})

	pipelineDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "recap_pipeline_duration_seconds",
		Help:    "Wall time of pipeline runs by outcome",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
	}, []string{"outcome"})

	stageDegradedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recap_stage_degraded_total",
		Help: "Total number of non-fatal stage failures converted into absent results",
	}, []string{"stage"})

	muxCodecTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recap_mux_codec_total",
		Help: "Total number of muxed outputs by selected audio codec (none = video only)",
	}, []string{"codec"})

	mixPolicyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recap_mix_policy_total",
		Help: "Total number of mixer decisions by policy",
	}, []string{"policy"})
)

// Run outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// ObserveRun records a finished pipeline run.
func ObserveRun(outcome string, d time.Duration) {
	pipelineRunsTotal.WithLabelValues(outcome).Inc()
	pipelineDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// IncStageDegraded records a stage that degraded to an absent result.
func IncStageDegraded(stage string) {
	stageDegradedTotal.WithLabelValues(stage).Inc()
}

// IncMuxCodec records the audio codec chosen for a muxed output.
func IncMuxCodec(codec string) {
	if codec == "" {
		codec = "none"
	}
	muxCodecTotal.WithLabelValues(codec).Inc()
}

// IncMixPolicy records which mixer branch produced the final audio track.
func IncMixPolicy(policy string) {
	mixPolicyTotal.WithLabelValues(policy).Inc()
}
