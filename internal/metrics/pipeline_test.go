package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRun(t *testing.T) {
	before := testutil.ToFloat64(pipelineRunsTotal.WithLabelValues(OutcomeDegraded))
	ObserveRun(OutcomeDegraded, 2*time.Second)
	assert.Equal(t, before+1, testutil.ToFloat64(pipelineRunsTotal.WithLabelValues(OutcomeDegraded)))
}

func TestIncMuxCodecNone(t *testing.T) {
	before := testutil.ToFloat64(muxCodecTotal.WithLabelValues("none"))
	IncMuxCodec("")
	assert.Equal(t, before+1, testutil.ToFloat64(muxCodecTotal.WithLabelValues("none")))
}

func TestIncStageDegraded(t *testing.T) {
	before := testutil.ToFloat64(stageDegradedTotal.WithLabelValues("mix"))
	IncStageDegraded("mix")
	assert.Equal(t, before+1, testutil.ToFloat64(stageDegradedTotal.WithLabelValues("mix")))
}
